package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/policy"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.ItemRepository
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, items repo.ItemRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, items: items}
}

type AddItemInput struct {
	Flavor    string
	Size      string
	Quantity  int64
	UnitPrice float64
}

type OrderOutput struct {
	ID     int64        `json:"id"`
	UserID int64        `json:"usuario_id"`
	Status string       `json:"status"`
	Price  float64      `json:"preco"`
	Items  []model.Item `json:"itens"`
}

type CreateOrderOutput struct {
	Message string `json:"mensagem"`
}

type CancelOrderOutput struct {
	Message string      `json:"mensagem"`
	Order   OrderOutput `json:"pedido"`
}

type FinalizeOrderOutput struct {
	Message string      `json:"mensagem"`
	Order   OrderOutput `json:"pedido"`
}

type AddItemOutput struct {
	Message    string  `json:"mensagem"`
	ItemID     int64   `json:"item_id"`
	OrderPrice float64 `json:"preco_pedido"`
}

type RemoveItemOutput struct {
	Message   string      `json:"mensagem"`
	ItemCount int64       `json:"quantidade_itens_pedido"`
	Order     OrderOutput `json:"pedido"`
}

type GetOrderOutput struct {
	ItemCount int64       `json:"quantidade_itens_pedido"`
	Order     OrderOutput `json:"pedido"`
}

type ListOrdersOutput struct {
	Orders []OrderOutput `json:"pedidos"`
}

// Create opens a new pending order owned by the acting user. Any owner id
// supplied by the client is ignored: the token decides.
func (u *OrderUsecase) Create(ctx context.Context, actor *model.User) (CreateOrderOutput, error) {
	if actor == nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	orderID, err := u.orders.Create(ctx, model.Order{
		UserID: actor.ID,
		Status: model.OrderStatusPending,
		Price:  0,
	})
	if err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	return CreateOrderOutput{
		Message: fmt.Sprintf("pedido criado com sucesso. ID do pedido: %d", orderID),
	}, nil
}

// Cancel moves a pending order to CANCELADO. Terminal orders stay terminal:
// re-canceling is an error, not a silent re-apply.
func (u *OrderUsecase) Cancel(ctx context.Context, actor *model.User, orderID int64) (CancelOrderOutput, error) {
	out, err := u.transition(ctx, actor, orderID, model.OrderStatusCanceled)
	if err != nil {
		return CancelOrderOutput{}, err
	}
	return CancelOrderOutput{
		Message: fmt.Sprintf("pedido número %d cancelado com sucesso", orderID),
		Order:   out,
	}, nil
}

// Finalize moves a pending order to FINALIZADO.
func (u *OrderUsecase) Finalize(ctx context.Context, actor *model.User, orderID int64) (FinalizeOrderOutput, error) {
	out, err := u.transition(ctx, actor, orderID, model.OrderStatusFinished)
	if err != nil {
		return FinalizeOrderOutput{}, err
	}
	return FinalizeOrderOutput{
		Message: fmt.Sprintf("pedido número %d finalizado com sucesso", orderID),
		Order:   out,
	}, nil
}

func (u *OrderUsecase) transition(ctx context.Context, actor *model.User, orderID int64, to model.OrderStatus) (OrderOutput, error) {
	if actor == nil {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "pedido não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		if !policy.CanAccessOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "você não tem autorização para fazer essa modificação")
		}

		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusBadRequest, "pedido já finalizado ou cancelado")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, to); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		items, err := r.Items().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		o.Status = to
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// AddItem appends an item to a pending order and recomputes the order total
// in the same transaction, so the total is never observed out of sync with
// the items.
func (u *OrderUsecase) AddItem(ctx context.Context, actor *model.User, orderID int64, in AddItemInput) (AddItemOutput, error) {
	if actor == nil {
		return AddItemOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}
	if strings.TrimSpace(in.Flavor) == "" {
		return AddItemOutput{}, NewHTTPError(http.StatusBadRequest, "sabor é obrigatório")
	}
	if strings.TrimSpace(in.Size) == "" {
		return AddItemOutput{}, NewHTTPError(http.StatusBadRequest, "tamanho é obrigatório")
	}
	if in.Quantity <= 0 {
		return AddItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantidade deve ser maior que zero")
	}
	if in.UnitPrice < 0 {
		return AddItemOutput{}, NewHTTPError(http.StatusBadRequest, "preço unitário não pode ser negativo")
	}

	var out AddItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "pedido não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		if !policy.CanAccessOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "você não tem autorização para fazer essa modificação")
		}

		// items only attach to pending orders
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusBadRequest, "pedido já finalizado ou cancelado")
		}

		item := &model.Item{
			OrderID:   orderID,
			Flavor:    in.Flavor,
			Size:      in.Size,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		if err := r.Items().Create(ctx, item); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		items, err := r.Items().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		total := sumItems(items)
		if err := r.Orders().UpdatePrice(ctx, orderID, total); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		out = AddItemOutput{
			Message:    "item criado com sucesso",
			ItemID:     item.ID,
			OrderPrice: total,
		}
		return nil
	})

	if err != nil {
		return AddItemOutput{}, err
	}
	return out, nil
}

// RemoveItem deletes one item and recomputes the parent order's total
// atomically. Access is checked against the parent order.
func (u *OrderUsecase) RemoveItem(ctx context.Context, actor *model.User, itemID int64) (RemoveItemOutput, error) {
	if actor == nil {
		return RemoveItemOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	var out RemoveItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.Items().FindByID(ctx, itemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "item não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		o, err := r.Orders().FindByIDForUpdate(ctx, item.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "pedido não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		if !policy.CanAccessOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "você não tem autorização para fazer essa modificação")
		}

		if err := r.Items().Delete(ctx, itemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		items, err := r.Items().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		total := sumItems(items)
		if err := r.Orders().UpdatePrice(ctx, o.ID, total); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}

		o.Price = total
		out = RemoveItemOutput{
			Message:   "item removido com sucesso",
			ItemCount: int64(len(items)),
			Order:     toOrderOutput(o, items),
		}
		return nil
	})

	if err != nil {
		return RemoveItemOutput{}, err
	}
	return out, nil
}

// Get returns one order with its full item list and item count.
func (u *OrderUsecase) Get(ctx context.Context, actor *model.User, orderID int64) (GetOrderOutput, error) {
	if actor == nil {
		return GetOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return GetOrderOutput{}, NewHTTPError(http.StatusBadRequest, "pedido não encontrado")
	}
	if err != nil {
		return GetOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	if !policy.CanAccessOrder(actor, o) {
		return GetOrderOutput{}, NewHTTPError(http.StatusForbidden, "você não tem autorização para acessar esse pedido")
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return GetOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	return GetOrderOutput{
		ItemCount: int64(len(items)),
		Order:     toOrderOutput(o, items),
	}, nil
}

// ListAll is the admin-only system-wide listing.
func (u *OrderUsecase) ListAll(ctx context.Context, actor *model.User) (ListOrdersOutput, error) {
	if actor == nil {
		return ListOrdersOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}
	if !policy.CanListAllOrders(actor) {
		return ListOrdersOutput{}, NewHTTPError(http.StatusForbidden, "acesso restrito a administradores")
	}

	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return ListOrdersOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	return u.withItems(ctx, orders)
}

// ListMine is scoped to the actor by the query itself; no access check is
// needed beyond authentication.
func (u *OrderUsecase) ListMine(ctx context.Context, actor *model.User) (ListOrdersOutput, error) {
	if actor == nil {
		return ListOrdersOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	orders, err := u.orders.ListByUserID(ctx, actor.ID)
	if err != nil {
		return ListOrdersOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	return u.withItems(ctx, orders)
}

func (u *OrderUsecase) withItems(ctx context.Context, orders []model.Order) (ListOrdersOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.items.ListByOrderID(ctx, o.ID)
		if err != nil {
			return ListOrdersOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return ListOrdersOutput{Orders: outs}, nil
}

func sumItems(items []model.Item) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

func toOrderOutput(o model.Order, items []model.Item) OrderOutput {
	if items == nil {
		items = []model.Item{}
	}
	return OrderOutput{
		ID:     o.ID,
		UserID: o.UserID,
		Status: string(o.Status),
		Price:  o.Price,
		Items:  items,
	}
}
