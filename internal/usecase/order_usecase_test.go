package usecase

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store shared by the fake repositories. Single-goroutine tests,
// no locking needed.
type memStore struct {
	orders    map[int64]model.Order
	items     map[int64]model.Item
	nextOrder int64
	nextItem  int64
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[int64]model.Order{},
		items:  map[int64]model.Item{},
	}
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.nextOrder++
	order.ID = r.s.nextOrder
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	return r.FindByID(ctx, orderID)
}

func (r *memOrderRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.s.orders[orderID] = o
	return nil
}

func (r *memOrderRepo) UpdatePrice(ctx context.Context, orderID int64, price float64) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Price = price
	r.s.orders[orderID] = o
	return nil
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(ctx context.Context, item *model.Item) error {
	r.s.nextItem++
	item.ID = r.s.nextItem
	r.s.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) FindByID(ctx context.Context, itemID int64) (model.Item, error) {
	it, ok := r.s.items[itemID]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return it, nil
}

func (r *memItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.Item, error) {
	out := []model.Item{}
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memItemRepo) Delete(ctx context.Context, itemID int64) error {
	if _, ok := r.s.items[itemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

type memTxRepos struct {
	orders repo.OrderRepository
	items  repo.ItemRepository
}

func (r *memTxRepos) Orders() repo.OrderRepository { return r.orders }
func (r *memTxRepos) Items() repo.ItemRepository   { return r.items }

type memTxManager struct{ s *memStore }

func (tm *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&memTxRepos{
		orders: &memOrderRepo{s: tm.s},
		items:  &memItemRepo{s: tm.s},
	})
}

func newOrderUC() (*OrderUsecase, *memStore) {
	s := newMemStore()
	return NewOrderUsecase(&memTxManager{s: s}, &memOrderRepo{s: s}, &memItemRepo{s: s}), s
}

// assertTotalInvariant checks price == sum(quantity * unit_price) for every
// stored order.
func assertTotalInvariant(t *testing.T, s *memStore) {
	t.Helper()
	for id, o := range s.orders {
		var want float64
		for _, it := range s.items {
			if it.OrderID == id {
				want += float64(it.Quantity) * it.UnitPrice
			}
		}
		assert.Equal(t, want, o.Price, "order %d total out of sync with items", id)
	}
}

func requireStatus(t *testing.T, err error, status int) *HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, status, he.Status)
	return he
}

var (
	owner = &model.User{ID: 1, Name: "Maria", Active: true}
	other = &model.User{ID: 2, Name: "Jô", Active: true}
	admin = &model.User{ID: 3, Name: "Chefe", Active: true, Admin: true}
)

func TestOrderUsecase_Create_OwnerIsActor(t *testing.T) {
	ctx := context.Background()
	uc, s := newOrderUC()

	out, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	assert.Contains(t, out.Message, "1")

	o := s.orders[1]
	assert.Equal(t, owner.ID, o.UserID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, 0.0, o.Price)
}

func TestOrderUsecase_Cancel(t *testing.T) {
	ctx := context.Background()
	uc, s := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)

	out, err := uc.Cancel(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusCanceled), out.Order.Status)
	assert.Equal(t, model.OrderStatusCanceled, s.orders[1].Status)

	// terminal states are final: re-cancel is an error, not a re-apply
	_, err = uc.Cancel(ctx, owner, 1)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestOrderUsecase_Finalize(t *testing.T) {
	ctx := context.Background()
	uc, s := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)

	out, err := uc.Finalize(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusFinished), out.Order.Status)
	assert.Equal(t, model.OrderStatusFinished, s.orders[1].Status)

	_, err = uc.Finalize(ctx, owner, 1)
	requireStatus(t, err, http.StatusBadRequest)

	// no path back to canceled either
	_, err = uc.Cancel(ctx, owner, 1)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestOrderUsecase_Transition_Authorization(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, other, 1)
	requireStatus(t, err, http.StatusForbidden)

	// admin bypasses ownership
	_, err = uc.Cancel(ctx, admin, 1)
	require.NoError(t, err)
}

func TestOrderUsecase_Transition_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Cancel(ctx, owner, 99)
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "não encontrado")
}

func TestOrderUsecase_AddItem_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)

	cases := []AddItemInput{
		{Flavor: "", Size: "grande", Quantity: 1, UnitPrice: 10},
		{Flavor: "calabresa", Size: "", Quantity: 1, UnitPrice: 10},
		{Flavor: "calabresa", Size: "grande", Quantity: 0, UnitPrice: 10},
		{Flavor: "calabresa", Size: "grande", Quantity: -1, UnitPrice: 10},
		{Flavor: "calabresa", Size: "grande", Quantity: 1, UnitPrice: -0.5},
	}
	for _, in := range cases {
		_, err := uc.AddItem(ctx, owner, 1, in)
		requireStatus(t, err, http.StatusBadRequest)
	}
}

func TestOrderUsecase_AddItem_OnlyPendingOrders(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = uc.Finalize(ctx, owner, 1)
	require.NoError(t, err)

	_, err = uc.AddItem(ctx, owner, 1, AddItemInput{
		Flavor: "calabresa", Size: "grande", Quantity: 1, UnitPrice: 10,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestOrderUsecase_AddRemove_TotalInvariant(t *testing.T) {
	ctx := context.Background()
	uc, s := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)

	out1, err := uc.AddItem(ctx, owner, 1, AddItemInput{
		Flavor: "calabresa", Size: "grande", Quantity: 2, UnitPrice: 10.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, out1.OrderPrice)
	assertTotalInvariant(t, s)

	out2, err := uc.AddItem(ctx, owner, 1, AddItemInput{
		Flavor: "mussarela", Size: "média", Quantity: 1, UnitPrice: 5.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, out2.OrderPrice)
	assertTotalInvariant(t, s)

	removed, err := uc.RemoveItem(ctx, owner, out1.ItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed.ItemCount)
	assert.Equal(t, 5.0, removed.Order.Price)
	assertTotalInvariant(t, s)

	fin, err := uc.Finalize(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusFinished), fin.Order.Status)
	assert.Equal(t, 5.0, fin.Order.Price)
}

func TestOrderUsecase_RemoveItem_NotFound(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.RemoveItem(ctx, owner, 99)
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "item não encontrado")
}

func TestOrderUsecase_RemoveItem_Authorization(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	out, err := uc.AddItem(ctx, owner, 1, AddItemInput{
		Flavor: "calabresa", Size: "grande", Quantity: 1, UnitPrice: 10,
	})
	require.NoError(t, err)

	_, err = uc.RemoveItem(ctx, other, out.ItemID)
	requireStatus(t, err, http.StatusForbidden)

	_, err = uc.RemoveItem(ctx, admin, out.ItemID)
	require.NoError(t, err)
}

func TestOrderUsecase_Get(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, owner, 1, AddItemInput{
		Flavor: "calabresa", Size: "grande", Quantity: 2, UnitPrice: 10,
	})
	require.NoError(t, err)

	out, err := uc.Get(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ItemCount)
	assert.Len(t, out.Order.Items, 1)
	assert.Equal(t, 20.0, out.Order.Price)

	_, err = uc.Get(ctx, other, 1)
	requireStatus(t, err, http.StatusForbidden)

	_, err = uc.Get(ctx, admin, 1)
	require.NoError(t, err)

	_, err = uc.Get(ctx, owner, 99)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestOrderUsecase_ListAll_AdminOnly(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = uc.Create(ctx, other)
	require.NoError(t, err)

	_, err = uc.ListAll(ctx, owner)
	requireStatus(t, err, http.StatusForbidden)

	out, err := uc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, out.Orders, 2)
}

func TestOrderUsecase_ListMine_ScopedToActor(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUC()

	_, err := uc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = uc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = uc.Create(ctx, other)
	require.NoError(t, err)

	out, err := uc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, out.Orders, 2)
	for _, o := range out.Orders {
		assert.Equal(t, owner.ID, o.UserID)
	}
}
