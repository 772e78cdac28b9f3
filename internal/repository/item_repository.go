package repository

import (
	"context"

	"app/internal/domain/model"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, itemID int64) (model.Item, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Item, error)
	Delete(ctx context.Context, itemID int64) error
}
