package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserRepository interface {
	// Create persists a new user. Email uniqueness is enforced by the store.
	Create(ctx context.Context, user *model.User) error
	// FindByID returns (nil, nil) when no user exists with that id.
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	// FindByEmail returns (nil, nil) when no user holds that email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
