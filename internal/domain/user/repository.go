package user

import "context"

// Repository describes user lookups needed by the engine.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
}
