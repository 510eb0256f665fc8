package order

import "context"

type Repository interface {
	// CreateFromCart validates stock, decrements it and stores the order
	// with name and price snapshots, all or nothing.
	CreateFromCart(ctx context.Context, in CreateFromCartInput) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}
