package cart

import (
	"context"
	"time"
)

type Repository interface {
	// AddOrUpdateItem inserts the line or adds quantity to an existing one.
	AddOrUpdateItem(ctx context.Context, ownerID, productID string, quantity int64) (*Item, error)
	// AddWithinStock is AddOrUpdateItem checked against the product in the
	// same step: product.ErrProductNotFound for a missing or inactive
	// product, product.ErrOutOfStock when the merged line exceeds stock.
	AddWithinStock(ctx context.Context, ownerID, productID string, quantity int64) (*Item, error)
	GetItem(ctx context.Context, ownerID, productID string) (*Item, error)
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int64) (*Item, error)
	RemoveItem(ctx context.Context, ownerID, productID string) error
	ListItems(ctx context.Context, ownerID string) ([]Item, error)
	Clear(ctx context.Context, ownerID string) error
	MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error
	DeleteGuestItemsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
