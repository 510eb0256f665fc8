package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Notification, error)
	MarkRead(ctx context.Context, ownerID, id string) (*Notification, error)
}
