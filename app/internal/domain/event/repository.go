package event

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	Update(ctx context.Context, e *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]*Event, int, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Event, error)
}
