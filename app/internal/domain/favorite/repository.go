package favorite

import (
	"context"
	"time"
)

type Repository interface {
	Add(ctx context.Context, f *Favorite) (*Favorite, error)
	Remove(ctx context.Context, ownerID string, kind Kind, targetID string) error
	Exists(ctx context.Context, ownerID string, kind Kind, targetID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, kind Kind) ([]*Favorite, error)
	ListOwnersByTarget(ctx context.Context, kind Kind, targetID string) ([]string, error)
	MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error
	DeleteGuestFavoritesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
