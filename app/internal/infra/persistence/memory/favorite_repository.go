package memory

import (
	"context"
	"sort"
	"time"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domsession "example.com/localspark/app/internal/domain/session"
)

type FavoriteRepository struct {
	s *Store
}

func (r *FavoriteRepository) find(ownerID string, kind domfavorite.Kind, targetID string) *domfavorite.Favorite {
	for _, f := range r.s.favorites {
		if f.OwnerID == ownerID && f.Kind == kind && f.TargetID == targetID {
			return f
		}
	}
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, f *domfavorite.Favorite) (*domfavorite.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.find(f.OwnerID, f.Kind, f.TargetID) != nil {
		return nil, domfavorite.ErrAlreadyFavorite
	}
	c := *f
	c.ID = newID()
	c.CreatedAt = r.s.now()
	r.s.favorites[c.ID] = &c
	out := c
	return &out, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, ownerID string, kind domfavorite.Kind, targetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f := r.find(ownerID, kind, targetID)
	if f == nil {
		return domfavorite.ErrFavoriteNotFound
	}
	delete(r.s.favorites, f.ID)
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, ownerID string, kind domfavorite.Kind, targetID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.find(ownerID, kind, targetID) != nil, nil
}

func (r *FavoriteRepository) ListByOwner(ctx context.Context, ownerID string, kind domfavorite.Kind) ([]*domfavorite.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domfavorite.Favorite{}
	for _, f := range r.s.favorites {
		if f.OwnerID == ownerID && f.Kind == kind {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *FavoriteRepository) ListOwnersByTarget(ctx context.Context, kind domfavorite.Kind, targetID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var owners []string
	for _, f := range r.s.favorites {
		if f.Kind == kind && f.TargetID == targetID {
			owners = append(owners, f.OwnerID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

// MergeOwner reassigns favorites, dropping ones the target owner already has.
func (r *FavoriteRepository) MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, f := range r.s.favorites {
		if f.OwnerID != fromOwnerID {
			continue
		}
		if r.find(toOwnerID, f.Kind, f.TargetID) != nil {
			delete(r.s.favorites, id)
			continue
		}
		f.OwnerID = toOwnerID
	}
	return nil
}

func (r *FavoriteRepository) DeleteGuestFavoritesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, f := range r.s.favorites {
		if domsession.IsGuestOwner(f.OwnerID) && f.CreatedAt.Before(cutoff) {
			delete(r.s.favorites, id)
			n++
		}
	}
	return n, nil
}
