package session

import (
	"context"
	"errors"

	dom "example.com/localspark/app/internal/domain/session"
)

type CartMerger interface {
	MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error
}

type FavoriteMerger interface {
	MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error
}

type Service struct {
	store     dom.Store
	carts     CartMerger
	favorites FavoriteMerger
}

func NewService(store dom.Store, carts CartMerger, favorites FavoriteMerger) *Service {
	return &Service{store: store, carts: carts, favorites: favorites}
}

// Resolve returns the session with the given id, starting a new one when the
// id is empty, unknown or expired. created reports whether a new session was issued.
func (s *Service) Resolve(ctx context.Context, id string) (sess *dom.Session, created bool, err error) {
	if id != "" {
		sess, err = s.store.Get(ctx, id)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, dom.ErrSessionNotFound) {
			return nil, false, err
		}
	}
	sess, err = s.store.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Lookup returns an existing session without creating one.
func (s *Service) Lookup(ctx context.Context, id string) (*dom.Session, error) {
	if id == "" {
		return nil, dom.ErrSessionNotFound
	}
	return s.store.Get(ctx, id)
}

// AdoptGuest moves the guest's cart and favorites to the user.
func (s *Service) AdoptGuest(ctx context.Context, guestOwnerID, userID string) error {
	if !dom.IsGuestOwner(guestOwnerID) {
		return nil
	}
	if err := s.carts.MergeOwner(ctx, guestOwnerID, userID); err != nil {
		return err
	}
	return s.favorites.MergeOwner(ctx, guestOwnerID, userID)
}
