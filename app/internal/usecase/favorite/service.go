package favorite

import (
	"context"

	domevent "example.com/localspark/app/internal/domain/event"
	dom "example.com/localspark/app/internal/domain/favorite"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error)
}

type EventRepository interface {
	GetByID(ctx context.Context, id string) (*domevent.Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domevent.Event, error)
}

type Service struct {
	repo     dom.Repository
	products ProductRepository
	events   EventRepository
}

func NewService(repo dom.Repository, products ProductRepository, events EventRepository) *Service {
	return &Service{repo: repo, products: products, events: events}
}

func (s *Service) ensureTarget(ctx context.Context, kind dom.Kind, targetID string) error {
	switch kind {
	case dom.KindProduct:
		_, err := s.products.GetByID(ctx, targetID)
		return err
	case dom.KindEvent:
		_, err := s.events.GetByID(ctx, targetID)
		return err
	default:
		return dom.ErrInvalidKind
	}
}

func (s *Service) Add(ctx context.Context, ownerID string, kind dom.Kind, targetID string) (*dom.Favorite, error) {
	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, &dom.Favorite{OwnerID: ownerID, Kind: kind, TargetID: targetID})
}

func (s *Service) Remove(ctx context.Context, ownerID string, kind dom.Kind, targetID string) error {
	if !kind.IsValid() {
		return dom.ErrInvalidKind
	}
	return s.repo.Remove(ctx, ownerID, kind, targetID)
}

func (s *Service) IsFavorite(ctx context.Context, ownerID string, kind dom.Kind, targetID string) (bool, error) {
	if !kind.IsValid() {
		return false, dom.ErrInvalidKind
	}
	return s.repo.Exists(ctx, ownerID, kind, targetID)
}

// Toggle adds the favorite when absent and removes it when present,
// returning whether the target is a favorite afterwards.
func (s *Service) Toggle(ctx context.Context, ownerID string, kind dom.Kind, targetID string) (bool, error) {
	exists, err := s.IsFavorite(ctx, ownerID, kind, targetID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.repo.Remove(ctx, ownerID, kind, targetID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.Add(ctx, ownerID, kind, targetID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) targetIDs(ctx context.Context, ownerID string, kind dom.Kind) ([]string, error) {
	favs, err := s.repo.ListByOwner(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.TargetID)
	}
	return ids, nil
}

// ListProducts returns the owner's favorited products that are still active,
// in the order they were favorited.
func (s *Service) ListProducts(ctx context.Context, ownerID string) ([]*domproduct.Product, error) {
	ids, err := s.targetIDs(ctx, ownerID, dom.KindProduct)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domproduct.Product{}, nil
	}
	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domproduct.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]*domproduct.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) ListEvents(ctx context.Context, ownerID string) ([]*domevent.Event, error) {
	ids, err := s.targetIDs(ctx, ownerID, dom.KindEvent)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domevent.Event{}, nil
	}
	found, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domevent.Event, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	out := make([]*domevent.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) AdoptGuestFavorites(ctx context.Context, guestOwnerID, userID string) error {
	if guestOwnerID == "" || guestOwnerID == userID {
		return nil
	}
	return s.repo.MergeOwner(ctx, guestOwnerID, userID)
}
