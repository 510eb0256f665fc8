package notification

import (
	"context"

	dom "example.com/localspark/app/internal/domain/notification"
)

// Publisher pushes a stored notification to the owner's live connections.
type Publisher interface {
	Publish(ownerID string, n *dom.Notification)
}

type Service struct {
	repo      dom.Repository
	publisher Publisher
}

func NewService(repo dom.Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) Notify(ctx context.Context, ownerID string, typ dom.Type, title, message string) error {
	n, err := s.repo.Create(ctx, &dom.Notification{
		OwnerID: ownerID,
		Type:    typ,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return err
	}
	if s.publisher != nil {
		s.publisher.Publish(ownerID, n)
	}
	return nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]*dom.Notification, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) MarkRead(ctx context.Context, ownerID, id string) (*dom.Notification, error) {
	return s.repo.MarkRead(ctx, ownerID, id)
}
