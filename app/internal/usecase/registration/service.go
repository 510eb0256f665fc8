package registration

import (
	"context"
	"fmt"
	"time"

	domevent "example.com/localspark/app/internal/domain/event"
	domnotification "example.com/localspark/app/internal/domain/notification"
	dom "example.com/localspark/app/internal/domain/registration"
)

type EventRepository interface {
	GetByID(ctx context.Context, id string) (*domevent.Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domevent.Event, error)
}

type Notifier interface {
	Notify(ctx context.Context, ownerID string, typ domnotification.Type, title, message string) error
}

type Service struct {
	repo     dom.Repository
	events   EventRepository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo dom.Repository, events EventRepository, notifier Notifier) *Service {
	return &Service{repo: repo, events: events, notifier: notifier, now: time.Now}
}

func (s *Service) Register(ctx context.Context, userID, eventID string) (*dom.Registration, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, domevent.ErrEventNotFound
	}
	if e.HasEnded(s.now()) {
		return nil, dom.ErrEventEnded
	}

	reg, err := s.repo.Create(ctx, &dom.Registration{UserID: userID, EventID: eventID})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("You're registered for %s on %s.", e.Title, e.StartDate.Format("Jan 2, 2006 3:04 PM"))
		_ = s.notifier.Notify(ctx, userID, domnotification.TypeEvent, "Registration confirmed", msg)
	}
	return reg, nil
}

func (s *Service) Cancel(ctx context.Context, userID, eventID string) error {
	return s.repo.Delete(ctx, userID, eventID)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]dom.WithEvent, error) {
	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return []dom.WithEvent{}, nil
	}

	ids := make([]string, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.EventID)
	}
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domevent.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	out := make([]dom.WithEvent, 0, len(regs))
	for _, r := range regs {
		if e, ok := byID[r.EventID]; ok {
			out = append(out, dom.WithEvent{Registration: *r, Event: e})
		}
	}
	return out, nil
}

func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]*dom.Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}
