package memory

import (
	"context"

	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
)

type EventRepository struct {
	s *Store
}

func cloneEvent(e *domevent.Event) *domevent.Event {
	c := *e
	c.Latitude = copyFloat(e.Latitude)
	c.Longitude = copyFloat(e.Longitude)
	c.MaxAttendees = copyInt(e.MaxAttendees)
	return &c
}

func (r *EventRepository) Create(ctx context.Context, e *domevent.Event) (*domevent.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := cloneEvent(e)
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	r.s.events[c.ID] = c
	return cloneEvent(c), nil
}

func (r *EventRepository) Update(ctx context.Context, e *domevent.Event) (*domevent.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.events[e.ID]
	if !ok {
		return nil, domevent.ErrEventNotFound
	}
	c := cloneEvent(e)
	c.CreatedAt = existing.CreatedAt
	// attendee count is owned by registrations
	c.CurrentAttendees = existing.CurrentAttendees
	r.s.events[c.ID] = c
	return cloneEvent(c), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return domevent.ErrEventNotFound
	}
	delete(r.s.events, id)
	for key, reg := range r.s.registrations {
		if reg.EventID == id {
			delete(r.s.registrations, key)
		}
	}
	for key, fav := range r.s.favorites {
		if fav.Kind == domfavorite.KindEvent && fav.TargetID == id {
			delete(r.s.favorites, key)
		}
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domevent.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domevent.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *EventRepository) List(ctx context.Context, filter domevent.ListFilter) ([]*domevent.Event, int, error) {
	r.s.mu.RLock()
	matched := make([]*domevent.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		if filter.Matches(e) {
			matched = append(matched, cloneEvent(e))
		}
	}
	r.s.mu.RUnlock()

	domevent.SortByStart(matched)
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

func (r *EventRepository) GetByIDs(ctx context.Context, ids []string) ([]*domevent.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domevent.Event, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := r.s.events[id]; ok {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}
