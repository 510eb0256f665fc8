package memory

import (
	"context"
	"sort"

	domevent "example.com/localspark/app/internal/domain/event"
	domregistration "example.com/localspark/app/internal/domain/registration"
)

type RegistrationRepository struct {
	s *Store
}

func (r *RegistrationRepository) find(userID, eventID string) *domregistration.Registration {
	for _, reg := range r.s.registrations {
		if reg.UserID == userID && reg.EventID == eventID {
			return reg
		}
	}
	return nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *domregistration.Registration) (*domregistration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[reg.EventID]
	if !ok {
		return nil, domevent.ErrEventNotFound
	}
	if r.find(reg.UserID, reg.EventID) != nil {
		return nil, domregistration.ErrAlreadyRegistered
	}
	if e.IsFull() {
		return nil, domregistration.ErrEventFull
	}

	c := *reg
	c.ID = newID()
	c.CreatedAt = r.s.now()
	r.s.registrations[c.ID] = &c
	e.CurrentAttendees++

	out := c
	return &out, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reg := r.find(userID, eventID)
	if reg == nil {
		return domregistration.ErrRegistrationNotFound
	}
	delete(r.s.registrations, reg.ID)
	if e, ok := r.s.events[eventID]; ok && e.CurrentAttendees > 0 {
		e.CurrentAttendees--
	}
	return nil
}

func (r *RegistrationRepository) list(match func(*domregistration.Registration) bool) []*domregistration.Registration {
	out := []*domregistration.Registration{}
	for _, reg := range r.s.registrations {
		if match(reg) {
			c := *reg
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*domregistration.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(reg *domregistration.Registration) bool { return reg.UserID == userID }), nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domregistration.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(reg *domregistration.Registration) bool { return reg.EventID == eventID }), nil
}
