package memory

import (
	"context"
	"sort"

	domnotification "example.com/localspark/app/internal/domain/notification"
)

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *domnotification.Notification) (*domnotification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *n
	c.ID = newID()
	c.CreatedAt = r.s.now()
	r.s.notifications[c.ID] = &c
	out := c
	return &out, nil
}

func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domnotification.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domnotification.Notification{}
	for _, n := range r.s.notifications {
		if n.OwnerID == ownerID {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, ownerID, id string) (*domnotification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.OwnerID != ownerID {
		return nil, domnotification.ErrNotificationNotFound
	}
	n.Read = true
	c := *n
	return &c, nil
}
