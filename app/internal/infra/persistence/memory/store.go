// Package memory keeps every aggregate in process behind one lock, so
// multi-record operations (checkout, registration) are atomic.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domcart "example.com/localspark/app/internal/domain/cart"
	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	domregistration "example.com/localspark/app/internal/domain/registration"
	domuser "example.com/localspark/app/internal/domain/user"
)

type Store struct {
	mu sync.RWMutex

	products      map[string]*domproduct.Product
	events        map[string]*domevent.Event
	users         map[string]*domuser.User
	cartItems     map[string]*domcart.Item
	favorites     map[string]*domfavorite.Favorite
	registrations map[string]*domregistration.Registration
	orders        map[string]*domorder.Order
	notifications map[string]*domnotification.Notification

	clock func() time.Time
	last  time.Time
}

func NewStore() *Store {
	return &Store{
		products:      make(map[string]*domproduct.Product),
		events:        make(map[string]*domevent.Event),
		users:         make(map[string]*domuser.User),
		cartItems:     make(map[string]*domcart.Item),
		favorites:     make(map[string]*domfavorite.Favorite),
		registrations: make(map[string]*domregistration.Registration),
		orders:        make(map[string]*domorder.Order),
		notifications: make(map[string]*domnotification.Notification),
		clock:         time.Now,
	}
}

// now must be called with the write lock held. Timestamps are strictly
// increasing so sorting by CreatedAt preserves insertion order.
func (s *Store) now() time.Time {
	t := s.clock().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{s: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Cart() *CartRepository {
	return &CartRepository{s: s}
}

func (s *Store) Favorites() *FavoriteRepository {
	return &FavoriteRepository{s: s}
}

func (s *Store) Registrations() *RegistrationRepository {
	return &RegistrationRepository{s: s}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{s: s}
}

func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{s: s}
}

// Ping always succeeds; it lets the memory store stand in wherever a
// database health check is expected.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// paginate applies offset and limit; limit 0 keeps everything after offset.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
