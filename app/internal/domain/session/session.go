package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

const guestPrefix = "guest:"

type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Owner is the key session-scoped data (cart, favorites, notifications) is stored under.
func (s *Session) Owner() string {
	return GuestOwner(s.ID)
}

func GuestOwner(sessionID string) string {
	return guestPrefix + sessionID
}

func IsGuestOwner(ownerID string) bool {
	return strings.HasPrefix(ownerID, guestPrefix)
}

func GuestPrefix() string {
	return guestPrefix
}

type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
