package registration

import (
	"time"

	domevent "example.com/localspark/app/internal/domain/event"
)

type Registration struct {
	ID        string
	UserID    string
	EventID   string
	CreatedAt time.Time
}

type WithEvent struct {
	Registration
	Event *domevent.Event
}
