package notification

import "time"

type Type string

const (
	TypeOrder     Type = "order"
	TypeFavorites Type = "favorites"
	TypeEvent     Type = "event"
)

type Notification struct {
	ID        string
	OwnerID   string
	Type      Type
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
