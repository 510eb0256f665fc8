package favorite

import (
	"strings"
	"time"
)

type Kind string

const (
	KindProduct Kind = "product"
	KindEvent   Kind = "event"
)

func (k Kind) IsValid() bool {
	return k == KindProduct || k == KindEvent
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

type Favorite struct {
	ID        string
	OwnerID   string
	Kind      Kind
	TargetID  string
	CreatedAt time.Time
}
