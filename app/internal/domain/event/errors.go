package event

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidSchedule = errors.New("event must end after it starts")
	ErrInvalidEvent    = errors.New("invalid event")
)
