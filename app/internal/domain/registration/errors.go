package registration

import "errors"

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered for event")
	ErrEventFull            = errors.New("event is full")
	ErrEventEnded           = errors.New("event has already ended")
)
