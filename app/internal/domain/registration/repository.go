package registration

import "context"

type Repository interface {
	// Create inserts the registration and increments the event's attendee
	// count in one step, failing with ErrEventFull when capacity is reached.
	Create(ctx context.Context, r *Registration) (*Registration, error)
	// Delete removes the registration and decrements the attendee count.
	Delete(ctx context.Context, userID, eventID string) error
	ListByUser(ctx context.Context, userID string) ([]*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
}
