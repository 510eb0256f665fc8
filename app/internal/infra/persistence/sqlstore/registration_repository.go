package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	domevent "example.com/localspark/app/internal/domain/event"
	domregistration "example.com/localspark/app/internal/domain/registration"
)

const registrationColumns = `id, user_id, event_id, created_at`

type registrationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	EventID   string    `db:"event_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r registrationRow) toDomain() *domregistration.Registration {
	return &domregistration.Registration{
		ID:        r.ID,
		UserID:    r.UserID,
		EventID:   r.EventID,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type RegistrationRepository struct {
	s *Store
}

// Create claims a seat with a conditional update so concurrent registrations
// can never push current_attendees past max_attendees.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domregistration.Registration) (*domregistration.Registration, error) {
	c := *reg
	c.ID = newID()
	c.CreatedAt = r.s.timestamp()

	err := r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, tx.Rebind(`
            SELECT COUNT(*) FROM registrations WHERE user_id = ? AND event_id = ?
        `), c.UserID, c.EventID); err != nil {
			return err
		}
		if existing > 0 {
			return domregistration.ErrAlreadyRegistered
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`
            UPDATE events SET current_attendees = current_attendees + 1
            WHERE id = ? AND (max_attendees IS NULL OR current_attendees < max_attendees)
        `), c.EventID)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			var found int
			if err := tx.GetContext(ctx, &found, tx.Rebind(`SELECT COUNT(*) FROM events WHERE id = ?`), c.EventID); err != nil {
				return err
			}
			if found == 0 {
				return domevent.ErrEventNotFound
			}
			return domregistration.ErrEventFull
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
            INSERT INTO registrations (`+registrationColumns+`) VALUES (?, ?, ?, ?)
        `), c.ID, c.UserID, c.EventID, c.CreatedAt)
		if err != nil && isUniqueViolation(err) {
			return domregistration.ErrAlreadyRegistered
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID string) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
            DELETE FROM registrations WHERE user_id = ? AND event_id = ?
        `), userID, eventID)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return domregistration.ErrRegistrationNotFound
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
            UPDATE events SET current_attendees = current_attendees - 1
            WHERE id = ? AND current_attendees > 0
        `), eventID)
		return err
	})
}

func (r *RegistrationRepository) list(ctx context.Context, column, value string) ([]*domregistration.Registration, error) {
	var rows []registrationRow
	err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(`
        SELECT `+registrationColumns+` FROM registrations WHERE `+column+` = ?
        ORDER BY created_at ASC, id ASC
    `), value)
	if err != nil {
		return nil, err
	}
	out := make([]*domregistration.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*domregistration.Registration, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domregistration.Registration, error) {
	return r.list(ctx, "event_id", eventID)
}
