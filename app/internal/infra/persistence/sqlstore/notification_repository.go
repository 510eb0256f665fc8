package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domnotification "example.com/localspark/app/internal/domain/notification"
)

const notificationColumns = `id, owner_id, type, title, message, is_read, created_at`

type notificationRow struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Read      bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toDomain() *domnotification.Notification {
	return &domnotification.Notification{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Type:      domnotification.Type(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Read:      r.Read,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *domnotification.Notification) (*domnotification.Notification, error) {
	c := *n
	c.ID = newID()
	c.CreatedAt = r.s.timestamp()

	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
    `), c.ID, c.OwnerID, string(c.Type), c.Title, c.Message, c.Read, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domnotification.Notification, error) {
	var rows []notificationRow
	err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(`
        SELECT `+notificationColumns+` FROM notifications WHERE owner_id = ?
        ORDER BY created_at DESC, id DESC
    `), ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*domnotification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, ownerID, id string) (*domnotification.Notification, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        UPDATE notifications SET is_read = ? WHERE id = ? AND owner_id = ?
    `), true, id, ownerID)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, domnotification.ErrNotificationNotFound
	}

	var row notificationRow
	err = r.s.db.GetContext(ctx, &row, r.s.rebind(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domnotification.ErrNotificationNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}
