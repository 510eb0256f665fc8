package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
)

const eventColumns = `id, title, description, category, image_url, price, start_date, end_date, location,
        address, latitude, longitude, organizer_name, organizer_email, max_attendees,
        current_attendees, is_active, created_at`

// haversineMiles is the great-circle distance in miles from the row to a
// center point. Placeholders: center latitude twice, then center longitude.
// LEAST keeps rounding from pushing the ASIN argument above 1.
const haversineMiles = `(3958.8 * 2 * ASIN(SQRT(LEAST(1,
            POWER(SIN(RADIANS(latitude - ?) / 2), 2)
            + COS(RADIANS(?)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - ?) / 2), 2)))))`

type eventRow struct {
	ID               string          `db:"id"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	Category         string          `db:"category"`
	ImageURL         string          `db:"image_url"`
	Price            float64         `db:"price"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          time.Time       `db:"end_date"`
	Location         string          `db:"location"`
	Address          string          `db:"address"`
	Latitude         sql.NullFloat64 `db:"latitude"`
	Longitude        sql.NullFloat64 `db:"longitude"`
	OrganizerName    string          `db:"organizer_name"`
	OrganizerEmail   string          `db:"organizer_email"`
	MaxAttendees     sql.NullInt64   `db:"max_attendees"`
	CurrentAttendees int64           `db:"current_attendees"`
	IsActive         bool            `db:"is_active"`
	CreatedAt        time.Time       `db:"created_at"`
}

func (r eventRow) toDomain() *domevent.Event {
	e := &domevent.Event{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		ImageURL:         r.ImageURL,
		Price:            r.Price,
		StartDate:        r.StartDate.UTC(),
		EndDate:          r.EndDate.UTC(),
		Location:         r.Location,
		Address:          r.Address,
		OrganizerName:    r.OrganizerName,
		OrganizerEmail:   r.OrganizerEmail,
		CurrentAttendees: r.CurrentAttendees,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt.UTC(),
	}
	if r.Latitude.Valid {
		v := r.Latitude.Float64
		e.Latitude = &v
	}
	if r.Longitude.Valid {
		v := r.Longitude.Float64
		e.Longitude = &v
	}
	if r.MaxAttendees.Valid {
		v := r.MaxAttendees.Int64
		e.MaxAttendees = &v
	}
	return e
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(ctx context.Context, e *domevent.Event) (*domevent.Event, error) {
	c := *e
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.timestamp()
	}

	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        INSERT INTO events (`+eventColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `), c.ID, c.Title, c.Description, c.Category, c.ImageURL, c.Price, c.StartDate.UTC(), c.EndDate.UTC(),
		c.Location, c.Address, nullFloat(c.Latitude), nullFloat(c.Longitude), c.OrganizerName,
		c.OrganizerEmail, nullInt(c.MaxAttendees), c.CurrentAttendees, c.IsActive, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update leaves current_attendees alone; registrations own that column.
func (r *EventRepository) Update(ctx context.Context, e *domevent.Event) (*domevent.Event, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        UPDATE events SET title = ?, description = ?, category = ?, image_url = ?, price = ?,
            start_date = ?, end_date = ?, location = ?, address = ?, latitude = ?, longitude = ?,
            organizer_name = ?, organizer_email = ?, max_attendees = ?, is_active = ?
        WHERE id = ?
    `), e.Title, e.Description, e.Category, e.ImageURL, e.Price, e.StartDate.UTC(), e.EndDate.UTC(),
		e.Location, e.Address, nullFloat(e.Latitude), nullFloat(e.Longitude), e.OrganizerName,
		e.OrganizerEmail, nullInt(e.MaxAttendees), e.IsActive, e.ID)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domevent.ErrEventNotFound
	}
	return r.GetByID(ctx, e.ID)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM registrations WHERE event_id = ?`), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM favorites WHERE kind = ? AND target_id = ?`), string(domfavorite.KindEvent), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM events WHERE id = ?`), id)
		if err != nil {
			return err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			return domevent.ErrEventNotFound
		}
		return nil
	})
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domevent.Event, error) {
	var row eventRow
	err := r.s.db.GetContext(ctx, &row, r.s.rebind(`SELECT `+eventColumns+` FROM events WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domevent.ErrEventNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func eventWhere(filter domevent.ListFilter) (string, []any) {
	var clauses []string
	var args []any

	if !filter.IncludeInactive {
		clauses = append(clauses, "is_active = ?")
		args = append(args, true)
	}
	if c := filter.CategoryFilter(); c != "" {
		clauses = append(clauses, "LOWER(category) = ?")
		args = append(args, c)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		clauses = append(clauses, "(LOWER(title) "+likeMatch+" OR LOWER(description) "+likeMatch+" OR LOWER(category) "+likeMatch+")")
		pattern := likePattern(q)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Upcoming {
		clauses = append(clauses, "end_date > ?")
		args = append(args, filter.Now.UTC())
	}
	if n := filter.Near; n != nil {
		clauses = append(clauses, "latitude IS NOT NULL AND longitude IS NOT NULL AND "+haversineMiles+" <= ?")
		args = append(args, n.Center.Latitude, n.Center.Latitude, n.Center.Longitude, n.Miles)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *EventRepository) List(ctx context.Context, filter domevent.ListFilter) ([]*domevent.Event, int, error) {
	where, args := eventWhere(filter)

	var total int
	if err := r.s.db.GetContext(ctx, &total, r.s.rebind(`SELECT COUNT(*) FROM events`+where), args...); err != nil {
		return nil, 0, err
	}

	page, pageArgs := r.s.pageClause(filter.Limit, filter.Offset)
	query := `SELECT ` + eventColumns + ` FROM events` + where + ` ORDER BY start_date ASC, id ASC` + page

	var rows []eventRow
	if err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(query), append(args, pageArgs...)...); err != nil {
		return nil, 0, err
	}

	events := make([]*domevent.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, total, nil
}

func (r *EventRepository) GetByIDs(ctx context.Context, ids []string) ([]*domevent.Event, error) {
	if len(ids) == 0 {
		return []*domevent.Event{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+eventColumns+` FROM events WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []eventRow
	if err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]eventRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	events := make([]*domevent.Event, 0, len(rows))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		events = append(events, row.toDomain())
	}
	return events, nil
}
