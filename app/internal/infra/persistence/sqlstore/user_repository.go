package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domuser "example.com/localspark/app/internal/domain/user"
)

const userColumns = `id, username, password_hash, location, latitude, longitude, role_code, created_at`

type userRow struct {
	ID           string          `db:"id"`
	Username     string          `db:"username"`
	PasswordHash string          `db:"password_hash"`
	Location     string          `db:"location"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	RoleCode     string          `db:"role_code"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r userRow) toDomain() *domuser.User {
	u := &domuser.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Location:     r.Location,
		RoleCode:     domuser.RoleCode(r.RoleCode),
		CreatedAt:    r.CreatedAt.UTC(),
	}
	if r.Latitude.Valid {
		v := r.Latitude.Float64
		u.Latitude = &v
	}
	if r.Longitude.Valid {
		v := r.Longitude.Float64
		u.Longitude = &v
	}
	return u
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	c := *u
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = r.s.timestamp()

	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `), c.ID, c.Username, c.PasswordHash, c.Location, nullFloat(c.Latitude), nullFloat(c.Longitude),
		string(c.RoleCode), c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domuser.ErrUsernameTaken
		}
		return nil, err
	}
	return &c, nil
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domuser.User, error) {
	var row userRow
	err := r.s.db.GetContext(ctx, &row, r.s.rebind(`SELECT `+userColumns+` FROM users WHERE `+where), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domuser.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domuser.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domuser.User, error) {
	return r.get(ctx, "username = ?", username)
}

func (r *UserRepository) Update(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        UPDATE users SET username = ?, password_hash = ?, location = ?, latitude = ?, longitude = ?, role_code = ?
        WHERE id = ?
    `), u.Username, u.PasswordHash, u.Location, nullFloat(u.Latitude), nullFloat(u.Longitude),
		string(u.RoleCode), u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domuser.ErrUsernameTaken
		}
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domuser.ErrUserNotFound
	}
	return r.GetByID(ctx, u.ID)
}
