// Package sqlstore implements every repository on top of sqlx, for either
// PostgreSQL (pgx stdlib driver) or MySQL.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectPostgres, DialectMySQL:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", s)
	}
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "mysql"
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
	now     func() time.Time
}

// New wraps an open handle. The dialect follows the handle's driver name.
func New(db *sqlx.DB) *Store {
	dialect := DialectMySQL
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		dialect = DialectPostgres
	}
	return &Store{db: db, dialect: dialect, now: time.Now}
}

func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	if dialect == DialectMySQL {
		var err error
		if dsn, err = normalizeMySQLDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return New(db), nil
}

// normalizeMySQLDSN forces the options the store relies on. Time columns scan
// as UTC time.Time, RowsAffected counts matched rows, and migration files may
// hold several statements.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{s: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Cart() *CartRepository {
	return &CartRepository{s: s}
}

func (s *Store) Favorites() *FavoriteRepository {
	return &FavoriteRepository{s: s}
}

func (s *Store) Registrations() *RegistrationRepository {
	return &RegistrationRepository{s: s}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{s: s}
}

func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{s: s}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (retErr error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// pageClause renders LIMIT/OFFSET; limit 0 means no limit.
func (s *Store) pageClause(limit, offset int) (string, []any) {
	switch {
	case limit > 0:
		return " LIMIT ? OFFSET ?", []any{limit, offset}
	case offset > 0 && s.dialect == DialectMySQL:
		// MySQL has no OFFSET without LIMIT.
		return " LIMIT 18446744073709551615 OFFSET ?", []any{offset}
	case offset > 0:
		return " OFFSET ?", []any{offset}
	default:
		return "", nil
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// likeEscaper escapes LIKE wildcards in user input. '!' is the escape
// character because a backslash literal is spelled differently in MySQL
// and Postgres.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likeMatch is the comparison for a column against likePattern.
const likeMatch = "LIKE ? ESCAPE '!'"

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
