package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domsession "example.com/localspark/app/internal/domain/session"
)

const favoriteColumns = `id, owner_id, kind, target_id, created_at`

type favoriteRow struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Kind      string    `db:"kind"`
	TargetID  string    `db:"target_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r favoriteRow) toDomain() *domfavorite.Favorite {
	return &domfavorite.Favorite{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Kind:      domfavorite.Kind(r.Kind),
		TargetID:  r.TargetID,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type FavoriteRepository struct {
	s *Store
}

func (r *FavoriteRepository) Add(ctx context.Context, f *domfavorite.Favorite) (*domfavorite.Favorite, error) {
	c := *f
	c.ID = newID()
	c.CreatedAt = r.s.timestamp()

	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        INSERT INTO favorites (`+favoriteColumns+`) VALUES (?, ?, ?, ?, ?)
    `), c.ID, c.OwnerID, string(c.Kind), c.TargetID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domfavorite.ErrAlreadyFavorite
		}
		return nil, err
	}
	return &c, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, ownerID string, kind domfavorite.Kind, targetID string) error {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        DELETE FROM favorites WHERE owner_id = ? AND kind = ? AND target_id = ?
    `), ownerID, string(kind), targetID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domfavorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) exists(ctx context.Context, q sqlx.ExtContext, ownerID string, kind domfavorite.Kind, targetID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(`
        SELECT COUNT(*) FROM favorites WHERE owner_id = ? AND kind = ? AND target_id = ?
    `), ownerID, string(kind), targetID)
	return n > 0, err
}

func (r *FavoriteRepository) Exists(ctx context.Context, ownerID string, kind domfavorite.Kind, targetID string) (bool, error) {
	return r.exists(ctx, r.s.db, ownerID, kind, targetID)
}

func (r *FavoriteRepository) ListByOwner(ctx context.Context, ownerID string, kind domfavorite.Kind) ([]*domfavorite.Favorite, error) {
	var rows []favoriteRow
	err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(`
        SELECT `+favoriteColumns+` FROM favorites WHERE owner_id = ? AND kind = ?
        ORDER BY created_at ASC, id ASC
    `), ownerID, string(kind))
	if err != nil {
		return nil, err
	}
	favorites := make([]*domfavorite.Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, row.toDomain())
	}
	return favorites, nil
}

func (r *FavoriteRepository) ListOwnersByTarget(ctx context.Context, kind domfavorite.Kind, targetID string) ([]string, error) {
	var owners []string
	err := r.s.db.SelectContext(ctx, &owners, r.s.rebind(`
        SELECT owner_id FROM favorites WHERE kind = ? AND target_id = ? ORDER BY owner_id
    `), string(kind), targetID)
	return owners, err
}

// MergeOwner reassigns favorites, dropping ones the target owner already has.
func (r *FavoriteRepository) MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var rows []favoriteRow
		if err := tx.SelectContext(ctx, &rows, tx.Rebind(`
            SELECT `+favoriteColumns+` FROM favorites WHERE owner_id = ?
        `), fromOwnerID); err != nil {
			return err
		}

		for _, row := range rows {
			dup, err := r.exists(ctx, tx, toOwnerID, domfavorite.Kind(row.Kind), row.TargetID)
			if err != nil {
				return err
			}
			if dup {
				_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM favorites WHERE id = ?`), row.ID)
			} else {
				_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE favorites SET owner_id = ? WHERE id = ?`), toOwnerID, row.ID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FavoriteRepository) DeleteGuestFavoritesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        DELETE FROM favorites WHERE owner_id LIKE ? AND created_at < ?
    `), domsession.GuestPrefix()+"%", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
