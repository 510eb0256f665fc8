package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	domcart "example.com/localspark/app/internal/domain/cart"
	domproduct "example.com/localspark/app/internal/domain/product"
	domsession "example.com/localspark/app/internal/domain/session"
)

const cartColumns = `id, owner_id, product_id, quantity, created_at`

type cartRow struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	ProductID string    `db:"product_id"`
	Quantity  int64     `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
}

func (r cartRow) toDomain() domcart.Item {
	return domcart.Item{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type CartRepository struct {
	s *Store
}

func (r *CartRepository) upsertQuery() string {
	if r.s.dialect == DialectPostgres {
		return `
            INSERT INTO cart_items (id, owner_id, product_id, quantity, created_at)
            VALUES (?, ?, ?, ?, ?)
            ON CONFLICT (owner_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
        `
	}
	return `
        INSERT INTO cart_items (id, owner_id, product_id, quantity, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
    `
}

func (r *CartRepository) upsert(ctx context.Context, ext sqlx.ExtContext, ownerID, productID string, quantity int64) error {
	_, err := ext.ExecContext(ctx, ext.Rebind(r.upsertQuery()), newID(), ownerID, productID, quantity, r.s.timestamp())
	return err
}

func (r *CartRepository) AddOrUpdateItem(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	if err := r.upsert(ctx, r.s.db, ownerID, productID, quantity); err != nil {
		return nil, err
	}
	return r.GetItem(ctx, ownerID, productID)
}

// AddWithinStock locks the product row so concurrent adds of the same
// product serialize on the stock check.
func (r *CartRepository) AddWithinStock(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	var item *domcart.Item
	err := r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var p struct {
			Stock    int64 `db:"stock_quantity"`
			IsActive bool  `db:"is_active"`
		}
		err := tx.GetContext(ctx, &p, tx.Rebind(`
            SELECT stock_quantity, is_active FROM products WHERE id = ? FOR UPDATE
        `), productID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domproduct.ErrProductNotFound
			}
			return err
		}
		if !p.IsActive {
			return domproduct.ErrProductNotFound
		}

		var current int64
		err = tx.GetContext(ctx, &current, tx.Rebind(`
            SELECT quantity FROM cart_items WHERE owner_id = ? AND product_id = ?
        `), ownerID, productID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if p.Stock < current+quantity {
			return domproduct.ErrOutOfStock
		}

		if err := r.upsert(ctx, tx, ownerID, productID, quantity); err != nil {
			return err
		}
		item, err = r.getItem(ctx, tx, ownerID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *CartRepository) GetItem(ctx context.Context, ownerID, productID string) (*domcart.Item, error) {
	return r.getItem(ctx, r.s.db, ownerID, productID)
}

func (r *CartRepository) getItem(ctx context.Context, q sqlx.ExtContext, ownerID, productID string) (*domcart.Item, error) {
	var row cartRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(`
        SELECT `+cartColumns+` FROM cart_items WHERE owner_id = ? AND product_id = ?
    `), ownerID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrItemNotFound
		}
		return nil, err
	}
	item := row.toDomain()
	return &item, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        UPDATE cart_items SET quantity = ? WHERE owner_id = ? AND product_id = ?
    `), quantity, ownerID, productID)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domcart.ErrItemNotFound
	}
	return r.GetItem(ctx, ownerID, productID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, ownerID, productID string) error {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        DELETE FROM cart_items WHERE owner_id = ? AND product_id = ?
    `), ownerID, productID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domcart.ErrItemNotFound
	}
	return nil
}

func (r *CartRepository) listItems(ctx context.Context, q sqlx.ExtContext, ownerID string) ([]domcart.Item, error) {
	var rows []cartRow
	err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(`
        SELECT `+cartColumns+` FROM cart_items WHERE owner_id = ? ORDER BY created_at ASC, id ASC
    `), ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]domcart.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *CartRepository) ListItems(ctx context.Context, ownerID string) ([]domcart.Item, error) {
	return r.listItems(ctx, r.s.db, ownerID)
}

func (r *CartRepository) Clear(ctx context.Context, ownerID string) error {
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`DELETE FROM cart_items WHERE owner_id = ?`), ownerID)
	return err
}

func (r *CartRepository) MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		items, err := r.listItems(ctx, tx, fromOwnerID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := r.upsert(ctx, tx, toOwnerID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cart_items WHERE owner_id = ?`), fromOwnerID)
		return err
	})
}

func (r *CartRepository) DeleteGuestItemsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        DELETE FROM cart_items WHERE owner_id LIKE ? AND created_at < ?
    `), domsession.GuestPrefix()+"%", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
