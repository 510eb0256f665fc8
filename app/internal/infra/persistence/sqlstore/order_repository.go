package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
)

const (
	orderColumns     = `id, user_id, status, payment_method, total_amount, created_at`
	orderItemColumns = `id, order_id, product_id, product_name, unit_price, quantity`
)

type orderRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Status        string    `db:"status"`
	PaymentMethod string    `db:"payment_method"`
	TotalAmount   float64   `db:"total_amount"`
	CreatedAt     time.Time `db:"created_at"`
}

type orderItemRow struct {
	ID        string  `db:"id"`
	OrderID   string  `db:"order_id"`
	ProductID string  `db:"product_id"`
	Name      string  `db:"product_name"`
	Price     float64 `db:"unit_price"`
	Quantity  int64   `db:"quantity"`
}

func (r orderRow) toDomain() *domorder.Order {
	return &domorder.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		Status:        domorder.Status(r.Status),
		PaymentMethod: domorder.PaymentMethod(r.PaymentMethod),
		TotalAmount:   r.TotalAmount,
		Items:         []domorder.OrderItem{},
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

type OrderRepository struct {
	s *Store
}

func (r *OrderRepository) CreateFromCart(ctx context.Context, in domorder.CreateFromCartInput) (*domorder.Order, error) {
	if len(in.Items) == 0 {
		return nil, domorder.ErrEmptyCart
	}

	order := &domorder.Order{
		ID:            newID(),
		UserID:        in.UserID,
		Status:        domorder.StatusPending,
		PaymentMethod: in.Payment,
		CreatedAt:     r.s.timestamp(),
		Items:         make([]domorder.OrderItem, 0, len(in.Items)),
	}

	err := r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range in.Items {
			var p struct {
				Name     string  `db:"name"`
				Price    float64 `db:"price"`
				Stock    int64   `db:"stock_quantity"`
				IsActive bool    `db:"is_active"`
			}
			err := tx.GetContext(ctx, &p, tx.Rebind(`
                SELECT name, price, stock_quantity, is_active
                FROM products
                WHERE id = ?
                FOR UPDATE
            `), item.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return domproduct.ErrProductNotFound
				}
				return err
			}
			if !p.IsActive {
				return domproduct.ErrProductNotFound
			}
			if p.Stock < item.Quantity {
				return domproduct.ErrOutOfStock
			}

			order.TotalAmount += p.Price * float64(item.Quantity)
			order.Items = append(order.Items, domorder.OrderItem{
				ID:        newID(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  item.Quantity,
			})
		}

		_, err := tx.ExecContext(ctx, tx.Rebind(`
            INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?)
        `), order.ID, order.UserID, string(order.Status), string(order.PaymentMethod), order.TotalAmount, order.CreatedAt)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			_, err = tx.ExecContext(ctx, tx.Rebind(`
                INSERT INTO order_items (`+orderItemColumns+`) VALUES (?, ?, ?, ?, ?, ?)
            `), item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, tx.Rebind(`
                UPDATE products SET stock_quantity = stock_quantity - ?
                WHERE id = ? AND stock_quantity >= ?
            `), item.Quantity, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if rows, _ := res.RowsAffected(); rows == 0 {
				return domproduct.ErrOutOfStock
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// attachItems loads every order's lines with a single IN query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []*domorder.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*domorder.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	query, args, err := sqlx.In(`SELECT `+orderItemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY order_id, id`, ids)
	if err != nil {
		return err
	}
	var rows []orderItemRow
	if err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(query), args...); err != nil {
		return err
	}
	for _, row := range rows {
		if o, ok := byID[row.OrderID]; ok {
			o.Items = append(o.Items, domorder.OrderItem(row))
		}
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, where string, args ...any) ([]*domorder.Order, error) {
	var rows []orderRow
	err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(`
        SELECT `+orderColumns+` FROM orders`+where+` ORDER BY created_at DESC, id DESC
    `), args...)
	if err != nil {
		return nil, err
	}
	orders := make([]*domorder.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	return r.list(ctx, "")
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return r.list(ctx, " WHERE user_id = ?", userID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	var row orderRow
	err := r.s.db.GetContext(ctx, &row, r.s.rebind(`SELECT `+orderColumns+` FROM orders WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	o := row.toDomain()
	if err := r.attachItems(ctx, []*domorder.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`UPDATE orders SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}
