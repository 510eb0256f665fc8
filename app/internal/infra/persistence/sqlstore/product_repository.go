package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domproduct "example.com/localspark/app/internal/domain/product"
)

const productColumns = `id, name, description, category, price, original_price, image_url, brand,
        rating, review_count, stock_quantity, sku, tags, is_active, created_at`

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Category      string          `db:"category"`
	Price         float64         `db:"price"`
	OriginalPrice sql.NullFloat64 `db:"original_price"`
	ImageURL      string          `db:"image_url"`
	Brand         string          `db:"brand"`
	Rating        float64         `db:"rating"`
	ReviewCount   int64           `db:"review_count"`
	StockQuantity int64           `db:"stock_quantity"`
	SKU           sql.NullString  `db:"sku"`
	Tags          string          `db:"tags"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r productRow) toDomain() *domproduct.Product {
	p := &domproduct.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		ImageURL:      r.ImageURL,
		Brand:         r.Brand,
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		StockQuantity: r.StockQuantity,
		SKU:           r.SKU.String,
		Tags:          splitTags(r.Tags),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt.UTC(),
	}
	if r.OriginalPrice.Valid {
		v := r.OriginalPrice.Float64
		p.OriginalPrice = &v
	}
	return p
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	c := *p
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.timestamp()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}

	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        INSERT INTO products (`+productColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `), c.ID, c.Name, c.Description, c.Category, c.Price, nullFloat(c.OriginalPrice), c.ImageURL, c.Brand,
		c.Rating, c.ReviewCount, c.StockQuantity, nullString(c.SKU), joinTags(c.Tags), c.IsActive, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domproduct.ErrSKUExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`
        UPDATE products SET name = ?, description = ?, category = ?, price = ?, original_price = ?,
            image_url = ?, brand = ?, rating = ?, review_count = ?, stock_quantity = ?, sku = ?,
            tags = ?, is_active = ?
        WHERE id = ?
    `), p.Name, p.Description, p.Category, p.Price, nullFloat(p.OriginalPrice),
		p.ImageURL, p.Brand, p.Rating, p.ReviewCount, p.StockQuantity, nullString(p.SKU),
		joinTags(p.Tags), p.IsActive, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domproduct.ErrSKUExists
		}
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domproduct.ErrProductNotFound
	}
	return r.GetByID(ctx, p.ID)
}

// Delete also drops cart lines and favorites pointing at the product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cart_items WHERE product_id = ?`), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM favorites WHERE kind = ? AND target_id = ?`), string(domfavorite.KindProduct), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM products WHERE id = ?`), id)
		if err != nil {
			return err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			return domproduct.ErrProductNotFound
		}
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domproduct.Product, error) {
	var row productRow
	err := r.s.db.GetContext(ctx, &row, r.s.rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func productWhere(filter domproduct.ListFilter) (string, []any) {
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
	if filter.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if b := strings.TrimSpace(filter.Brand); b != "" {
		clauses = append(clauses, "LOWER(brand) = ?")
		args = append(args, strings.ToLower(b))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		clauses = append(clauses, "(LOWER(name) "+likeMatch+" OR LOWER(description) "+likeMatch+
			" OR LOWER(category) "+likeMatch+" OR LOWER(brand) "+likeMatch+" OR LOWER(tags) "+likeMatch+")")
		pattern := likePattern(q)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func productOrder(order domproduct.SortOrder) string {
	switch order {
	case domproduct.SortPriceAsc:
		return " ORDER BY price ASC, id ASC"
	case domproduct.SortPriceDesc:
		return " ORDER BY price DESC, id ASC"
	case domproduct.SortNewest:
		return " ORDER BY created_at DESC, id ASC"
	default:
		return " ORDER BY rating DESC, id ASC"
	}
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, int, error) {
	where, args := productWhere(filter)

	var total int
	if err := r.s.db.GetContext(ctx, &total, r.s.rebind(`SELECT COUNT(*) FROM products`+where), args...); err != nil {
		return nil, 0, err
	}

	page, pageArgs := r.s.pageClause(filter.Limit, filter.Offset)
	query := `SELECT ` + productColumns + ` FROM products` + where + productOrder(filter.Sort) + page

	var rows []productRow
	if err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(query), append(args, pageArgs...)...); err != nil {
		return nil, 0, err
	}

	products := make([]*domproduct.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, total, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error) {
	if len(ids) == 0 {
		return []*domproduct.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := r.s.db.SelectContext(ctx, &rows, r.s.rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]productRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	products := make([]*domproduct.Product, 0, len(rows))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		products = append(products, row.toDomain())
	}
	return products, nil
}
