package memory

import (
	"context"
	"strings"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type ProductRepository struct {
	s *Store
}

func cloneProduct(p *domproduct.Product) *domproduct.Product {
	c := *p
	c.OriginalPrice = copyFloat(p.OriginalPrice)
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func (r *ProductRepository) skuTaken(sku, exceptID string) bool {
	if sku == "" {
		return false
	}
	for _, p := range r.s.products {
		if p.ID != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.skuTaken(p.SKU, "") {
		return nil, domproduct.ErrSKUExists
	}
	c := cloneProduct(p)
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	r.s.products[c.ID] = c
	return cloneProduct(c), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[p.ID]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return nil, domproduct.ErrSKUExists
	}
	c := cloneProduct(p)
	c.CreatedAt = existing.CreatedAt
	r.s.products[c.ID] = c
	return cloneProduct(c), nil
}

// Delete also drops cart lines and favorites pointing at the product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(r.s.products, id)
	for key, item := range r.s.cartItems {
		if item.ProductID == id {
			delete(r.s.cartItems, key)
		}
	}
	for key, fav := range r.s.favorites {
		if fav.Kind == domfavorite.KindProduct && fav.TargetID == id {
			delete(r.s.favorites, key)
		}
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domproduct.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, int, error) {
	r.s.mu.RLock()
	matched := make([]*domproduct.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.Matches(p) {
			matched = append(matched, cloneProduct(p))
		}
	}
	r.s.mu.RUnlock()

	domproduct.SortProducts(matched, filter.Sort)
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domproduct.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.s.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}
