package memory

import (
	"context"
	"sort"
	"time"

	domcart "example.com/localspark/app/internal/domain/cart"
	domproduct "example.com/localspark/app/internal/domain/product"
	domsession "example.com/localspark/app/internal/domain/session"
)

type CartRepository struct {
	s *Store
}

func (r *CartRepository) find(ownerID, productID string) *domcart.Item {
	for _, item := range r.s.cartItems {
		if item.OwnerID == ownerID && item.ProductID == productID {
			return item
		}
	}
	return nil
}

func (r *CartRepository) add(ownerID, productID string, quantity int64) *domcart.Item {
	if item := r.find(ownerID, productID); item != nil {
		item.Quantity += quantity
		return item
	}
	item := &domcart.Item{
		ID:        newID(),
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: r.s.now(),
	}
	r.s.cartItems[item.ID] = item
	return item
}

func (r *CartRepository) AddOrUpdateItem(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *r.add(ownerID, productID, quantity)
	return &c, nil
}

func (r *CartRepository) AddWithinStock(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok || !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}
	var current int64
	if item := r.find(ownerID, productID); item != nil {
		current = item.Quantity
	}
	if !p.InStock(current + quantity) {
		return nil, domproduct.ErrOutOfStock
	}
	c := *r.add(ownerID, productID, quantity)
	return &c, nil
}

func (r *CartRepository) GetItem(ctx context.Context, ownerID, productID string) (*domcart.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item := r.find(ownerID, productID)
	if item == nil {
		return nil, domcart.ErrItemNotFound
	}
	c := *item
	return &c, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item := r.find(ownerID, productID)
	if item == nil {
		return nil, domcart.ErrItemNotFound
	}
	item.Quantity = quantity
	c := *item
	return &c, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, ownerID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item := r.find(ownerID, productID)
	if item == nil {
		return domcart.ErrItemNotFound
	}
	delete(r.s.cartItems, item.ID)
	return nil
}

func (r *CartRepository) ListItems(ctx context.Context, ownerID string) ([]domcart.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domcart.Item{}
	for _, item := range r.s.cartItems {
		if item.OwnerID == ownerID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *CartRepository) Clear(ctx context.Context, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, item := range r.s.cartItems {
		if item.OwnerID == ownerID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

func (r *CartRepository) MergeOwner(ctx context.Context, fromOwnerID, toOwnerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var moving []*domcart.Item
	for _, item := range r.s.cartItems {
		if item.OwnerID == fromOwnerID {
			moving = append(moving, item)
		}
	}
	for _, item := range moving {
		delete(r.s.cartItems, item.ID)
		r.add(toOwnerID, item.ProductID, item.Quantity)
	}
	return nil
}

func (r *CartRepository) DeleteGuestItemsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, item := range r.s.cartItems {
		if domsession.IsGuestOwner(item.OwnerID) && item.CreatedAt.Before(cutoff) {
			delete(r.s.cartItems, id)
			n++
		}
	}
	return n, nil
}
