package memory

import (
	"context"
	"sort"

	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type OrderRepository struct {
	s *Store
}

func cloneOrder(o *domorder.Order) *domorder.Order {
	c := *o
	c.Items = append([]domorder.OrderItem(nil), o.Items...)
	return &c
}

func (r *OrderRepository) CreateFromCart(ctx context.Context, in domorder.CreateFromCartInput) (*domorder.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(in.Items) == 0 {
		return nil, domorder.ErrEmptyCart
	}

	// validate everything before touching stock
	for _, item := range in.Items {
		p, ok := r.s.products[item.ProductID]
		if !ok || !p.IsActive {
			return nil, domproduct.ErrProductNotFound
		}
		if !p.InStock(item.Quantity) {
			return nil, domproduct.ErrOutOfStock
		}
	}

	order := &domorder.Order{
		ID:            newID(),
		UserID:        in.UserID,
		Status:        domorder.StatusPending,
		PaymentMethod: in.Payment,
		CreatedAt:     r.s.now(),
		Items:         make([]domorder.OrderItem, 0, len(in.Items)),
	}
	for _, item := range in.Items {
		p := r.s.products[item.ProductID]
		p.StockQuantity -= item.Quantity
		order.TotalAmount += p.Price * float64(item.Quantity)
		order.Items = append(order.Items, domorder.OrderItem{
			ID:        newID(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
		})
	}
	r.s.orders[order.ID] = order
	return cloneOrder(order), nil
}

func (r *OrderRepository) list(match func(*domorder.Order) bool) []*domorder.Order {
	out := []*domorder.Order{}
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(*domorder.Order) bool { return true }), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(o *domorder.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	return cloneOrder(o), nil
}
