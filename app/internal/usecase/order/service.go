package order

import (
	"context"
	"fmt"

	domcart "example.com/localspark/app/internal/domain/cart"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type CartRepository interface {
	ListItems(ctx context.Context, ownerID string) ([]domcart.Item, error)
	Clear(ctx context.Context, ownerID string) error
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error)
}

type Notifier interface {
	Notify(ctx context.Context, ownerID string, typ domnotification.Type, title, message string) error
}

type Service struct {
	repo     domorder.Repository
	cartRepo CartRepository
	products ProductRepository
	notifier Notifier
}

func NewService(repo domorder.Repository, cartRepo CartRepository, products ProductRepository, notifier Notifier) *Service {
	return &Service{repo: repo, cartRepo: cartRepo, products: products, notifier: notifier}
}

func (s *Service) Checkout(ctx context.Context, userID string, method domorder.PaymentMethod) (*domorder.Order, error) {
	if !method.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}

	items, err := s.sellableItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domorder.ErrEmptyCart
	}

	order, err := s.repo.CreateFromCart(ctx, domorder.CreateFromCartInput{
		UserID:  userID,
		Items:   items,
		Payment: method,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}

	s.notify(ctx, order, "Order placed", fmt.Sprintf("We received your order of %d item(s) totalling $%.2f.", len(order.Items), order.TotalAmount))
	return order, nil
}

// sellableItems drops cart lines whose product is gone or inactive, matching
// what the cart view shows. The whole cart is cleared after checkout.
func (s *Service) sellableItems(ctx context.Context, userID string) ([]domcart.Item, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil || len(items) == 0 {
		return items, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(products))
	for _, p := range products {
		active[p.ID] = p.IsActive
	}

	out := make([]domcart.Item, 0, len(items))
	for _, item := range items {
		if active[item.ProductID] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Service) List(ctx context.Context) ([]*domorder.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	switch status {
	case domorder.StatusShipped:
		s.notify(ctx, order, "Your order has been shipped!", "Your product is on the way.")
	case domorder.StatusCanceled:
		s.notify(ctx, order, "Your order was canceled", "Contact support if this is unexpected.")
	}
	return order, nil
}

// notify is best effort: the order change has already been committed.
func (s *Service) notify(ctx context.Context, o *domorder.Order, title, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, o.UserID, domnotification.TypeOrder, title, message)
}
