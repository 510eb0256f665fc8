package cart

import (
	"context"

	domcart "example.com/localspark/app/internal/domain/cart"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error)
}

type Service struct {
	cartRepo    domcart.Repository
	productRepo ProductRepository
}

func NewService(cartRepo domcart.Repository, productRepo ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *Service) activeProduct(ctx context.Context, productID string) (*domproduct.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}
	return p, nil
}

// AddToCart adds quantity to the owner's line for the product, creating it if needed.
func (s *Service) AddToCart(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	if quantity <= 0 {
		return nil, domcart.ErrInvalidQuantity
	}
	return s.cartRepo.AddWithinStock(ctx, ownerID, productID, quantity)
}

func (s *Service) UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int64) (*domcart.Item, error) {
	if quantity <= 0 {
		return nil, domcart.ErrInvalidQuantity
	}
	if _, err := s.cartRepo.GetItem(ctx, ownerID, productID); err != nil {
		return nil, err
	}
	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.InStock(quantity) {
		return nil, domproduct.ErrOutOfStock
	}
	return s.cartRepo.SetQuantity(ctx, ownerID, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, ownerID, productID string) error {
	return s.cartRepo.RemoveItem(ctx, ownerID, productID)
}

func (s *Service) Clear(ctx context.Context, ownerID string) error {
	return s.cartRepo.Clear(ctx, ownerID)
}

func (s *Service) GetCart(ctx context.Context, ownerID string) (*domcart.Cart, error) {
	items, err := s.cartRepo.ListItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return domcart.NewCart(ownerID, nil), nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	productMap := make(map[string]*domproduct.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	lines := make([]domcart.Line, 0, len(items))
	for _, item := range items {
		if p, ok := productMap[item.ProductID]; ok && p.IsActive {
			lines = append(lines, domcart.Line{Item: item, Product: p})
		}
	}

	return domcart.NewCart(ownerID, lines), nil
}

// AdoptGuestCart moves a guest's lines onto a user, merging duplicates.
func (s *Service) AdoptGuestCart(ctx context.Context, guestOwnerID, userID string) error {
	if guestOwnerID == "" || guestOwnerID == userID {
		return nil
	}
	return s.cartRepo.MergeOwner(ctx, guestOwnerID, userID)
}
