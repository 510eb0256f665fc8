package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	dom "example.com/localspark/app/internal/domain/product"
)

type FavoriteRepository interface {
	ListOwnersByTarget(ctx context.Context, kind domfavorite.Kind, targetID string) ([]string, error)
}

type Notifier interface {
	Notify(ctx context.Context, ownerID string, typ domnotification.Type, title, message string) error
}

type Service struct {
	repo      dom.Repository
	favorites FavoriteRepository
	notifier  Notifier
	logger    *zap.Logger
}

func NewService(repo dom.Repository, favorites FavoriteRepository, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, favorites: favorites, notifier: notifier, logger: logger}
}

// validTags rejects tags the SQL store could not split back apart.
func validTags(tags []string) bool {
	for _, t := range tags {
		if strings.Contains(t, ",") {
			return false
		}
	}
	return true
}

type CreateInput struct {
	Name          string
	Description   string
	Category      string
	Price         float64
	OriginalPrice *float64
	ImageURL      string
	Brand         string
	Rating        float64
	ReviewCount   int64
	StockQuantity int64
	SKU           string
	Tags          []string
}

type UpdateInput struct {
	ID            string
	Name          *string
	Description   *string
	Category      *string
	Price         *float64
	OriginalPrice *float64
	ImageURL      *string
	Brand         *string
	StockQuantity *int64
	SKU           *string
	Tags          []string
	IsActive      *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Product, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price <= 0 || in.StockQuantity < 0 || !validTags(in.Tags) {
		return nil, dom.ErrInvalidProduct
	}
	p := &dom.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		ImageURL:      in.ImageURL,
		Brand:         strings.TrimSpace(in.Brand),
		Rating:        in.Rating,
		ReviewCount:   in.ReviewCount,
		StockQuantity: in.StockQuantity,
		SKU:           strings.TrimSpace(in.SKU),
		Tags:          in.Tags,
		IsActive:      true,
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Product, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	oldPrice := existed.Price

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, dom.ErrInvalidProduct
		}
		existed.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		existed.Description = *in.Description
	}
	if in.Category != nil {
		existed.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, dom.ErrInvalidProduct
		}
		existed.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		existed.OriginalPrice = in.OriginalPrice
	}
	if in.ImageURL != nil {
		existed.ImageURL = *in.ImageURL
	}
	if in.Brand != nil {
		existed.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, dom.ErrInvalidProduct
		}
		existed.StockQuantity = *in.StockQuantity
	}
	if in.SKU != nil {
		existed.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Tags != nil {
		if !validTags(in.Tags) {
			return nil, dom.ErrInvalidProduct
		}
		existed.Tags = in.Tags
	}
	if in.IsActive != nil {
		existed.IsActive = *in.IsActive
	}

	updated, err := s.repo.Update(ctx, existed)
	if err != nil {
		return nil, err
	}

	if updated.Price < oldPrice && updated.IsActive {
		// The update is committed; a failed fan-out does not undo it.
		if err := s.notifyPriceDrop(ctx, updated, oldPrice); err != nil {
			s.logger.Warn("price drop notification failed", zap.String("product_id", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *Service) notifyPriceDrop(ctx context.Context, p *dom.Product, oldPrice float64) error {
	if s.favorites == nil || s.notifier == nil {
		return nil
	}
	owners, err := s.favorites.ListOwnersByTarget(ctx, domfavorite.KindProduct, p.ID)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%s dropped from $%.2f to $%.2f.", p.Name, oldPrice, p.Price)
	var errs []error
	for _, owner := range owners {
		if err := s.notifier.Notify(ctx, owner, domnotification.TypeFavorites, "Price drop on a favorite", msg); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", owner, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*dom.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActive hides inactive products from storefront callers.
func (s *Service) GetActive(ctx context.Context, id string) (*dom.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, dom.ErrProductNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, int, error) {
	if filter.Sort == "" {
		filter.Sort = dom.SortRating
	}
	return s.repo.List(ctx, filter)
}

type ImportResult struct {
	Created int
	Skipped []ImportSkip
}

type ImportSkip struct {
	Name   string
	Reason string
}

// Import creates each product, skipping rows that fail validation or clash
// on SKU. Other errors abort the import.
func (s *Service) Import(ctx context.Context, items []*dom.Product) (*ImportResult, error) {
	res := &ImportResult{Skipped: []ImportSkip{}}
	for _, p := range items {
		_, err := s.Create(ctx, CreateInput{
			Name:          p.Name,
			Description:   p.Description,
			Category:      p.Category,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			ImageURL:      p.ImageURL,
			Brand:         p.Brand,
			Rating:        p.Rating,
			ReviewCount:   p.ReviewCount,
			StockQuantity: p.StockQuantity,
			SKU:           p.SKU,
			Tags:          p.Tags,
		})
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, dom.ErrInvalidProduct), errors.Is(err, dom.ErrSKUExists):
			res.Skipped = append(res.Skipped, ImportSkip{Name: p.Name, Reason: err.Error()})
		default:
			return nil, err
		}
	}
	return res, nil
}
