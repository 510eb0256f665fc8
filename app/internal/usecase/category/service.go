package category

import (
	"context"
	"sort"
	"strings"

	dom "example.com/localspark/app/internal/domain/category"
	domevent "example.com/localspark/app/internal/domain/event"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type ProductLister interface {
	List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, int, error)
}

type EventLister interface {
	List(ctx context.Context, filter domevent.ListFilter) ([]*domevent.Event, int, error)
}

type Service struct {
	products ProductLister
	events   EventLister
}

func NewService(products ProductLister, events EventLister) *Service {
	return &Service{products: products, events: events}
}

// Facets summarizes active products and events for the storefront filter panel.
func (s *Service) Facets(ctx context.Context) (*dom.Facets, error) {
	products, _, err := s.products.List(ctx, domproduct.ListFilter{})
	if err != nil {
		return nil, err
	}
	events, _, err := s.events.List(ctx, domevent.ListFilter{})
	if err != nil {
		return nil, err
	}

	facets := &dom.Facets{}
	productCats := dom.NewCounter()
	brands := make(map[string]string)
	for i, p := range products {
		productCats.Add(p.Category)
		if b := strings.TrimSpace(p.Brand); b != "" {
			if _, ok := brands[strings.ToLower(b)]; !ok {
				brands[strings.ToLower(b)] = b
			}
		}
		if i == 0 || p.Price < facets.PriceRange.Min {
			facets.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > facets.PriceRange.Max {
			facets.PriceRange.Max = p.Price
		}
		if p.StockQuantity > 0 {
			facets.Availability.InStock++
		} else {
			facets.Availability.OutOfStock++
		}
	}

	eventCats := dom.NewCounter()
	for _, e := range events {
		eventCats.Add(e.Category)
	}

	facets.ProductCategories = productCats.Categories()
	facets.EventCategories = eventCats.Categories()
	facets.Brands = make([]string, 0, len(brands))
	for _, b := range brands {
		facets.Brands = append(facets.Brands, b)
	}
	sort.Slice(facets.Brands, func(i, j int) bool {
		return strings.ToLower(facets.Brands[i]) < strings.ToLower(facets.Brands[j])
	})
	return facets, nil
}
