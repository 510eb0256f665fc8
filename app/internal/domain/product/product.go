package product

import (
	"sort"
	"strings"
	"time"
)

type Product struct {
	ID            string
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
	IsActive      bool
	CreatedAt     time.Time
}

type SortOrder string

const (
	SortRating    SortOrder = "rating"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortNewest    SortOrder = "newest"
)

func (s SortOrder) IsValid() bool {
	switch s {
	case SortRating, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	default:
		return false
	}
}

type ListFilter struct {
	Category        string
	MinPrice        *float64
	MaxPrice        *float64
	Brand           string
	Search          string
	IncludeInactive bool
	Sort            SortOrder
	// Limit 0 returns every match.
	Limit  int
	Offset int
}

// CategoryFilter returns the normalized category to match, or "" when
// the filter should not restrict by category.
func (f ListFilter) CategoryFilter() string {
	c := strings.ToLower(strings.TrimSpace(f.Category))
	if c == "all" {
		return ""
	}
	return c
}

func (f ListFilter) Matches(p *Product) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if c := f.CategoryFilter(); c != "" && strings.ToLower(p.Category) != c {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if b := strings.TrimSpace(f.Brand); b != "" && !strings.EqualFold(p.Brand, b) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return p.contains(q)
	}
	return true
}

func (p *Product) contains(q string) bool {
	fields := []string{p.Name, p.Description, p.Category, p.Brand}
	fields = append(fields, p.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SortProducts orders in place. Ties fall back to id so pages stay stable.
func SortProducts(items []*Product, order SortOrder) {
	less := func(a, b *Product) bool { return b.Rating < a.Rating }
	switch order {
	case SortPriceAsc:
		less = func(a, b *Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *Product) bool { return b.Price < a.Price }
	case SortNewest:
		less = func(a, b *Product) bool { return b.CreatedAt.Before(a.CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if less(items[i], items[j]) {
			return true
		}
		if less(items[j], items[i]) {
			return false
		}
		return items[i].ID < items[j].ID
	})
}

func (p *Product) InStock(quantity int64) bool {
	return p.StockQuantity >= quantity
}
