// Package seed holds the sample catalog loaded into empty stores.
package seed

import (
	"context"
	"time"

	domevent "example.com/localspark/app/internal/domain/event"
	domproduct "example.com/localspark/app/internal/domain/product"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error)
	List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, int, error)
}

type EventRepository interface {
	Create(ctx context.Context, e *domevent.Event) (*domevent.Event, error)
	List(ctx context.Context, filter domevent.ListFilter) ([]*domevent.Event, int, error)
}

type Result struct {
	Products int
	Events   int
}

// Apply inserts the sample products and events into whichever collections are empty.
func Apply(ctx context.Context, products ProductRepository, events EventRepository, now time.Time) (Result, error) {
	var res Result

	_, total, err := products.List(ctx, domproduct.ListFilter{IncludeInactive: true, Limit: 1})
	if err != nil {
		return res, err
	}
	if total == 0 {
		for _, p := range Products(now) {
			if _, err := products.Create(ctx, p); err != nil {
				return res, err
			}
			res.Products++
		}
	}

	_, total, err = events.List(ctx, domevent.ListFilter{IncludeInactive: true, Limit: 1})
	if err != nil {
		return res, err
	}
	if total == 0 {
		for _, e := range Events(now) {
			if _, err := events.Create(ctx, e); err != nil {
				return res, err
			}
			res.Events++
		}
	}
	return res, nil
}

func price(v float64) *float64 { return &v }

func capacity(v int64) *int64 { return &v }

func Products(now time.Time) []*domproduct.Product {
	now = now.UTC()
	return []*domproduct.Product{
		{
			ID:            "1",
			Name:          "Wireless Bluetooth Headphones",
			Description:   "Premium quality wireless headphones with noise cancellation and 30-hour battery life. Perfect for music lovers and professionals.",
			Category:      "Electronics",
			Price:         89.99,
			OriginalPrice: price(129.99),
			ImageURL:      "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			Brand:         "TechSound",
			Rating:        4.5,
			ReviewCount:   245,
			StockQuantity: 50,
			SKU:           "TS-WBH-001",
			Tags:          []string{"wireless", "bluetooth", "noise-cancelling"},
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "2",
			Name:          "Ergonomic Office Chair",
			Description:   "Comfortable ergonomic office chair with lumbar support and adjustable height. Ideal for long working hours.",
			Category:      "Furniture",
			Price:         199.99,
			OriginalPrice: price(299.99),
			ImageURL:      "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			Brand:         "ComfortDesk",
			Rating:        4.3,
			ReviewCount:   156,
			StockQuantity: 25,
			SKU:           "CD-EOC-002",
			Tags:          []string{"ergonomic", "office", "adjustable"},
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "3",
			Name:          "Stainless Steel Water Bottle",
			Description:   "Insulated stainless steel water bottle that keeps drinks cold for 24 hours and hot for 12 hours. BPA-free and eco-friendly.",
			Category:      "Sports & Outdoors",
			Price:         24.99,
			OriginalPrice: price(34.99),
			ImageURL:      "https://images.unsplash.com/photo-1602143407151-7111542de6e8?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			Brand:         "HydroLife",
			Rating:        4.7,
			ReviewCount:   89,
			StockQuantity: 100,
			SKU:           "HL-SSW-003",
			Tags:          []string{"insulated", "stainless-steel", "eco-friendly"},
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "4",
			Name:          "Smart Fitness Tracker",
			Description:   "Advanced fitness tracker with heart rate monitoring, sleep tracking, and 7-day battery life. Compatible with iOS and Android.",
			Category:      "Electronics",
			Price:         79.99,
			OriginalPrice: price(99.99),
			ImageURL:      "https://images.unsplash.com/photo-1544117519-31a4b719223d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			Brand:         "FitTech",
			Rating:        4.2,
			ReviewCount:   203,
			StockQuantity: 75,
			SKU:           "FT-SFT-004",
			Tags:          []string{"fitness", "smartwatch", "health"},
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "5",
			Name:          "Organic Cotton T-Shirt",
			Description:   "Super soft organic cotton t-shirt in various colors. Sustainable fashion choice with comfortable fit.",
			Category:      "Clothing",
			Price:         29.99,
			ImageURL:      "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			Brand:         "EcoWear",
			Rating:        4.4,
			ReviewCount:   67,
			StockQuantity: 200,
			SKU:           "EW-OCT-005",
			Tags:          []string{"organic", "cotton", "sustainable"},
			IsActive:      true,
			CreatedAt:     now,
		},
	}
}

// Events schedules the sample events over the coming weeks so a fresh store
// always has something upcoming.
func Events(now time.Time) []*domevent.Event {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	at := func(days, hour int) time.Time {
		return day.AddDate(0, 0, days).Add(time.Duration(hour) * time.Hour)
	}
	coord := func(v float64) *float64 { return &v }

	return []*domevent.Event{
		{
			ID:             "1",
			Title:          "Small Business Networking Mixer",
			Description:    "Connect with local business owners and entrepreneurs. Light refreshments provided.",
			Category:       "Networking",
			Price:          0,
			ImageURL:       "https://images.unsplash.com/photo-1515187029135-18ee286d815b?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=200",
			Location:       "Downtown Convention Center",
			Address:        "123 Convention Ave, San Francisco, CA",
			Latitude:       coord(37.7749),
			Longitude:      coord(-122.4194),
			StartDate:      at(3, 18),
			EndDate:        at(3, 20),
			OrganizerName:  "SF Business Network",
			OrganizerEmail: "events@sfbiznet.com",
			MaxAttendees:   capacity(100),
			IsActive:       true,
			CreatedAt:      now.UTC(),
		},
		{
			ID:             "2",
			Title:          "Digital Marketing for Small Business",
			Description:    "Learn effective digital marketing strategies on a budget. Includes hands-on exercises and resource guide.",
			Category:       "Workshop",
			Price:          35,
			ImageURL:       "https://images.unsplash.com/photo-1460925895917-afdab827c52f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=200",
			Location:       "Tech Hub Co-working Space",
			Address:        "456 Tech St, San Francisco, CA",
			Latitude:       coord(37.7849),
			Longitude:      coord(-122.4094),
			StartDate:      at(4, 14),
			EndDate:        at(4, 17),
			OrganizerName:  "Digital Growth Academy",
			OrganizerEmail: "workshops@digitalgrowth.com",
			MaxAttendees:   capacity(30),
			IsActive:       true,
			CreatedAt:      now.UTC(),
		},
		{
			ID:             "3",
			Title:          "Local Business Expo",
			Description:    "Discover new vendors, attend seminars, and showcase your business. Over 100 exhibitors expected.",
			Category:       "Trade Show",
			Price:          45,
			ImageURL:       "https://images.unsplash.com/photo-1540575467063-178a50c2df87?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=200",
			Location:       "City Exhibition Hall",
			Address:        "789 Expo Blvd, San Francisco, CA",
			Latitude:       coord(37.7649),
			Longitude:      coord(-122.4294),
			StartDate:      at(14, 9),
			EndDate:        at(14, 18),
			OrganizerName:  "Bay Area Business Alliance",
			OrganizerEmail: "expo@bayareabiz.org",
			MaxAttendees:   capacity(500),
			IsActive:       true,
			CreatedAt:      now.UTC(),
		},
		{
			ID:             "4",
			Title:          "Small Business Financial Planning",
			Description:    "Learn budgeting, cash flow management, and tax planning strategies for small businesses.",
			Category:       "Seminar",
			Price:          0,
			ImageURL:       "https://images.unsplash.com/photo-1554224155-6726b3ff858f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=200",
			Location:       "Public Library - Main Branch",
			Address:        "100 Library St, San Francisco, CA",
			Latitude:       coord(37.7549),
			Longitude:      coord(-122.4394),
			StartDate:      at(17, 19),
			EndDate:        at(17, 21),
			OrganizerName:  "Financial Literacy Foundation",
			OrganizerEmail: "seminars@finlit.org",
			MaxAttendees:   capacity(50),
			IsActive:       true,
			CreatedAt:      now.UTC(),
		},
	}
}
