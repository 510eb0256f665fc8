package event

import (
	"math"
	"sort"
	"strings"
	"time"
)

type Event struct {
	ID               string
	Title            string
	Description      string
	Category         string
	ImageURL         string
	Price            float64
	StartDate        time.Time
	EndDate          time.Time
	Location         string
	Address          string
	Latitude         *float64
	Longitude        *float64
	OrganizerName    string
	OrganizerEmail   string
	MaxAttendees     *int64
	CurrentAttendees int64
	IsActive         bool
	CreatedAt        time.Time
}

func (e *Event) HasEnded(now time.Time) bool {
	return !e.EndDate.After(now)
}

func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees
}

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

type Radius struct {
	Center GeoPoint
	Miles  float64
}

type ListFilter struct {
	Category        string
	MaxPrice        *float64
	Search          string
	Near            *Radius
	Upcoming        bool
	Now             time.Time
	IncludeInactive bool
	Limit           int
	Offset          int
}

func (f ListFilter) CategoryFilter() string {
	c := strings.ToLower(strings.TrimSpace(f.Category))
	if c == "all" {
		return ""
	}
	return c
}

func (f ListFilter) Matches(e *Event) bool {
	if !f.IncludeInactive && !e.IsActive {
		return false
	}
	if c := f.CategoryFilter(); c != "" && strings.ToLower(e.Category) != c {
		return false
	}
	if f.MaxPrice != nil && e.Price > *f.MaxPrice {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Category), q) {
			return false
		}
	}
	if f.Upcoming && e.HasEnded(f.Now) {
		return false
	}
	if f.Near != nil {
		if e.Latitude == nil || e.Longitude == nil {
			return false
		}
		d := DistanceMiles(f.Near.Center, GeoPoint{Latitude: *e.Latitude, Longitude: *e.Longitude})
		if d > f.Near.Miles {
			return false
		}
	}
	return true
}

const EarthRadiusMiles = 3958.8

// DistanceMiles is the haversine great-circle distance.
func DistanceMiles(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(math.Min(1, h)))
}

// SortByStart orders events by start date, earliest first.
func SortByStart(items []*Event) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].ID < items[j].ID
	})
}
