package category

import (
	"regexp"
	"sort"
	"strings"
)

// Category is a facet derived from the free-form category strings on
// products and events.
type Category struct {
	Name  string
	Slug  string
	Count int
}

type PriceRange struct {
	Min float64
	Max float64
}

type Availability struct {
	InStock    int
	OutOfStock int
}

type Facets struct {
	ProductCategories []Category
	EventCategories   []Category
	Brands            []string
	PriceRange        PriceRange
	Availability      Availability
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

// Counter accumulates category names case-insensitively, keeping the first spelling seen.
type Counter struct {
	order  []string
	counts map[string]*Category
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]*Category)}
}

func (c *Counter) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if existing, ok := c.counts[key]; ok {
		existing.Count++
		return
	}
	c.order = append(c.order, key)
	c.counts[key] = &Category{Name: name, Slug: Slugify(name), Count: 1}
}

// Categories returns the counted categories sorted by name.
func (c *Counter) Categories() []Category {
	out := make([]Category, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.counts[key])
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
