package cart

import (
	"time"

	domproduct "example.com/localspark/app/internal/domain/product"
)

type Item struct {
	ID        string
	OwnerID   string
	ProductID string
	Quantity  int64
	CreatedAt time.Time
}

type Line struct {
	Item
	Product *domproduct.Product
}

func (l Line) Total() float64 {
	return l.Product.Price * float64(l.Quantity)
}

type Cart struct {
	OwnerID   string
	Items     []Line
	ItemCount int64
	Subtotal  float64
}

func NewCart(ownerID string, lines []Line) *Cart {
	c := &Cart{OwnerID: ownerID, Items: lines}
	if c.Items == nil {
		c.Items = []Line{}
	}
	for _, l := range c.Items {
		c.ItemCount += l.Quantity
		c.Subtotal += l.Total()
	}
	return c
}
