package order

import (
	"time"

	domcart "example.com/localspark/app/internal/domain/cart"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusShipped  Status = "SHIPPED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCanceled:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCOD, PaymentCard:
		return true
	default:
		return false
	}
}

type Order struct {
	ID            string
	UserID        string
	Status        Status
	PaymentMethod PaymentMethod
	TotalAmount   float64
	Items         []OrderItem
	CreatedAt     time.Time
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	Price     float64
	Quantity  int64
}

type CreateFromCartInput struct {
	UserID  string
	Items   []domcart.Item
	Payment PaymentMethod
}
