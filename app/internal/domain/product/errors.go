package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
	ErrSKUExists       = errors.New("product sku already exists")
	ErrInvalidProduct  = errors.New("invalid product")
)
