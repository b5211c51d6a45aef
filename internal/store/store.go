package store

import (
	"errors"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNotInCart       = errors.New("product is not in the cart")
	ErrInvalidQuantity = errors.New("stock quantity must not be negative")
)

// ShopStore owns the catalog stock counters and the single process-wide cart
type ShopStore interface {
	// Products returns a copy of the catalog in catalog order, with current stock
	Products() []domain.Product

	// AddToCart appends one line for the product and decrements its stock by one
	AddToCart(productID int64) (domain.CartLine, error)

	// RemoveFromCart drops the most recently added line for the product and restores one unit of stock
	RemoveFromCart(productID int64) error

	// Checkout turns the cart into a confirmed order and empties the cart.
	// The order is not retained by the store.
	Checkout() (*domain.Order, error)

	// Cart returns a copy of the current cart lines
	Cart() []domain.CartLine

	// SetStock sets the stock level for an existing product
	SetStock(productID int64, quantity int) error
}
