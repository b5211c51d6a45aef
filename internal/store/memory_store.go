package store

import (
	"sync"
	"time"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore implements ShopStore in memory. One lock covers both the cart and the stock
// counters so add and checkout never interleave.
type MemoryStore struct {
	mu       sync.RWMutex
	products []*domain.Product         // catalog order
	byID     map[int64]*domain.Product // productID -> product
	cart     []domain.CartLine

	now func() time.Time
}

// NewMemoryStore creates a store seeded with the given catalog. The slice is copied.
func NewMemoryStore(products []domain.Product) *MemoryStore {
	s := &MemoryStore{
		products: make([]*domain.Product, 0, len(products)),
		byID:     make(map[int64]*domain.Product, len(products)),
		now:      time.Now,
	}

	for _, p := range products {
		s.products = append(s.products, &p)
		s.byID[p.ID] = &p
	}
	return s
}

// Products returns a snapshot of the catalog
func (s *MemoryStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		result[i] = *p
	}
	return result
}

// AddToCart reserves one unit of the product for the cart
func (s *MemoryStore) AddToCart(productID int64) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.byID[productID]
	if !exists {
		return domain.CartLine{}, ErrProductNotFound
	}
	if product.Stock <= 0 {
		return domain.CartLine{}, ErrOutOfStock
	}

	line := domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	}
	s.cart = append(s.cart, line)
	product.Stock--

	return line, nil
}

// RemoveFromCart undoes the latest add of the product
func (s *MemoryStore) RemoveFromCart(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.cart) - 1; i >= 0; i-- {
		line := s.cart[i]
		if line.ProductID != productID {
			continue
		}

		s.cart = append(s.cart[:i], s.cart[i+1:]...)
		if product, exists := s.byID[productID]; exists {
			product.Stock += line.Quantity
		}
		return nil
	}
	return ErrNotInCart
}

// Checkout confirms the cart as an order and clears it in the same critical section
func (s *MemoryStore) Checkout() (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return nil, ErrEmptyCart
	}

	lines := s.cart
	s.cart = nil

	return &domain.Order{
		ID:         uuid.New(),
		Lines:      lines,
		TotalPrice: domain.Total(lines),
		Status:     domain.OrderStatusConfirmed,
		CreatedAt:  s.now(),
	}, nil
}

// Cart returns a copy of the current lines
func (s *MemoryStore) Cart() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CartLine, len(s.cart))
	copy(result, s.cart)
	return result
}

// SetStock sets the stock level for a product
func (s *MemoryStore) SetStock(productID int64, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.byID[productID]
	if !exists {
		return ErrProductNotFound
	}
	product.Stock = quantity
	return nil
}
