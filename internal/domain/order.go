package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CartLine is a single add-to-cart event. Price is a snapshot taken when the line was added.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns price multiplied by quantity
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Order is the snapshot produced by a successful checkout. It is not retained after the reply.
type Order struct {
	ID         uuid.UUID   `json:"id"`
	Lines      []CartLine  `json:"products"`
	TotalPrice int64       `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Total sums the subtotals of the given lines
func Total(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
