package domain

// Product is a catalog entry with its current stock level
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// InStock reports whether at least one unit can still be added to the cart
func (p Product) InStock() bool {
	return p.Stock > 0
}
