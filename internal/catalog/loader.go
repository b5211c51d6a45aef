package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidProduct   = errors.New("invalid product")
)

// Loader reads the catalog once at startup
type Loader interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

// JSONLoader reads a products.json file: an array of {id, name, price, stock}
type JSONLoader struct {
	Path string
}

func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{Path: path}
}

func (l *JSONLoader) Load(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", l.Path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", l.Path, err)
	}

	if err := Validate(products); err != nil {
		return nil, err
	}
	return products, nil
}

// Validate checks ids are unique and price/stock are non-negative
func Validate(products []domain.Product) error {
	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Name == "" {
			return fmt.Errorf("%w: product %d has no name", ErrInvalidProduct, p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %d has negative price", ErrInvalidProduct, p.ID)
		}
		if p.Stock < 0 {
			return fmt.Errorf("%w: product %d has negative stock", ErrInvalidProduct, p.ID)
		}
	}
	return nil
}
