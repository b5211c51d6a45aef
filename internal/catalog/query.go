package catalog

import (
	"strings"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

// RecommendPriceCeiling is the highest price considered a "good value" recommendation
const RecommendPriceCeiling int64 = 3000

// FindByName returns the first product, in catalog order, whose lowercased name occurs in the
// utterance. When several names occur the earliest catalog entry wins; there is no ranking.
func FindByName(products []domain.Product, utterance string) (domain.Product, bool) {
	for _, p := range products {
		if strings.Contains(utterance, strings.ToLower(p.Name)) {
			return p, true
		}
	}
	return domain.Product{}, false
}

// FilterByBudget returns every product priced at or below maxPrice, stock is ignored
func FilterByBudget(products []domain.Product, maxPrice int64) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price <= maxPrice {
			result = append(result, p)
		}
	}
	return result
}

// Recommend returns in-stock products priced at or below RecommendPriceCeiling.
// If none qualify it falls back to every in-stock product and valuePicks is false.
func Recommend(products []domain.Product) (picks []domain.Product, valuePicks bool) {
	picks = make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price <= RecommendPriceCeiling && p.InStock() {
			picks = append(picks, p)
		}
	}
	if len(picks) > 0 {
		return picks, true
	}

	for _, p := range products {
		if p.InStock() {
			picks = append(picks, p)
		}
	}
	return picks, false
}
