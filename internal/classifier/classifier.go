// Package classifier maps a shopping utterance to an intent using an ordered table of
// substring rules. There is no statistical model; the first matching rule wins.
package classifier

import (
	"strings"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

// ProductSource supplies the catalog used for product-name extraction
type ProductSource interface {
	Products() []domain.Product
}

// Classification is the result of classifying one utterance.
// Err is set when the intent matched but its parameter could not be extracted.
type Classification struct {
	Intent  Intent
	Rule    string
	Product *domain.Product
	Budget  int64
	Err     error
}

type Classifier struct {
	rules    []Rule
	products ProductSource
}

func NewClassifier(products ProductSource) *Classifier {
	return NewClassifierWithRules(products, Rules())
}

func NewClassifierWithRules(products ProductSource, rules []Rule) *Classifier {
	return &Classifier{
		rules:    rules,
		products: products,
	}
}

// Normalize lowercases the utterance and trims surrounding whitespace
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Classify expects an already normalized utterance
func (c *Classifier) Classify(msg string) Classification {
	for _, rule := range c.rules {
		if !rule.Match(msg) {
			continue
		}

		result := Classification{Intent: rule.Intent, Rule: rule.Name}
		if rule.Extract != nil {
			rule.Extract(msg, c.products.Products(), &result)
		}
		return result
	}

	return Classification{Intent: IntentUnknown}
}
