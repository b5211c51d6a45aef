package classifier

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/assistant-service/internal/catalog"
	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

var (
	ErrInvalidBudget = errors.New("no valid amount in utterance")
	ErrNoProduct     = errors.New("no catalog product named in utterance")
)

// Predicate reports whether a normalized utterance matches a rule
type Predicate func(msg string) bool

// Extractor fills in rule parameters such as the product or the budget
type Extractor func(msg string, products []domain.Product, c *Classification)

// Rule maps a predicate to an intent. Rules are evaluated in slice order and the first match wins.
type Rule struct {
	Name    string
	Intent  Intent
	Match   Predicate
	Extract Extractor
}

var defaultRules = []Rule{
	{Name: "greeting", Intent: IntentGreeting, Match: equalsAny("hi", "hello", "hey", "hy")},
	{Name: "help", Intent: IntentHelp, Match: either(containsAny("can you help", "help me"), equalsAny("help"))},
	{Name: "exit", Intent: IntentExit, Match: equalsAny("ok", "okay", "thanks", "thank you", "bye")},
	{Name: "show", Intent: IntentShowAll, Match: containsAny("show")},
	{Name: "price", Intent: IntentPrice, Match: containsAny("price"), Extract: extractProduct},
	{Name: "budget", Intent: IntentBudgetFilter, Match: containsAny("under"), Extract: extractBudget},
	{Name: "recommend", Intent: IntentRecommend, Match: containsAny("what should i buy", "recommend", "suggest")},
	{Name: "add", Intent: IntentAddToCart, Match: containsAny("add"), Extract: extractProduct},
	{Name: "checkout", Intent: IntentCheckout, Match: containsAny("checkout")},
}

// Rules returns the default rule table in priority order
func Rules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

func equalsAny(words ...string) Predicate {
	return func(msg string) bool {
		for _, w := range words {
			if msg == w {
				return true
			}
		}
		return false
	}
}

func containsAny(phrases ...string) Predicate {
	return func(msg string) bool {
		for _, p := range phrases {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

func either(preds ...Predicate) Predicate {
	return func(msg string) bool {
		for _, p := range preds {
			if p(msg) {
				return true
			}
		}
		return false
	}
}

func extractProduct(msg string, products []domain.Product, c *Classification) {
	product, ok := catalog.FindByName(products, msg)
	if !ok {
		c.Err = ErrNoProduct
		return
	}
	c.Product = &product
}

func extractBudget(msg string, _ []domain.Product, c *Classification) {
	budget, err := ParseBudget(msg)
	if err != nil {
		c.Err = err
		return
	}
	c.Budget = budget
}

// ParseBudget keeps only the digits of msg and parses them as one integer,
// so "under 1,500 or 2" reads as 15002.
func ParseBudget(msg string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, msg)

	if digits == "" {
		return 0, ErrInvalidBudget
	}

	budget, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	}
	return budget, nil
}
