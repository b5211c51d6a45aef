// Package reply holds the fixed and data-driven reply texts of the assistant.
package reply

import (
	"fmt"
	"strings"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

const (
	Greeting = "Hi 👋 I’m your shopping assistant. You can ask me to show products, check prices, get recommendations, or place an order."

	Help = "Yes 😊 I can help you with:\n" +
		"- Showing available products\n" +
		"- Checking product prices\n" +
		"- Recommending products\n" +
		"- Adding items to cart\n" +
		"- Checkout and order confirmation\n\n" +
		"Try typing: 'show products' or 'what should I buy?'"

	Exit = "You're welcome 😊 Have a nice day! Feel free to come back anytime."

	Unknown = "Hmm 🤔 I didn't quite understand that.\n" +
		"You can try things like:\n" +
		"- show products\n" +
		"- what should I buy?\n" +
		"- add backpack\n" +
		"- checkout"

	MissingProductName = "Please mention the product name."
	InvalidAmount      = "Please specify a valid amount."
	ProductNotFound    = "Product not found."
	OutOfStock         = "Sorry, this product is out of stock."
	EmptyCart          = "Your cart is empty."
)

// Money formats an amount with the rupee sign used throughout the replies
func Money(amount int64) string {
	return fmt.Sprintf("₹%d", amount)
}

func Price(p domain.Product) string {
	return fmt.Sprintf("%s costs %s.", p.Name, Money(p.Price))
}

func Added(line domain.CartLine) string {
	return fmt.Sprintf("%s added to cart. Anything else?", line.Name)
}

func OrderConfirmed(order *domain.Order) string {
	return fmt.Sprintf("Order confirmed ✅ Total amount %s.", Money(order.TotalPrice))
}

// Recommendation lists picks as "Name (₹price)". valuePicks selects the wording for
// budget-friendly picks versus the plain in-stock fallback.
func Recommendation(picks []domain.Product, valuePicks bool) string {
	items := make([]string, len(picks))
	for i, p := range picks {
		items[i] = fmt.Sprintf("%s (%s)", p.Name, Money(p.Price))
	}
	list := strings.Join(items, ", ")

	if valuePicks {
		return fmt.Sprintf("If you're looking for good value, I recommend: %s.", list)
	}
	return fmt.Sprintf("Here are some products you might like: %s.", list)
}
