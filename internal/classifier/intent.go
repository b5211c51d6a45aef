package classifier

type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentExit         Intent = "exit"
	IntentShowAll      Intent = "show_all"
	IntentPrice        Intent = "price"
	IntentBudgetFilter Intent = "budget_filter"
	IntentRecommend    Intent = "recommend"
	IntentAddToCart    Intent = "add_to_cart"
	IntentCheckout     Intent = "checkout"
	IntentUnknown      Intent = "unknown"
)

// String representation (for logging)
func (i Intent) String() string {
	return string(i)
}
