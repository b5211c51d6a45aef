// Package assistant turns one utterance into one reply: it normalizes and classifies the
// text, runs the matching catalog or cart operation, and renders the result. It never
// fails; every error ends as a user-facing message.
package assistant

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/assistant-service/internal/catalog"
	"github.com/fjod/go_cart/assistant-service/internal/classifier"
	"github.com/fjod/go_cart/assistant-service/internal/fallback"
	"github.com/fjod/go_cart/assistant-service/internal/publisher"
	"github.com/fjod/go_cart/assistant-service/internal/reply"
	"github.com/fjod/go_cart/assistant-service/internal/store"
	"go.uber.org/zap"
)

type Dispatcher struct {
	store      store.ShopStore
	classifier *classifier.Classifier
	fallback   fallback.Delegate
	notifier   publisher.OrderNotifier
	logger     *zap.Logger
}

func NewDispatcher(st store.ShopStore, delegate fallback.Delegate, notifier publisher.OrderNotifier, logger *zap.Logger) *Dispatcher {
	if delegate == nil {
		delegate = fallback.Unavailable{}
	}
	if notifier == nil {
		notifier = publisher.Noop{}
	}
	return &Dispatcher{
		store:      st,
		classifier: classifier.NewClassifier(st),
		fallback:   delegate,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle always returns a reply. A panic in a handler degrades to the unknown-input message.
func (d *Dispatcher) Handle(ctx context.Context, utterance string) (r Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("handler panicked", zap.Any("panic", rec), zap.Stack("stack"))
			r = TextReply(reply.Unknown)
		}
	}()

	msg := classifier.Normalize(utterance)
	c := d.classifier.Classify(msg)

	d.logger.Debug("utterance classified",
		zap.String("intent", c.Intent.String()),
		zap.String("rule", c.Rule),
		zap.NamedError("extract_error", c.Err))

	switch c.Intent {
	case classifier.IntentGreeting:
		return TextReply(reply.Greeting)
	case classifier.IntentHelp:
		return TextReply(reply.Help)
	case classifier.IntentExit:
		return TextReply(reply.Exit)
	case classifier.IntentShowAll:
		return ProductsReply(d.store.Products())
	case classifier.IntentPrice:
		return d.price(c)
	case classifier.IntentBudgetFilter:
		return d.budget(c)
	case classifier.IntentRecommend:
		return TextReply(reply.Recommendation(catalog.Recommend(d.store.Products())))
	case classifier.IntentAddToCart:
		return d.addToCart(c)
	case classifier.IntentCheckout:
		return d.checkout(ctx)
	default:
		return d.unknown(ctx, msg)
	}
}

func (d *Dispatcher) price(c classifier.Classification) Reply {
	if c.Err != nil || c.Product == nil {
		return TextReply(reply.MissingProductName)
	}
	return TextReply(reply.Price(*c.Product))
}

func (d *Dispatcher) budget(c classifier.Classification) Reply {
	if c.Err != nil {
		return TextReply(reply.InvalidAmount)
	}
	return ProductsReply(catalog.FilterByBudget(d.store.Products(), c.Budget))
}

func (d *Dispatcher) addToCart(c classifier.Classification) Reply {
	if c.Err != nil || c.Product == nil {
		return TextReply(reply.ProductNotFound)
	}

	line, err := d.store.AddToCart(c.Product.ID)
	switch {
	case err == nil:
		d.logger.Info("added to cart",
			zap.Int64("product_id", line.ProductID),
			zap.Int64("price", line.Price))
		return TextReply(reply.Added(line))
	case errors.Is(err, store.ErrOutOfStock):
		return TextReply(reply.OutOfStock)
	case errors.Is(err, store.ErrProductNotFound):
		return TextReply(reply.ProductNotFound)
	default:
		d.logger.Error("add to cart failed", zap.Error(err))
		return TextReply(reply.Unknown)
	}
}

func (d *Dispatcher) checkout(ctx context.Context) Reply {
	order, err := d.store.Checkout()
	if errors.Is(err, store.ErrEmptyCart) {
		return TextReply(reply.EmptyCart)
	}
	if err != nil {
		d.logger.Error("checkout failed", zap.Error(err))
		return TextReply(reply.Unknown)
	}

	d.logger.Info("order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.Int64("total", order.TotalPrice))

	// the cart is already empty here; a failed notification must not affect the reply
	if errNotify := d.notifier.OrderConfirmed(context.WithoutCancel(ctx), order); errNotify != nil {
		d.logger.Warn("order notification failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(errNotify))
	}

	return TextReply(reply.OrderConfirmed(order))
}

func (d *Dispatcher) unknown(ctx context.Context, msg string) Reply {
	text, err := d.fallback.Reply(ctx, msg)
	if err != nil {
		if !errors.Is(err, fallback.ErrUnavailable) {
			d.logger.Warn("fallback returned unexpected error", zap.Error(err))
		} else {
			d.logger.Debug("fallback unavailable", zap.Error(err))
		}
		return TextReply(reply.Unknown)
	}
	return TextReply(text)
}
