package assistant

import (
	"encoding/json"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
)

// Reply is either a text message or a list of products.
// It marshals to a JSON string or a JSON array accordingly.
type Reply struct {
	Text     string
	Products []domain.Product
}

func TextReply(text string) Reply {
	return Reply{Text: text}
}

func ProductsReply(products []domain.Product) Reply {
	if products == nil {
		products = []domain.Product{}
	}
	return Reply{Products: products}
}

// IsList reports whether the reply carries products rather than text
func (r Reply) IsList() bool {
	return r.Products != nil
}

func (r Reply) MarshalJSON() ([]byte, error) {
	if r.IsList() {
		return json.Marshal(r.Products)
	}
	return json.Marshal(r.Text)
}
