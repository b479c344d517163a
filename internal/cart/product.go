package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

var productKeys = []string{"id", "title", "price", "image"}

// Product is an immutable catalog record. Catalog fields the cart does not
// interpret are kept in Extra so they survive a storage round-trip.
type Product struct {
	ID    int64           `json:"id" validate:"required,gt=0"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (p Product) fields() map[string]any {
	out := make(map[string]any, len(p.Extra)+len(productKeys))
	for k, v := range p.Extra {
		out[k] = v
	}
	out["id"] = p.ID
	out["title"] = p.Title
	out["price"] = json.Number(p.Price.String())
	out["image"] = p.Image
	return out
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields())
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var known struct {
		ID    int64           `json:"id"`
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
		Image string          `json:"image"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range productKeys {
		delete(raw, key)
	}
	if len(raw) == 0 {
		raw = nil
	}

	*p = Product{
		ID:    known.ID,
		Title: known.Title,
		Price: known.Price,
		Image: known.Image,
		Extra: raw,
	}
	return nil
}

// Stock is the live availability snapshot for a product. A nil Amount means
// the stock service did not report one.
type Stock struct {
	ID     int64 `json:"id"`
	Amount *int  `json:"amount"`
}
