package cart

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem pairs a product with the requested quantity.
type LineItem struct {
	Product
	Amount int
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	fields := li.Product.fields()
	fields["amount"] = li.Amount
	return json.Marshal(fields)
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var product Product
	if err := product.UnmarshalJSON(data); err != nil {
		return err
	}
	var amount struct {
		Amount int `json:"amount"`
	}
	if err := json.Unmarshal(data, &amount); err != nil {
		return err
	}
	if product.ID <= 0 {
		return fmt.Errorf("line item: invalid product id %d", product.ID)
	}
	if amount.Amount <= 0 {
		return fmt.Errorf("line item %d: amount must be positive, got %d", product.ID, amount.Amount)
	}
	delete(product.Extra, "amount")
	if len(product.Extra) == 0 {
		product.Extra = nil
	}
	*li = LineItem{Product: product, Amount: amount.Amount}
	return nil
}

// Subtotal is price times amount.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Amount)))
}

// Cart is an immutable ordered collection of line items, at most one per
// product id. Every mutation returns a new Cart; the receiver is untouched.
type Cart struct {
	items []LineItem
}

// NewCart builds a cart from items, keeping the last entry for duplicate ids.
func NewCart(items ...LineItem) Cart {
	var c Cart
	for _, item := range items {
		c = c.without(item.ID).with(item)
	}
	return c
}

// Items returns a copy of the line items in cart order.
func (c Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

func (c Cart) Len() int {
	return len(c.items)
}

// Find returns the line item for productID, if present.
func (c Cart) Find(productID int64) (LineItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// Amount returns the quantity in cart for productID, 0 when absent.
func (c Cart) Amount(productID int64) int {
	item, _ := c.Find(productID)
	return item.Amount
}

// TotalAmount is the number of units across all line items.
func (c Cart) TotalAmount() int {
	total := 0
	for _, item := range c.items {
		total += item.Amount
	}
	return total
}

// Subtotal sums price times amount across all line items.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c Cart) index(productID int64) int {
	return slices.IndexFunc(c.items, func(item LineItem) bool {
		return item.ID == productID
	})
}

func (c Cart) without(productID int64) Cart {
	items := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	return Cart{items: items}
}

func (c Cart) with(item LineItem) Cart {
	items := make([]LineItem, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, item)
	return Cart{items: items}
}

func (c Cart) withAmount(productID int64, amount int) Cart {
	items := slices.Clone(c.items)
	if i := c.index(productID); i >= 0 {
		items[i].Amount = amount
	}
	return Cart{items: items}
}

func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = NewCart(items...)
	return nil
}
