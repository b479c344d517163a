package cart

import (
	"encoding/json"

	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
)

// CartView is the read model returned by every cart endpoint.
type CartView struct {
	Items       []cartsvc.LineItem `json:"items"`
	TotalAmount int                `json:"total_amount"`
	Subtotal    json.Number        `json:"subtotal"`
}

func newCartView(c cartsvc.Cart) CartView {
	items := c.Items()
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return CartView{
		Items:       items,
		TotalAmount: c.TotalAmount(),
		Subtotal:    json.Number(c.Subtotal().String()),
	}
}

// NotificationsView lists the drained failure messages for a session.
type NotificationsView struct {
	Items []cartsvc.Notification `json:"items"`
}
