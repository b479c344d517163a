package cart

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// UpdateAmountRequest is the body of PATCH /api/v1/cart/items/{productId}.
// A non-positive amount is accepted and leaves the cart unchanged.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" validate:"required"`
}
