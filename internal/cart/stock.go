package cart

import (
	"context"
	"errors"
)

// StockValidator answers how many units of a product can currently be sold.
// Every call performs a live fetch.
type StockValidator struct {
	stock StockReader
}

func NewStockValidator(stock StockReader) (*StockValidator, error) {
	if stock == nil {
		return nil, errors.New("stock reader required")
	}
	return &StockValidator{stock: stock}, nil
}

// AvailableQuantity returns the non-negative available quantity. A record
// without an amount counts as zero; a failed lookup is returned as an error.
func (v *StockValidator) AvailableQuantity(ctx context.Context, productID int64) (int, error) {
	record, err := v.stock.GetStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	if record == nil || record.Amount == nil || *record.Amount < 0 {
		return 0, nil
	}
	return *record.Amount, nil
}
