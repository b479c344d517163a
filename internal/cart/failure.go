package cart

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// Kind classifies why a cart operation was rejected.
type Kind string

const (
	KindOutOfStock      Kind = "out_of_stock"
	KindProductNotFound Kind = "product_not_found"
	KindItemNotInCart   Kind = "item_not_in_cart"
	KindRequestFailed   Kind = "request_failed"
)

// Op names the cart operation a failure belongs to.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update_amount"
)

// Notifier messages shown to the shopper.
const (
	MessageOutOfStock   = "Quantidade solicitada fora de estoque"
	MessageAddFailed    = "Erro na adição do produto"
	MessageRemoveFailed = "Erro na remoção do produto"
	MessageUpdateFailed = "Erro na alteração de quantidade do produto"
)

type kindSentinel Kind

func (k kindSentinel) Error() string { return "cart: " + string(k) }

// Sentinels for errors.Is against a *Failure.
var (
	ErrOutOfStock      error = kindSentinel(KindOutOfStock)
	ErrProductNotFound error = kindSentinel(KindProductNotFound)
	ErrItemNotInCart   error = kindSentinel(KindItemNotInCart)
	ErrRequestFailed   error = kindSentinel(KindRequestFailed)
)

// Failure is the typed result of a rejected cart operation. The cart is left
// unchanged whenever one is returned.
type Failure struct {
	Kind      Kind
	Op        Op
	ProductID int64
	err       *pkgerrors.Error
}

func newFailure(kind Kind, op Op, productID int64, cause error) *Failure {
	f := &Failure{Kind: kind, Op: op, ProductID: productID}
	f.err = pkgerrors.Wrap(kind.code(), cause, f.Message()).WithDetails(map[string]any{
		"kind":       string(kind),
		"op":         string(op),
		"product_id": productID,
	})
	return f
}

// Message is the human-readable notifier text. Out-of-stock has its own
// message; every other kind reads as a generic failure of the operation.
func (f *Failure) Message() string {
	if f.Kind == KindOutOfStock {
		return MessageOutOfStock
	}
	switch f.Op {
	case OpRemove:
		return MessageRemoveFailed
	case OpUpdate:
		return MessageUpdateFailed
	default:
		return MessageAddFailed
	}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("cart %s product %d: %s: %v", f.Op, f.ProductID, f.Kind, f.err)
}

func (f *Failure) Unwrap() error {
	return f.err
}

func (f *Failure) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && Kind(k) == f.Kind
}

func (k Kind) code() pkgerrors.Code {
	switch k {
	case KindOutOfStock:
		return pkgerrors.CodeConflict
	case KindProductNotFound, KindItemNotInCart:
		return pkgerrors.CodeNotFound
	default:
		return pkgerrors.CodeDependency
	}
}
