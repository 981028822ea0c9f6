package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonUnavailable       Reason = "unavailable"
	ReasonExpired           Reason = "expired"
	ReasonInsufficientStock Reason = "insufficient_stock"
)

// Problem describes one cart line that cannot be purchased. Requested and
// Available are only set for insufficient stock.
type Problem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Reason      Reason `json:"reason"`
	Requested   int32  `json:"requested,omitempty"`
	Available   int32  `json:"available,omitempty"`
}

// StockError carries the full list of failing lines so the UI can show
// exactly which items are the problem.
type StockError struct {
	Problems []Problem
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		switch p.Reason {
		case ReasonInsufficientStock:
			parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", p.ProductID, p.Requested, p.Available))
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", p.ProductID, p.Reason))
		}
	}
	return "unpurchasable items: " + strings.Join(parts, "; ")
}

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("shipping address is required")
	ErrMissingUser    = errors.New("user id is required")
	// ErrCheckoutFailed covers persistence failures; the cart is left intact
	// and the whole checkout can be retried.
	ErrCheckoutFailed = errors.New("checkout failed")
)
