package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSKU is returned when an add call carries no sku.
	ErrMissingSKU = errors.New("cart: item has no sku")
	// ErrMissingPrice is returned when an item not already in the cart is
	// added without a discount_price.
	ErrMissingPrice = errors.New("cart: new item has no discount_price")
	// ErrItemNotFound is returned by quantity updates on an absent sku.
	ErrItemNotFound = errors.New("cart: item not found")
)

// InvalidItemError reports an item the aggregate computation cannot price.
type InvalidItemError struct {
	SKU    string
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("cart: invalid item %q: %s", e.SKU, e.Reason)
}

// UnknownActionError reports an action type outside the reducer's taxonomy.
type UnknownActionError struct {
	Type ActionType
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("cart: unknown action %q", string(e.Type))
}
