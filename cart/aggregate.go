package cart

import (
	"math"

	"github.com/sokoni-online/cart-api/models"
)

// DeriveState builds the next snapshot from a candidate item list. Every
// derived field is recomputed as a unit: per-item totals first, then the
// cart-level aggregates. The prior state only contributes its id and
// metadata. Inputs are never mutated; the result is a fresh value with its
// own item slice and maps.
func DeriveState(prior models.CartState, items []models.Item) (models.CartState, error) {
	next := models.CartState{
		ID:       prior.ID,
		Items:    make([]models.Item, 0, len(items)),
		Metadata: cloneMetadata(prior.Metadata),
	}

	var totalItems int
	var cartTotal float64
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return models.CartState{}, err
		}
		it = it.Clone()
		it.ItemTotal = it.DiscountPrice * float64(it.Quantity)
		next.Items = append(next.Items, it)
		totalItems += it.Quantity
		cartTotal += it.ItemTotal
	}

	next.TotalUniqueItems = len(next.Items)
	next.TotalItems = totalItems
	next.CartTotal = cartTotal
	next.IsEmpty = next.TotalUniqueItems == 0
	return next, nil
}

// validateItem rejects items the pricing math cannot hold for. Callers are
// expected to populate sku, quantity and price before reducing, so hitting
// one of these is a programming error upstream.
func validateItem(it models.Item) error {
	if it.SKU == "" {
		return &InvalidItemError{Reason: "missing sku"}
	}
	if it.Quantity < 0 {
		return &InvalidItemError{SKU: it.SKU, Reason: "negative quantity"}
	}
	if math.IsNaN(it.DiscountPrice) || math.IsInf(it.DiscountPrice, 0) {
		return &InvalidItemError{SKU: it.SKU, Reason: "non-numeric discount_price"}
	}
	return nil
}

func cloneMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
