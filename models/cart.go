package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Item is a single line entry in a cart. Quantity, DiscountPrice and the
// derived ItemTotal are the fields the cart engine computes with; anything
// else the caller sends rides along in Attributes untouched.
type Item struct {
	SKU           string         `json:"sku"`
	Quantity      int            `json:"quantity"`
	DiscountPrice float64        `json:"discount_price"`
	ItemTotal     float64        `json:"itemTotal"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// Clone returns a copy of the item with its own attributes map.
func (i Item) Clone() Item {
	out := i
	if i.Attributes != nil {
		out.Attributes = make(map[string]any, len(i.Attributes))
		for k, v := range i.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// CloneItems copies a slice of items, attributes included.
func CloneItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}

// ItemInput is the caller-facing shape for add and update calls. Pointer
// fields distinguish "not sent" from a zero value, so a patch only touches
// the fields it carries.
type ItemInput struct {
	SKU           string         `json:"sku"`
	Quantity      *int           `json:"quantity,omitempty"`
	DiscountPrice *float64       `json:"discount_price,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// IsZero reports whether the input carries nothing to apply.
func (in ItemInput) IsZero() bool {
	return in.Quantity == nil && in.DiscountPrice == nil && len(in.Attributes) == 0
}

// CartState is the full cart snapshot. TotalUniqueItems, TotalItems,
// CartTotal and IsEmpty are derived from Items and are never set directly.
type CartState struct {
	ID               string         `json:"id"`
	Items            []Item         `json:"items"`
	TotalUniqueItems int            `json:"totalUniqueItems"`
	TotalItems       int            `json:"totalItems"`
	CartTotal        float64        `json:"cartTotal"`
	IsEmpty          bool           `json:"isEmpty"`
	Metadata         map[string]any `json:"metadata"`
}

// EmptyState is the canonical empty cart: no items, zeroed aggregates, blank
// id and metadata.
func EmptyState() CartState {
	return CartState{
		Items:    []Item{},
		IsEmpty:  true,
		Metadata: map[string]any{},
	}
}

// NewCartState builds the starting snapshot for a new cart. A blank id gets
// a generated one; the id then stays stable for the cart's lifetime.
func NewCartState(id string) CartState {
	if id == "" {
		id = "cart_" + uuid.NewString()
	}
	state := EmptyState()
	state.ID = id
	return state
}

// Item returns the line entry matching sku, if present.
func (s CartState) Item(sku string) (Item, bool) {
	for _, it := range s.Items {
		if it.SKU == sku {
			return it, true
		}
	}
	return Item{}, false
}

// InCart reports whether an item with the given sku is in the cart.
func (s CartState) InCart(sku string) bool {
	_, ok := s.Item(sku)
	return ok
}

// Snapshot serializes the state for the snapshot store.
func (s CartState) Snapshot() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CartStateFromSnapshot parses a stored snapshot back into a CartState.
func CartStateFromSnapshot(snapshot string) (CartState, error) {
	var state CartState
	if err := json.Unmarshal([]byte(snapshot), &state); err != nil {
		return CartState{}, err
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	if state.Metadata == nil {
		state.Metadata = map[string]any{}
	}
	return state, nil
}
