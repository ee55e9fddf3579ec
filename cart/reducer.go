package cart

import (
	"github.com/sokoni-online/cart-api/models"
)

// ActionType tags a transition request.
type ActionType string

const (
	SetItems           ActionType = "SET_ITEMS"
	AddItem            ActionType = "ADD_ITEM"
	UpdateItem         ActionType = "UPDATE_ITEM"
	RemoveItem         ActionType = "REMOVE_ITEM"
	EmptyCart          ActionType = "EMPTY_CART"
	ClearCartMetadata  ActionType = "CLEAR_CART_METADATA"
	SetCartMetadata    ActionType = "SET_CART_METADATA"
	UpdateCartMetadata ActionType = "UPDATE_CART_METADATA"
)

// Action is one transition request. Only the fields relevant to its Type are
// read: Items for SetItems, Item for AddItem, SKU (and Patch) for
// UpdateItem/RemoveItem, Metadata for the metadata actions.
type Action struct {
	Type     ActionType
	Items    []models.Item
	Item     models.Item
	SKU      string
	Patch    models.ItemInput
	Metadata map[string]any
}

// Reduce applies one action to a state and returns the next state. It is a
// closed function over (state, action): no I/O, no retained references, and
// the input state is never modified. Preconditions (duplicate skus, existing
// skus for updates) are the caller's job; absent skus on UpdateItem and
// RemoveItem are silent no-ops.
func Reduce(state models.CartState, action Action) (models.CartState, error) {
	switch action.Type {
	case SetItems:
		return DeriveState(state, action.Items)

	case AddItem:
		items := append(models.CloneItems(state.Items), action.Item)
		return DeriveState(state, items)

	case UpdateItem:
		items := models.CloneItems(state.Items)
		for i := range items {
			if items[i].SKU == action.SKU {
				items[i] = applyPatch(items[i], action.Patch)
				break
			}
		}
		return DeriveState(state, items)

	case RemoveItem:
		items := make([]models.Item, 0, len(state.Items))
		for _, it := range state.Items {
			if it.SKU != action.SKU {
				items = append(items, it)
			}
		}
		return DeriveState(state, items)

	case EmptyCart:
		// Full reset: id and metadata go too.
		return models.EmptyState(), nil

	case ClearCartMetadata:
		next := state
		next.Items = models.CloneItems(state.Items)
		next.Metadata = map[string]any{}
		return next, nil

	case SetCartMetadata:
		next := state
		next.Items = models.CloneItems(state.Items)
		next.Metadata = cloneMetadata(action.Metadata)
		return next, nil

	case UpdateCartMetadata:
		next := state
		next.Items = models.CloneItems(state.Items)
		merged := cloneMetadata(state.Metadata)
		for k, v := range action.Metadata {
			merged[k] = v
		}
		next.Metadata = merged
		return next, nil

	default:
		return models.CartState{}, &UnknownActionError{Type: action.Type}
	}
}

// applyPatch shallow-merges a patch over an item: only fields the patch
// carries are replaced, attributes merge key by key.
func applyPatch(it models.Item, patch models.ItemInput) models.Item {
	if patch.SKU != "" {
		it.SKU = patch.SKU
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.DiscountPrice != nil {
		it.DiscountPrice = *patch.DiscountPrice
	}
	if len(patch.Attributes) > 0 {
		if it.Attributes == nil {
			it.Attributes = make(map[string]any, len(patch.Attributes))
		}
		for k, v := range patch.Attributes {
			it.Attributes[k] = v
		}
	}
	return it
}
