package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sokoni-online/cart-api/models"
	"github.com/sokoni-online/cart-api/store"
)

// Hooks are optional notification callbacks, invoked after a transition has
// been applied and persisted, with the payload relevant to the operation.
// Nil hooks are skipped.
type Hooks struct {
	OnItemAdd        func(models.Item)
	OnItemUpdate     func(models.Item)
	OnItemRemove     func(sku string)
	OnSetItems       func([]models.Item)
	OnEmptyCart      func()
	OnMetadataUpdate func(map[string]any)
}

// Cart owns one cart's current state and runs every mutation through the
// reducer, snapshotting to the store after each transition. It is not safe
// for concurrent use; the HTTP layer loads one handle per request.
type Cart struct {
	key   string
	state models.CartState
	store store.SnapshotStore
	hooks Hooks
}

// Load opens the cart stored under key, creating it when absent. A fresh
// cart gets a generated id and the supplied default items (quantity
// defaulted to 1) and is persisted immediately. Aggregates are re-derived
// from the stored item list, so a snapshot can never carry stale totals.
func Load(ctx context.Context, st store.SnapshotStore, key string, defaults []models.Item, hooks Hooks) (*Cart, error) {
	c := &Cart{key: key, store: st, hooks: hooks}

	snap, err := st.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		state, err := DeriveState(models.NewCartState(""), defaultQuantities(defaults))
		if err != nil {
			return nil, err
		}
		c.state = state
		if err := c.persist(ctx, state); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	stored, err := models.CartStateFromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("cart %q: %w", key, err)
	}
	state, err := DeriveState(stored, stored.Items)
	if err != nil {
		return nil, fmt.Errorf("cart %q: %w", key, err)
	}
	c.state = state
	return c, nil
}

// Key returns the storage key the cart is persisted under.
func (c *Cart) Key() string { return c.key }

// State returns the current snapshot. Transitions never mutate a state in
// place, so the returned value stays stable while new transitions run.
func (c *Cart) State() models.CartState { return c.state }

// GetItem returns the line entry for sku, if present.
func (c *Cart) GetItem(sku string) (models.Item, bool) { return c.state.Item(sku) }

// InCart reports whether sku is currently in the cart.
func (c *Cart) InCart(sku string) bool { return c.state.InCart(sku) }

// AddItem adds quantity units of the given item. Adding a sku already in
// the cart merges: the existing entry's quantity grows by quantity and any
// other supplied fields are patched over it. A quantity of zero or less is
// a no-op. New items must carry a discount_price.
func (c *Cart) AddItem(ctx context.Context, in models.ItemInput, quantity int) error {
	if in.SKU == "" {
		return ErrMissingSKU
	}
	if quantity <= 0 {
		return nil
	}

	existing, ok := c.state.Item(in.SKU)
	if !ok {
		if in.DiscountPrice == nil {
			return fmt.Errorf("%w: %q", ErrMissingPrice, in.SKU)
		}
		item := models.Item{
			SKU:           in.SKU,
			Quantity:      quantity,
			DiscountPrice: *in.DiscountPrice,
			Attributes:    in.Attributes,
		}
		next, err := Reduce(c.state, Action{Type: AddItem, Item: item})
		if err != nil {
			return err
		}
		if err := c.commit(ctx, next); err != nil {
			return err
		}
		if c.hooks.OnItemAdd != nil {
			if added, ok := next.Item(in.SKU); ok {
				c.hooks.OnItemAdd(added)
			}
		}
		return nil
	}

	merged := existing.Quantity + quantity
	patch := in
	patch.Quantity = &merged
	next, err := Reduce(c.state, Action{Type: UpdateItem, SKU: in.SKU, Patch: patch})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnItemUpdate != nil {
		if updated, ok := next.Item(in.SKU); ok {
			c.hooks.OnItemUpdate(updated)
		}
	}
	return nil
}

// UpdateItemQuantity sets the quantity for an existing sku. Zero or
// negative quantities are deletion intent and remove the item instead.
func (c *Cart) UpdateItemQuantity(ctx context.Context, sku string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, sku)
	}
	if !c.state.InCart(sku) {
		return fmt.Errorf("%w: %q", ErrItemNotFound, sku)
	}

	q := quantity
	next, err := Reduce(c.state, Action{Type: UpdateItem, SKU: sku, Patch: models.ItemInput{Quantity: &q}})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnItemUpdate != nil {
		if updated, ok := next.Item(sku); ok {
			c.hooks.OnItemUpdate(updated)
		}
	}
	return nil
}

// UpdateItem shallow-merges a patch over the item matching sku. An empty
// sku or empty patch is a no-op, and so is patching an absent sku.
func (c *Cart) UpdateItem(ctx context.Context, sku string, patch models.ItemInput) error {
	if sku == "" || patch.IsZero() {
		return nil
	}
	next, err := Reduce(c.state, Action{Type: UpdateItem, SKU: sku, Patch: patch})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnItemUpdate != nil {
		if updated, ok := next.Item(sku); ok {
			c.hooks.OnItemUpdate(updated)
		}
	}
	return nil
}

// RemoveItem drops the item matching sku. Removing an absent or empty sku
// is a no-op, not an error.
func (c *Cart) RemoveItem(ctx context.Context, sku string) error {
	if sku == "" {
		return nil
	}
	present := c.state.InCart(sku)
	next, err := Reduce(c.state, Action{Type: RemoveItem, SKU: sku})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if present && c.hooks.OnItemRemove != nil {
		c.hooks.OnItemRemove(sku)
	}
	return nil
}

// SetItems replaces the whole item collection. Items without a quantity
// default to 1.
func (c *Cart) SetItems(ctx context.Context, items []models.Item) error {
	next, err := Reduce(c.state, Action{Type: SetItems, Items: defaultQuantities(items)})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnSetItems != nil {
		c.hooks.OnSetItems(next.Items)
	}
	return nil
}

// EmptyCart resets the cart to the canonical empty state. The id and any
// metadata are discarded along with the items.
func (c *Cart) EmptyCart(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Type: EmptyCart})
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnEmptyCart != nil {
		c.hooks.OnEmptyCart()
	}
	return nil
}

// ClearCartMetadata empties the metadata map. Items and aggregates are
// untouched.
func (c *Cart) ClearCartMetadata(ctx context.Context) error {
	return c.metadataAction(ctx, Action{Type: ClearCartMetadata})
}

// SetCartMetadata replaces the metadata map wholesale.
func (c *Cart) SetCartMetadata(ctx context.Context, meta map[string]any) error {
	return c.metadataAction(ctx, Action{Type: SetCartMetadata, Metadata: meta})
}

// UpdateCartMetadata shallow-merges meta over the existing metadata.
func (c *Cart) UpdateCartMetadata(ctx context.Context, meta map[string]any) error {
	return c.metadataAction(ctx, Action{Type: UpdateCartMetadata, Metadata: meta})
}

func (c *Cart) metadataAction(ctx context.Context, action Action) error {
	next, err := Reduce(c.state, action)
	if err != nil {
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.hooks.OnMetadataUpdate != nil {
		c.hooks.OnMetadataUpdate(next.Metadata)
	}
	return nil
}

// commit persists the next state and swaps it in. On a store failure the
// current state is left untouched, so a failed call never half-applies.
func (c *Cart) commit(ctx context.Context, next models.CartState) error {
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Cart) persist(ctx context.Context, state models.CartState) error {
	snap, err := state.Snapshot()
	if err != nil {
		return err
	}
	return c.store.Save(ctx, c.key, snap)
}

// defaultQuantities copies items, defaulting a missing quantity to 1.
func defaultQuantities(items []models.Item) []models.Item {
	out := models.CloneItems(items)
	for i := range out {
		if out[i].Quantity == 0 {
			out[i].Quantity = 1
		}
	}
	return out
}
