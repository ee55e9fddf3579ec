package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sokoni-online/cart-api/cart"
	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/models"
	"github.com/sokoni-online/cart-api/store"
)

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartKey pulls the session's cart key set by the JWT middleware.
func cartKey(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	key, ok := v.(string)
	if !ok || key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return key, true
}

// loadCart opens the caller's cart, creating it on first touch.
func loadCart(c *gin.Context, st store.SnapshotStore, log *logger.Logger) (*cart.Cart, bool) {
	key, ok := cartKey(c)
	if !ok {
		return nil, false
	}
	sess, err := cart.Load(c.Request.Context(), st, key, nil, transitionHooks(key, log))
	if err != nil {
		log.Error("cart load failed", "cart", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return nil, false
	}
	return sess, true
}

// transitionHooks logs each completed transition for the cart.
func transitionHooks(key string, log *logger.Logger) cart.Hooks {
	l := log.With("cart", key)
	return cart.Hooks{
		OnItemAdd: func(it models.Item) {
			l.Info("cart item added", "sku", it.SKU, "quantity", it.Quantity)
		},
		OnItemUpdate: func(it models.Item) {
			l.Info("cart item updated", "sku", it.SKU, "quantity", it.Quantity)
		},
		OnItemRemove: func(sku string) {
			l.Info("cart item removed", "sku", sku)
		},
		OnSetItems: func(items []models.Item) {
			l.Info("cart items replaced", "count", len(items))
		},
		OnEmptyCart: func() {
			l.Info("cart emptied")
		},
		OnMetadataUpdate: func(meta map[string]any) {
			l.Debug("cart metadata updated", "keys", len(meta))
		},
	}
}

// respondCartError maps the cart error taxonomy onto HTTP statuses.
func respondCartError(c *gin.Context, err error) {
	var invalid *cart.InvalidItemError
	switch {
	case errors.Is(err, cart.ErrMissingSKU),
		errors.Is(err, cart.ErrMissingPrice),
		errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}

// GET /cart
func GetCart(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sess.State())
	}
}

// POST /cart/items
func AddCartItem(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}

		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		if err := sess.AddItem(c.Request.Context(), input, quantity); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusCreated, sess.State())
	}
}

// PUT /cart/items
func SetCartItems(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.Item
		if err := c.ShouldBindJSON(&items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.SetItems(c.Request.Context(), items); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// PUT /cart/items/:sku
func UpdateCartItem(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.ItemInput
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.UpdateItem(c.Request.Context(), c.Param("sku"), patch); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// PUT /cart/items/:sku/quantity
func UpdateCartItemQuantity(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.UpdateItemQuantity(c.Request.Context(), c.Param("sku"), *input.Quantity); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// DELETE /cart/items/:sku
func DeleteCartItem(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.RemoveItem(c.Request.Context(), c.Param("sku")); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// GET /cart/items/:sku
func GetCartItem(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		item, found := sess.GetItem(c.Param("sku"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart
func ClearCart(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.EmptyCart(c.Request.Context()); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// PUT /cart/metadata
func SetCartMetadata(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var meta map[string]any
		if err := c.ShouldBindJSON(&meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.SetCartMetadata(c.Request.Context(), meta); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// PATCH /cart/metadata
func UpdateCartMetadata(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var meta map[string]any
		if err := c.ShouldBindJSON(&meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.UpdateCartMetadata(c.Request.Context(), meta); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}

// DELETE /cart/metadata
func ClearCartMetadata(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadCart(c, st, log)
		if !ok {
			return
		}
		if err := sess.ClearCartMetadata(c.Request.Context()); err != nil {
			respondCartError(c, err)
			return
		}

		broadcastCartState(sess.Key(), sess.State())
		c.JSON(http.StatusOK, sess.State())
	}
}
