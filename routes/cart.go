package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/sokoni-online/cart-api/controllers/cart"
	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/middleware"
	"github.com/sokoni-online/cart-api/store"
)

// SetupCartRoutes registers all “/cart/*” endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, st store.SnapshotStore, log *logger.Logger) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Cart State ────────────────
		cartGroup.GET("", cartControllers.GetCart(st, log))      // GET /cart
		cartGroup.DELETE("", cartControllers.ClearCart(st, log)) // DELETE /cart
		cartGroup.GET("/ws", cartControllers.CartWebSocketHandler)

		// ──────────────── Line Items ────────────────
		itemGroup := cartGroup.Group("/items")
		{
			itemGroup.POST("", cartControllers.AddCartItem(st, log))                          // POST /cart/items
			itemGroup.PUT("", cartControllers.SetCartItems(st, log))                          // PUT /cart/items
			itemGroup.GET("/:sku", cartControllers.GetCartItem(st, log))                      // GET /cart/items/:sku
			itemGroup.PUT("/:sku", cartControllers.UpdateCartItem(st, log))                   // PUT /cart/items/:sku
			itemGroup.PUT("/:sku/quantity", cartControllers.UpdateCartItemQuantity(st, log))  // PUT /cart/items/:sku/quantity
			itemGroup.DELETE("/:sku", cartControllers.DeleteCartItem(st, log))                // DELETE /cart/items/:sku
		}

		// ──────────────── Metadata ────────────────
		metaGroup := cartGroup.Group("/metadata")
		{
			metaGroup.PUT("", cartControllers.SetCartMetadata(st, log))      // PUT /cart/metadata
			metaGroup.PATCH("", cartControllers.UpdateCartMetadata(st, log)) // PATCH /cart/metadata
			metaGroup.DELETE("", cartControllers.ClearCartMetadata(st, log)) // DELETE /cart/metadata
		}
	}
}
