package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/sokoni-online/cart-api/controllers/admin"
	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/middleware"
	"github.com/sokoni-online/cart-api/store"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, st store.SnapshotStore, log *logger.Logger) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Cart Management ───────────
		cartAdmin := adminGroup.Group("/carts")
		{
			cartAdmin.GET("", adminController.ListCarts(st, log))
			cartAdmin.DELETE("/:key", adminController.DeleteCart(st, log))
			cartAdmin.GET("/export-excel", adminController.ExportCartsToExcel(st, log))
		}
	}
}
