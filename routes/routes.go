package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/store"
)

// SetupRoutes is the single entry‐point that wires up Auth, Cart, and Admin route groups.
func SetupRoutes(r *gin.Engine, st store.SnapshotStore, log *logger.Logger) {
	// Public Auth routes (no middleware)
	SetupAuthRoutes(r, st)

	// Cart routes (JWT‐protected)
	SetupCartRoutes(r, st, log)

	// Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, st, log)
}
