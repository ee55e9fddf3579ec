package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sokoni-online/cart-api/auth"
	"github.com/sokoni-online/cart-api/store"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, st store.SnapshotStore) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", auth.CreateGuestSession(st))
	}
}
