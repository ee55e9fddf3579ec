package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sokoni-online/cart-api/cart"
	"github.com/sokoni-online/cart-api/store"
)

// POST /auth/guest
//
// CreateGuestSession issues a 24h guest token and seeds an empty cart
// snapshot under the guest id, so the first cart read never misses.
func CreateGuestSession(st store.SnapshotStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + generateRandomString(16)
		expiresAt := time.Now().Add(24 * time.Hour)

		if _, err := cart.Load(c.Request.Context(), st, guestID, nil, cart.Hooks{}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest cart"})
			return
		}

		token, err := issueGuestToken(guestID, expiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}

func issueGuestToken(id string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    "guest",
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
