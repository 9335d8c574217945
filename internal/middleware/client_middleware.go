package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ClientIDHeader carries the anonymous storefront client identity.
	ClientIDHeader = "X-Client-ID"

	clientIDContextKey = "client_id"
)

// ClientIDMiddleware resolves the anonymous client identity for cart and
// notification scoping. Carts are keyed by this ID, not by user accounts.
// When the caller sends no ID a fresh one is minted and echoed back so the
// storefront can persist it.
func ClientIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(ClientIDHeader)
		if clientID == "" {
			if cookie, err := c.Cookie("bnb_client_id"); err == nil {
				clientID = cookie
			}
		}
		if clientID == "" || uuid.Validate(clientID) != nil {
			clientID = uuid.NewString()
		}

		c.Set(clientIDContextKey, clientID)
		c.Header(ClientIDHeader, clientID)
		c.Next()
	}
}

// GetClientID retrieves the client identity resolved by ClientIDMiddleware.
func GetClientID(c *gin.Context) string {
	return c.GetString(clientIDContextKey)
}
