package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountIDHeader carries the calling account's ID, set by the API gateway
// after it has authenticated the caller.
const AccountIDHeader = "X-Account-ID"

// IdentityMiddleware reads the gateway-supplied account ID header and stores
// it in the context for handlers and services. Requests without the header
// are rejected before they reach any handler.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader(AccountIDHeader)
		if accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + AccountIDHeader + " header"})
			return
		}

		c.Set(string(accountIDKey), accountID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), accountIDKey, accountID))

		c.Next()
	}
}
