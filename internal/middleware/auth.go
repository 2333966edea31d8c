// Package middleware holds the gin middleware guarding protected routes.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/store"
	"github.com/MrEthical07/goShop/internal/token"
)

const userContextKey = "authUser"

// UserLookup is the slice of the store the route guard needs.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*store.User, error)
}

// ProtectRoute rejects requests without a valid access token cookie and
// loads the authenticated user into the request context.
func ProtectRoute(tokens *token.Manager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := c.Cookie("accessToken")
		if err != nil || access == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - No access token provided"})
			return
		}

		userID, err := tokens.VerifyAccess(access)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - Invalid access token"})
			return
		}

		user, err := users.UserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminRoute allows only admin users through. It must run after
// ProtectRoute.
func AdminRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok || user.Role != store.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied - Admin only"})
			return
		}
		c.Next()
	}
}

// UserFromContext returns the user loaded by ProtectRoute.
func UserFromContext(c *gin.Context) (*store.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*store.User)
	return user, ok
}
