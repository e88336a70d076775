package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/services"
)

const (
	UserContextKey     = "userID"
	UsernameContextKey = "username"
	RoleContextKey     = "role"
)

// Auth validates the bearer token and stashes the caller's identity in the
// request context. Missing or bad tokens abort with 401.
func Auth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(UsernameContextKey, claims.Username)
		c.Set(RoleContextKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates operator endpoints on the role claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleContextKey)
		if !exists || role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller's id from the context.
func GetUserID(c *gin.Context) (primitive.ObjectID, error) {
	val, ok := c.Get(UserContextKey)
	if !ok {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.New("malformed user ID in token")
	}
	return oid, nil
}
