package middleware

import (
	"net/http"
	"strings"

	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// Roles the token can carry.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

// CustomerAuthMiddleware authenticates a customer token and stores the
// customer id on the context.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return requireRole(RoleCustomer, "customerID")
}

// ProviderAuthMiddleware authenticates a provider token and stores the
// provider id on the context.
func ProviderAuthMiddleware() gin.HandlerFunc {
	return requireRole(RoleProvider, "providerID")
}

func requireRole(role, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token."})
			return
		}

		subject, tokenRole, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token."})
			return
		}
		if tokenRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token role not permitted here."})
			return
		}

		c.Set(contextKey, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
