package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
)

const (
	CustomerIDContextKey = "customer_id"
	RoleContextKey       = "role"
)

// AuthMiddleware authenticates requests using a Bearer JWT and stores the
// customer ID and role in the gin context
func AuthMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Failed to validate token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		customerID, err := uuid.Parse(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !domain.Role(role).IsValid() {
			role = string(domain.RoleCustomer)
		}

		c.Set(CustomerIDContextKey, customerID)
		c.Set(RoleContextKey, domain.Role(role))
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok || role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCustomerIDFromContext retrieves the authenticated customer ID
func GetCustomerIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(CustomerIDContextKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// GetRoleFromContext retrieves the authenticated role
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	val, exists := c.Get(RoleContextKey)
	if !exists {
		return "", false
	}
	role, ok := val.(domain.Role)
	return role, ok
}

// IssueToken creates a signed access token for a customer
func IssueToken(cfg *config.Config, customer *domain.Customer) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  customer.ID.String(),
		"role": string(customer.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.JWT.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}
