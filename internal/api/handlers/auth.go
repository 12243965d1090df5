package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the customer profile
type AuthResponse struct {
	Token    string           `json:"token"`
	Customer CustomerResponse `json:"customer"`
}

type CustomerResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// HandleRegister handles POST /v1/auth/register
func HandleRegister(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		customer := &domain.Customer{
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			FullName:     strings.TrimSpace(req.FullName),
			Role:         domain.RoleCustomer,
			IsActive:     true,
		}

		if err := repos.Customer.Create(c.Request.Context(), customer); err != nil {
			respondError(c, logger, err)
			return
		}

		token, err := middleware.IssueToken(cfg, customer)
		if err != nil {
			logger.Error("Failed to issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		logger.Info("Customer registered", zap.String("customer_id", customer.ID.String()))
		c.JSON(http.StatusCreated, AuthResponse{
			Token:    token,
			Customer: toCustomerResponse(customer),
		})
	}
}

// HandleLogin handles POST /v1/auth/login
func HandleLogin(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		customer, err := repos.Customer.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, logger, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !customer.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account is inactive"})
			return
		}

		token, err := middleware.IssueToken(cfg, customer)
		if err != nil {
			logger.Error("Failed to issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Token:    token,
			Customer: toCustomerResponse(customer),
		})
	}
}

// HandleGetProfile handles GET /v1/me
func HandleGetProfile(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		customer, err := repos.Customer.GetByID(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCustomerResponse(customer))
	}
}

func toCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:       customer.ID.String(),
		Email:    customer.Email,
		FullName: customer.FullName,
		Role:     string(customer.Role),
	}
}
