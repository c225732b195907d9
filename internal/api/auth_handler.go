package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

type AuthHandler struct {
	authService *auth.Service
	development bool
}

func NewAuthHandler(authService *auth.Service, development bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		development: development,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	response, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		case errors.Is(err, auth.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must contain at least 6 characters"})
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Profile echoes the identity claims carried by the verified token.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	tokenClaims := claims.(*auth.Claims)

	c.JSON(http.StatusOK, gin.H{
		"user": models.PublicUser{
			ID:       tokenClaims.UserID,
			Email:    tokenClaims.Email,
			Username: tokenClaims.Username,
			Role:     tokenClaims.Role,
		},
	})
}

func (h *AuthHandler) internalError(c *gin.Context, err error) {
	body := gin.H{"error": "Internal server error"}
	if h.development {
		body["message"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
