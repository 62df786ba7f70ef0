package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/pkg/response"
)

// AuthHandler exchanges the configured API key for a bearer token.
// The backend is single-tenant, so every token belongs to user 1.
type AuthHandler struct {
	apiKey    string
	jwtSecret string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(apiKey, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		apiKey:    apiKey,
		jwtSecret: jwtSecret,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		response.Unauthorized(c, "Invalid API key")
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, 1)
	if err != nil {
		response.InternalError(c, "Failed to sign token")
		return
	}

	response.Success(c, gin.H{"token": token})
}
