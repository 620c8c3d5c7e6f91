package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Handler struct {
	secret   string
	tokenTTL time.Duration
}

func NewHandler(secret string, tokenTTL time.Duration) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &Handler{secret: secret, tokenTTL: tokenTTL}
}

// Ping endpoint
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "auth service alive!"})
}

type tokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Token issues a signed bearer token for a known user id. Identity is
// asserted by the front door; this service only needs a stable subject for
// audit entries.
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a UUID"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	})

	signed, err := token.SignedString([]byte(h.secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "expires_at": now.Add(h.tokenTTL)})
}
