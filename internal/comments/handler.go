package comments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/appeals/:id/comments", h.addComment)
	router.GET("/appeals/:id/comments", h.listComments)
	router.DELETE("/comments/:commentId", h.deleteComment)
}

func (h *Handler) addComment(c *gin.Context) {
	appealID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appeal ID"})
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), appealID, h.getUserID(c), req)
	if err != nil {
		h.logger.Error("Failed to add comment", zap.Error(err), zap.Int64("appeal_id", appealID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) listComments(c *gin.Context) {
	appealID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appeal ID"})
		return
	}

	list, err := h.service.ListComments(c.Request.Context(), appealID)
	if err != nil {
		h.logger.Error("Failed to list comments", zap.Error(err), zap.Int64("appeal_id", appealID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("commentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), id, h.getUserID(c)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrCommentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) getUserID(c *gin.Context) uuid.UUID {
	if raw, exists := c.Get("user_id"); exists {
		if id, err := uuid.Parse(raw.(string)); err == nil {
			return id
		}
	}
	return uuid.Nil
}
