package questionnaires

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"appeals-portal/appeals-casework-backend/internal/appeals"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	q := router.Group("/appeals/:id/questionnaire")
	{
		q.POST("", h.openQuestionnaire)
		q.GET("", h.getQuestionnaire)
		q.PUT("", h.submitAnswers)
		q.POST("/review", h.review)
	}
}

func (h *Handler) openQuestionnaire(c *gin.Context) {
	id, ok := h.getAppealID(c)
	if !ok {
		return
	}

	q, err := h.service.OpenQuestionnaire(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to open questionnaire", zap.Error(err), zap.Int64("appeal_id", id))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, q)
}

func (h *Handler) getQuestionnaire(c *gin.Context) {
	id, ok := h.getAppealID(c)
	if !ok {
		return
	}

	q, err := h.service.GetQuestionnaire(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, q)
}

func (h *Handler) submitAnswers(c *gin.Context) {
	id, ok := h.getAppealID(c)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.service.SubmitAnswers(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Error("Failed to submit questionnaire", zap.Error(err), zap.Int64("appeal_id", id))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, q)
}

func (h *Handler) review(c *gin.Context) {
	id, ok := h.getAppealID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Review(c.Request.Context(), id, h.getUserID(c), req)
	if err != nil {
		h.logger.Error("Failed to review questionnaire", zap.Error(err), zap.Int64("appeal_id", id))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrQuestionnaireNotFound), errors.Is(err, appeals.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrNotSubmitted),
		errors.Is(err, appeals.ErrMissingFields):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) getAppealID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appeal ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) getUserID(c *gin.Context) uuid.UUID {
	if raw, exists := c.Get("user_id"); exists {
		if id, err := uuid.Parse(raw.(string)); err == nil {
			return id
		}
	}
	return uuid.Nil
}
