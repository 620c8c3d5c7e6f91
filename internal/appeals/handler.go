package appeals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

// Handler handles HTTP requests for appeal cases
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers appeal case routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	appeals := router.Group("/appeals")
	{
		appeals.POST("", h.createCase)
		appeals.GET("", h.listCases)
		appeals.GET("/:id", h.getCase)
		appeals.POST("/:id/links", h.linkCase)

		appeals.POST("/:id/validation", h.recordValidationOutcome)
		appeals.POST("/:id/transition", h.applyTrigger)

		appeals.GET("/:id/progress", h.progress)
		appeals.GET("/:id/audit", h.auditTrail)
	}
}

// createCase handles POST /api/v1/appeals
func (h *Handler) createCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kase, err := h.service.CreateCase(c.Request.Context(), req, h.getUserID(c))
	if err != nil {
		h.logger.Error("Failed to create case", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, kase)
}

// listCases handles GET /api/v1/appeals
func (h *Handler) listCases(c *gin.Context) {
	filter := CaseFilter{
		Limit:  h.getIntParam(c, "limit", 50),
		Offset: h.getIntParam(c, "offset", 0),
	}
	if at := c.Query("appeal_type"); at != "" {
		t := workflows.AppealType(at)
		filter.AppealType = &t
	}
	if st := c.Query("status"); st != "" {
		s := workflows.Status(st)
		filter.Status = &s
	}

	cases, err := h.service.ListCases(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list cases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cases)
}

// getCase handles GET /api/v1/appeals/:id
func (h *Handler) getCase(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}

	kase, err := h.service.GetCase(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, kase)
}

type linkRequest struct {
	ChildID int64 `json:"child_id" binding:"required"`
}

// linkCase handles POST /api/v1/appeals/:id/links
func (h *Handler) linkCase(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.LinkCases(c.Request.Context(), id, req.ChildID, h.getUserID(c)); err != nil {
		h.logger.Error("Failed to link cases", zap.Error(err), zap.Int64("appeal_id", id))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "linked"})
}

type validationOutcomeRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// recordValidationOutcome handles POST /api/v1/appeals/:id/validation
func (h *Handler) recordValidationOutcome(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}
	var req validationOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger := workflows.Event(req.Outcome)
	switch trigger {
	case workflows.EventValid, workflows.EventInvalid, workflows.EventIncomplete:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be VALID, INVALID or INCOMPLETE"})
		return
	}

	h.transition(c, id, trigger)
}

type triggerRequest struct {
	Trigger string `json:"trigger" binding:"required"`
}

// applyTrigger handles POST /api/v1/appeals/:id/transition
func (h *Handler) applyTrigger(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.transition(c, id, workflows.Event(req.Trigger))
}

func (h *Handler) transition(c *gin.Context, id int64, trigger workflows.Event) {
	result, err := h.service.TransitionState(c.Request.Context(), id, h.getUserID(c), trigger)
	if err != nil {
		h.logger.Error("Failed to transition case",
			zap.Error(err),
			zap.Int64("appeal_id", id),
			zap.String("trigger", string(trigger)))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if !result.Moved {
		h.logger.Debug("Trigger left case in place",
			zap.Int64("appeal_id", id),
			zap.String("trigger", string(trigger)),
			zap.String("status", string(result.From)))
	}

	c.JSON(http.StatusOK, result)
}

// progress handles GET /api/v1/appeals/:id/progress
func (h *Handler) progress(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}

	entries, err := h.service.Progress(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// auditTrail handles GET /api/v1/appeals/:id/audit
func (h *Handler) auditTrail(c *gin.Context) {
	id, ok := h.getCaseID(c)
	if !ok {
		return
	}

	entries, err := h.service.AuditTrail(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrStaleStatus):
		return http.StatusConflict
	case errors.Is(err, workflows.ErrProcedureRequired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) getCaseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appeal ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) getUserID(c *gin.Context) uuid.UUID {
	// Set by the auth middleware.
	if raw, exists := c.Get("user_id"); exists {
		if id, err := uuid.Parse(raw.(string)); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func (h *Handler) getIntParam(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
