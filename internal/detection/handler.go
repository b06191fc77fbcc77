package detection

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workforce-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the detection engine.
type Handler struct {
	Scheduler *Scheduler
	Repo      Repo
}

// NewHandler constructs a Handler.
func NewHandler(scheduler *Scheduler, repo Repo) *Handler {
	return &Handler{Scheduler: scheduler, Repo: repo}
}

// RegisterRoutes attaches detection routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/detection/run", h.runDetection)
	rg.GET("/detection/status", h.detectionStatus)
	rg.GET("/alerts", h.listAlerts)
	rg.GET("/alerts/:id", h.getAlert)
	rg.PATCH("/alerts/:id", h.updateAlert)
	rg.GET("/alerts/:id/recommendations", h.listRecommendations)
	rg.POST("/alerts/:id/actions", h.createAction)
}

// runDetection accepts a trigger and returns immediately; the pass completes
// in the background and is observable via the status endpoint.
func (h *Handler) runDetection(c *gin.Context) {
	if err := h.Scheduler.TriggerNow(); err != nil {
		if errors.Is(err, ErrPassInFlight) {
			respond.JSON(c, http.StatusAccepted, gin.H{
				"triggered": false,
				"reason":    "pass_in_flight",
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to trigger detection", nil)
		return
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"triggered": true})
}

func (h *Handler) detectionStatus(c *gin.Context) {
	respond.OK(c, h.Scheduler.Status())
}

func (h *Handler) listAlerts(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !ValidStatus(status) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown alert status", nil)
		return
	}

	alerts, err := h.Repo.ListAlerts(c.Request.Context(), status)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list alerts", nil)
		return
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	respond.OK(c, gin.H{"alerts": alerts})
}

func (h *Handler) getAlert(c *gin.Context) {
	alertID := c.Param("id")
	c.Set("alertId", alertID)

	alert, err := h.Repo.GetAlert(c.Request.Context(), alertID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "alert not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch alert", nil)
		}
		return
	}
	respond.OK(c, alert)
}

type updateAlertRequest struct {
	Status string `json:"status"`
}

// updateAlert is the mutation surface used by external collaborators to
// acknowledge, resolve, or dismiss an alert.
func (h *Handler) updateAlert(c *gin.Context) {
	alertID := c.Param("id")
	c.Set("alertId", alertID)

	var req updateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if !ValidStatus(req.Status) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown alert status", nil)
		return
	}

	alert, err := h.Repo.UpdateAlert(c.Request.Context(), alertID, AlertUpdate{Status: &req.Status})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "alert not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update alert", nil)
		}
		return
	}
	respond.OK(c, alert)
}

func (h *Handler) listRecommendations(c *gin.Context) {
	alertID := c.Param("id")
	c.Set("alertId", alertID)

	if _, err := h.Repo.GetAlert(c.Request.Context(), alertID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "alert not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch alert", nil)
		}
		return
	}

	recs, err := h.Repo.ListRecommendations(c.Request.Context(), alertID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recommendations", nil)
		return
	}
	if recs == nil {
		recs = []Recommendation{}
	}
	respond.OK(c, gin.H{"recommendations": recs})
}

type createActionRequest struct {
	RecommendationID string `json:"recommendationId"`
	ActionType       string `json:"actionType"`
	ExecutedBy       string `json:"executedBy"`
	Result           string `json:"result"`
	Notes            string `json:"notes"`
}

// createAction records the audit trail of a remediation executed by an
// out-of-scope executor.
func (h *Handler) createAction(c *gin.Context) {
	alertID := c.Param("id")
	c.Set("alertId", alertID)

	var req createActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.ActionType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "actionType is required", nil)
		return
	}

	if _, err := h.Repo.GetAlert(c.Request.Context(), alertID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "alert not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch alert", nil)
		}
		return
	}

	action := Action{
		ID:               uuid.NewString(),
		AlertID:          alertID,
		RecommendationID: req.RecommendationID,
		ActionType:       req.ActionType,
		ExecutedBy:       req.ExecutedBy,
		Result:           req.Result,
		Notes:            req.Notes,
		ExecutedAt:       time.Now().UTC(),
	}
	if err := h.Repo.CreateAction(c.Request.Context(), action); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record action", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, action)
}
