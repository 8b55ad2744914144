package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tractionlab/api/apperrors"
	"tractionlab/api/logger"
	"tractionlab/api/models"
	"tractionlab/api/store"
	"tractionlab/api/utils"
)

type TrackHandlers struct {
	LeadStore      *store.LeadStore
	AnalyticsStore *store.AnalyticsStore
	logger         *slog.Logger
}

func NewTrackHandlers(leads *store.LeadStore, analytics *store.AnalyticsStore) *TrackHandlers {
	return &TrackHandlers{
		LeadStore:      leads,
		AnalyticsStore: analytics,
		logger:         logger.WithComponent("track-handlers"),
	}
}

// Interest increments the shared interest counter.
func (h *TrackHandlers) Interest(c *gin.Context) {
	count, err := h.LeadStore.RecordInterest()
	if err != nil {
		h.logger.Error("failed to record interest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record interest"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// EarlyAccess captures a lead from {"email": ..., "consent": ...}. Fields are
// read leniently: email is taken as text and any truthy consent value counts.
// A body that is not a JSON object is treated as empty.
func (h *TrackHandlers) EarlyAccess(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Debug("early-access body not parsed", "error", err)
		body = nil
	}
	req := models.EarlyAccessRequest{
		Email:   utils.LooseString(body["email"]),
		Consent: utils.Truthy(body["consent"]),
	}

	total, err := h.LeadStore.CreateLead(req, c.GetHeader("User-Agent"))
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to create lead", "error", err)
		}
		c.JSON(status, gin.H{"ok": false, "error": apperrors.Code(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "count": total})
}

// Metrics returns per-page view counters plus the global click counter:
// {"main": {"views_total": 10, "views_unique": 7}, ..., "clicks": 8}.
func (h *TrackHandlers) Metrics(c *gin.Context) {
	snap, err := h.AnalyticsStore.GetMetrics()
	if err != nil {
		h.logger.Error("failed to read metrics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read metrics"})
		return
	}

	result := gin.H{}
	for _, p := range snap.Pages {
		result[p.Page] = p.PageMetrics
	}
	result["clicks"] = snap.Clicks
	c.JSON(http.StatusOK, result)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
