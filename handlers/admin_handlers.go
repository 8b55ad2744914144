package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tractionlab/api/logger"
	"tractionlab/api/store"
)

type AdminHandlers struct {
	AnalyticsStore *store.AnalyticsStore
	logger         *slog.Logger
}

func NewAdminHandlers(s *store.AnalyticsStore) *AdminHandlers {
	return &AdminHandlers{
		AnalyticsStore: s,
		logger:         logger.WithComponent("admin-handlers"),
	}
}

// Report renders the aggregated admin view; ?format=json returns the same
// report as JSON. There is no access control on this route.
func (h *AdminHandlers) Report(c *gin.Context) {
	report, err := h.AnalyticsStore.GetReport()
	if err != nil {
		h.logger.Error("failed to build admin report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, report)
		return
	}
	c.HTML(http.StatusOK, "admin.html", report)
}
