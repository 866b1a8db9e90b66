package handler

import (
	"github.com/gin-gonic/gin"

	"khushi/internal/service"
)

// StatsHandler handles fee statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetFeeStats handles GET /api/v1/fee-stats?class_id=
func (h *StatsHandler) GetFeeStats(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseOptionalUUIDQuery(c, "class_id")
	if !ok {
		return
	}

	stats, err := h.statsService.GetFeeStats(c.Request.Context(), tenantID, classID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
