package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-goals/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
	now func() time.Time
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc, now: time.Now}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/goals/stats", h.GetSummary)
}

// GetSummary godoc
// @Summary Goal counters
// @Description Totals by state and difficulty. Overdue goals are open goals whose deadline has passed.
// @Tags goals
// @Produce json
// @Success 200 {object} domain.GoalStats
// @Failure 500 {object} errorResponse
// @Router /goals/stats [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	stats, err := h.svc.Summary(c.Request.Context(), h.now())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
