package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xniffing/horario-joao/pkg/database"
)

// GetUsage returns the last 30 days of solve counters
func (h *Handler) GetUsage(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage tracking is not configured"})
		return
	}

	var usage []database.SolveUsage
	if err := h.DB.Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	// Calculate totals
	var requests, solved, infeasible, aborted, rejected, nodes int64
	for _, u := range usage {
		requests += int64(u.Requests)
		solved += int64(u.Solved)
		infeasible += int64(u.Infeasible)
		aborted += int64(u.Aborted)
		rejected += int64(u.Rejected)
		nodes += u.TotalNodes
	}

	c.JSON(http.StatusOK, gin.H{
		"usage_history": usage,
		"totals": gin.H{
			"requests":    requests,
			"solved":      solved,
			"infeasible":  infeasible,
			"aborted":     aborted,
			"rejected":    rejected,
			"total_nodes": nodes,
		},
	})
}
