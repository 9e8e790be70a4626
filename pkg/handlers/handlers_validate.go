package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xniffing/horario-joao/pkg/calendar"
	"github.com/xniffing/horario-joao/pkg/models"
	"github.com/xniffing/horario-joao/pkg/scheduler"
)

// ValidateInput runs the calendar checks and the feasibility pre-check
// without searching. A failed check is a valid request with valid=false.
func (h *Handler) ValidateInput(c *gin.Context) {
	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	days, err := calendar.BuildMonth(req.Year, req.Month)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	cfg, err := buildConfig(&req)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if err := scheduler.Precheck(cfg); err != nil {
		var ce *scheduler.ConfigError
		if errors.As(err, &ce) {
			c.JSON(http.StatusOK, gin.H{
				"valid": false,
				"code":  ce.Code,
				"error": ce.Reason,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	sundays := 0
	for _, d := range days {
		if d.IsSunday {
			sundays++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"days":    len(days),
			"sundays": sundays,
			"workers": req.Workers,
		},
	})
}
