package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xniffing/horario-joao/pkg/calendar"
	"github.com/xniffing/horario-joao/pkg/database"
	"github.com/xniffing/horario-joao/pkg/models"
	"github.com/xniffing/horario-joao/pkg/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSolveTimeout bounds one solve's wall clock unless the request sets
// its own budget.
const DefaultSolveTimeout = 30 * time.Second

// Handler contains dependencies for the route handlers
type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger

	// Search budget defaults; zero values fall back to the engine defaults.
	MaxNodes     int64
	SolveTimeout time.Duration
}

func (h *Handler) logger() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return zap.NewNop()
}

// RequestIDMiddleware tags every request with an id and logs its completion.
func (h *Handler) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		h.logger().Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// BuildRouter wires up the gin engine with all routes.
func BuildRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.RequestIDMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Monthly Rota API",
			"version": "1.2.0",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/schedule", h.Schedule)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetUsage)
	}

	return r
}

var shiftByName = map[string]scheduler.Status{
	"morning":  scheduler.Morning,
	"evening":  scheduler.Evening,
	"night":    scheduler.Night,
	"extended": scheduler.Extended,
}

// buildConfig translates the wire request into an engine configuration.
func buildConfig(req *models.ScheduleRequest) (scheduler.Config, error) {
	cfg := scheduler.Config{
		Workers:                 req.Workers,
		StrictPattern:           req.StrictPattern,
		EnforceShiftConsistency: req.EnforceShiftConsistency,
		MinWorkingDays:          req.MinWorkingDays,
		MaxWorkingDays:          req.MaxWorkingDays,
	}
	if cfg.MinWorkingDays == 0 {
		cfg.MinWorkingDays = 1
	}
	if cfg.MaxWorkingDays == 0 {
		cfg.MaxWorkingDays = 7
	}

	if len(req.CoverageTargets) > 0 {
		cfg.Coverage = make(map[scheduler.Status]scheduler.CoverageTarget, len(req.CoverageTargets))
		for name, t := range req.CoverageTargets {
			s, ok := shiftByName[strings.ToLower(name)]
			if !ok {
				return cfg, fmt.Errorf("unknown shift %q in coverage_targets", name)
			}
			cfg.Coverage[s] = scheduler.CoverageTarget{Min: t.Min, Max: t.Max}
		}
		return cfg, nil
	}

	perShift := req.WorkersPerShift
	if perShift == 0 {
		perShift = 1
	}
	cfg.Coverage = scheduler.UniformCoverage(perShift)
	return cfg, nil
}

// Schedule solves one month and returns the full rota.
func (h *Handler) Schedule(c *gin.Context) {
	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days, err := calendar.BuildMonth(req.Year, req.Month)
	if err != nil {
		h.RecordUsage(models.StatusInvalidCalendar, 0)
		c.JSON(http.StatusBadRequest, models.ScheduleResponse{
			Status: models.StatusInvalidCalendar,
			Year:   req.Year,
			Month:  req.Month,
			Reason: err.Error(),
		})
		return
	}

	cfg, err := buildConfig(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sched, err := scheduler.New(cfg, days)
	if err != nil {
		var ce *scheduler.ConfigError
		if errors.As(err, &ce) {
			h.RecordUsage(models.StatusInfeasibleConfiguration, 0)
			c.JSON(http.StatusUnprocessableEntity, models.ScheduleResponse{
				Status:     models.StatusInfeasibleConfiguration,
				Year:       req.Year,
				Month:      req.Month,
				Reason:     ce.Reason,
				Constraint: string(ce.Code),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeout := h.SolveTimeout
	if timeout <= 0 {
		timeout = DefaultSolveTimeout
	}
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	maxNodes := req.MaxNodes
	if maxNodes <= 0 {
		maxNodes = h.MaxNodes
	}

	sol, err := sched.Solve(ctx, scheduler.Options{MaxNodes: maxNodes})
	if err != nil {
		var infeasible *scheduler.InfeasibilityError
		var aborted *scheduler.AbortError
		switch {
		case errors.As(err, &infeasible):
			h.RecordUsage(models.StatusInfeasible, 0)
			c.JSON(http.StatusUnprocessableEntity, models.ScheduleResponse{
				Status:     models.StatusInfeasible,
				Year:       req.Year,
				Month:      req.Month,
				Reason:     infeasible.Error(),
				Constraint: infeasible.Constraint,
			})
		case errors.As(err, &aborted):
			h.RecordUsage(models.StatusAborted, aborted.Nodes)
			c.JSON(http.StatusUnprocessableEntity, models.ScheduleResponse{
				Status:     models.StatusAborted,
				Year:       req.Year,
				Month:      req.Month,
				Reason:     aborted.Error(),
				Constraint: aborted.Constraint,
				Nodes:      aborted.Nodes,
				ElapsedMs:  aborted.Elapsed.Milliseconds(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.RecordUsage(models.StatusSolved, sol.Stats.Nodes)
	h.logger().Info("month solved",
		zap.String("request_id", c.GetString("requestID")),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("workers", req.Workers),
		zap.Int64("nodes", sol.Stats.Nodes),
		zap.Duration("elapsed", sol.Stats.Elapsed),
	)

	c.JSON(http.StatusOK, buildResponse(&req, sol))
}

func workerName(w int) string { return fmt.Sprintf("Worker %d", w+1) }

// buildResponse projects a solved month into the wire views.
func buildResponse(req *models.ScheduleRequest, sol *scheduler.Solution) models.ScheduleResponse {
	resp := models.ScheduleResponse{
		Status:    models.StatusSolved,
		Year:      req.Year,
		Month:     req.Month,
		Nodes:     sol.Stats.Nodes,
		ElapsedMs: sol.Stats.Elapsed.Milliseconds(),
	}

	for w := 0; w < sol.Workers; w++ {
		view := models.WorkerView{
			Worker:      workerName(w),
			WorkingDays: sol.WorkingDays(w),
			Days:        make([]models.DayStatus, 0, len(sol.Days)),
		}
		for d, day := range sol.Days {
			s := sol.Status(w, d)
			view.Days = append(view.Days, models.DayStatus{
				Date:    day.Date.Format("2006-01-02"),
				Weekday: day.Weekday.String(),
				Status:  s.String(),
				Hours:   s.Hours(),
			})
		}
		resp.Workers = append(resp.Workers, view)
	}

	for d, day := range sol.Days {
		view := models.DayView{
			Date:     day.Date.Format("2006-01-02"),
			Weekday:  day.Weekday.String(),
			IsSunday: day.IsSunday,
		}
		for _, s := range scheduler.Shifts {
			if day.IsSunday && s == scheduler.Extended {
				continue
			}
			roster := models.ShiftRoster{Shift: s.String(), Hours: s.Hours()}
			for _, w := range sol.Roster(d, s) {
				roster.Workers = append(roster.Workers, workerName(w))
			}
			roster.Count = len(roster.Workers)
			view.Shifts = append(view.Shifts, roster)
		}
		resp.Days = append(resp.Days, view)
	}

	for w := 0; w < sol.Workers; w++ {
		bv := models.WorkerBlocksView{Worker: workerName(w)}
		for _, b := range sol.WorkBlocks(w) {
			shift, uniform := b.Uniform()
			view := models.BlockView{
				StartDay: b.Start,
				EndDay:   b.End,
				Length:   b.Length(),
				Uniform:  uniform,
			}
			if uniform {
				view.Shift = shift.String()
			}
			bv.Blocks = append(bv.Blocks, view)
		}
		resp.Blocks = append(resp.Blocks, bv)
	}

	totals := sol.ShiftTotals()
	for _, s := range scheduler.Shifts {
		resp.Coverage = append(resp.Coverage, models.CoverageRow{
			Shift: s.String(),
			Hours: s.Hours(),
			Total: totals[s],
		})
	}

	return resp
}

// RecordUsage bumps today's solve counters using a single-query upsert
// (supported by both Postgres and SQLite).
func (h *Handler) RecordUsage(outcome string, nodes int64) {
	if h.DB == nil {
		return
	}

	today := time.Now().Format("2006-01-02")
	row := database.SolveUsage{Date: today, Requests: 1, TotalNodes: nodes}
	updates := map[string]interface{}{
		"requests":    gorm.Expr("requests + ?", 1),
		"total_nodes": gorm.Expr("total_nodes + ?", nodes),
	}

	switch outcome {
	case models.StatusSolved:
		row.Solved = 1
		row.LastSolvedAt = time.Now()
		updates["solved"] = gorm.Expr("solved + ?", 1)
		updates["last_solved_at"] = time.Now()
	case models.StatusInfeasible:
		row.Infeasible = 1
		updates["infeasible"] = gorm.Expr("infeasible + ?", 1)
	case models.StatusAborted:
		row.Aborted = 1
		updates["aborted"] = gorm.Expr("aborted + ?", 1)
	default:
		row.Rejected = 1
		updates["rejected"] = gorm.Expr("rejected + ?", 1)
	}

	h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&row)
}
