package models

// CoverageTarget bounds the worker count for one shift on one day.
type CoverageTarget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ScheduleRequest is the data structure for the scheduling endpoint.
type ScheduleRequest struct {
	Year    int `json:"year" binding:"required"`
	Month   int `json:"month" binding:"required"`
	Workers int `json:"workers" binding:"required"`

	// WorkersPerShift is the uniform staffing level; CoverageTargets, keyed
	// by shift name, overrides it per shift when present.
	WorkersPerShift int                       `json:"workers_per_shift"`
	CoverageTargets map[string]CoverageTarget `json:"coverage_targets,omitempty"`

	StrictPattern           bool `json:"strict_pattern"`
	EnforceShiftConsistency bool `json:"enforce_shift_consistency"`

	// Working-day bounds per 7-day window; zero values default to 1 and 7.
	MinWorkingDays int `json:"min_working_days"`
	MaxWorkingDays int `json:"max_working_days"`

	// Optional search budget overrides.
	MaxNodes       int64 `json:"max_nodes,omitempty"`
	TimeoutSeconds int   `json:"timeout_seconds,omitempty"`
}

// Solve outcome discriminators carried in ScheduleResponse.Status.
const (
	StatusSolved                  = "solved"
	StatusInvalidCalendar         = "invalid_calendar_input"
	StatusInfeasibleConfiguration = "infeasible_configuration"
	StatusInfeasible              = "infeasible"
	StatusAborted                 = "aborted"
)

// DayStatus is one worker-day in the per-worker view.
type DayStatus struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Status  string `json:"status"`
	Hours   string `json:"hours,omitempty"`
}

// WorkerView is one worker's chronological month.
type WorkerView struct {
	Worker      string      `json:"worker"`
	WorkingDays int         `json:"working_days"`
	Days        []DayStatus `json:"days"`
}

// ShiftRoster lists the workers holding one shift on one day.
type ShiftRoster struct {
	Shift   string   `json:"shift"`
	Hours   string   `json:"hours"`
	Workers []string `json:"workers"`
	Count   int      `json:"count"`
}

// DayView is the per-day roster across shifts.
type DayView struct {
	Date     string        `json:"date"`
	Weekday  string        `json:"weekday"`
	IsSunday bool          `json:"is_sunday"`
	Shifts   []ShiftRoster `json:"shifts"`
}

// BlockView summarizes one work block for audit.
type BlockView struct {
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	Length   int    `json:"length"`
	Shift    string `json:"shift"`
	Uniform  bool   `json:"uniform"`
}

// WorkerBlocksView lists one worker's work blocks.
type WorkerBlocksView struct {
	Worker string      `json:"worker"`
	Blocks []BlockView `json:"blocks"`
}

// CoverageRow totals one shift's assignments across the month.
type CoverageRow struct {
	Shift string `json:"shift"`
	Hours string `json:"hours"`
	Total int    `json:"total"`
}

// ScheduleResponse is the data structure for the scheduling result.
type ScheduleResponse struct {
	Status     string `json:"status"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Reason     string `json:"reason,omitempty"`
	Constraint string `json:"constraint,omitempty"`

	Workers  []WorkerView       `json:"workers,omitempty"`
	Days     []DayView          `json:"days,omitempty"`
	Blocks   []WorkerBlocksView `json:"blocks,omitempty"`
	Coverage []CoverageRow      `json:"coverage,omitempty"`

	Nodes     int64 `json:"nodes"`
	ElapsedMs int64 `json:"elapsed_ms"`
}
