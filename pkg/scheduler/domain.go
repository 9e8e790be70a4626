package scheduler

import "math/bits"

// Status is the per-day state of a worker: resting, or on one of the four
// shift types.
type Status uint8

const (
	Rest Status = iota
	Morning
	Evening
	Night
	Extended

	numStatuses
)

// Shifts lists the shift statuses in their fixed order.
var Shifts = [...]Status{Morning, Evening, Night, Extended}

// SundayShifts lists the shifts available on Sundays. Extended never runs on
// a Sunday.
var SundayShifts = [...]Status{Morning, Evening, Night}

var statusNames = [...]string{"Rest", "Morning", "Evening", "Night", "Extended"}

var statusHours = [...]string{"", "07:00-16:00", "15:00-00:00", "00:00-08:00", "09:00-21:00"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Unknown"
}

// Hours returns the clock range of a shift, or "" for Rest.
func (s Status) Hours() string {
	if int(s) < len(statusHours) {
		return statusHours[s]
	}
	return ""
}

// IsShift reports whether the status is a working shift.
func (s Status) IsShift() bool { return s != Rest && s < numStatuses }

// statusMask is a candidate-value domain for one (worker, day) variable, one
// bit per Status.
type statusMask uint8

const (
	maskRest statusMask = 1 << Rest
	maskAll  statusMask = 1<<numStatuses - 1
	maskWork statusMask = maskAll &^ maskRest
)

func maskOf(s Status) statusMask { return 1 << s }

func (m statusMask) has(s Status) bool { return m&maskOf(s) != 0 }

func (m statusMask) count() int { return bits.OnesCount8(uint8(m)) }

// single returns the sole remaining status of a decided variable.
func (m statusMask) single() (Status, bool) {
	if m.count() != 1 {
		return 0, false
	}
	return Status(bits.TrailingZeros8(uint8(m))), true
}

// workCommitted reports that the variable can no longer be Rest.
func (m statusMask) workCommitted() bool { return m != 0 && m&maskRest == 0 }

// restCommitted reports that the variable can only be Rest.
func (m statusMask) restCommitted() bool { return m == maskRest }

// CoverageTarget bounds the worker count of one shift on one day.
type CoverageTarget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Config is the caller-owned solve configuration. It is read-only to the
// engine.
type Config struct {
	Workers int

	// Coverage holds one target per shift type. Use UniformCoverage for the
	// single workers-per-shift knob.
	Coverage map[Status]CoverageTarget

	// StrictPattern enforces the 4-consecutive-working-days / 2-rest-days
	// rhythm. When false the weekly working-day window bounds apply instead.
	StrictPattern bool

	// EnforceShiftConsistency keeps every day of a work block on the same
	// shift type.
	EnforceShiftConsistency bool

	// Working-day bounds per 7-day sliding window, used in flexible mode.
	MinWorkingDays int
	MaxWorkingDays int
}

// UniformCoverage builds coverage targets from a single workers-per-shift
// staffing level. The level is a cap; callers that need exact headcounts set
// per-shift targets with Min == Max.
func UniformCoverage(workersPerShift int) map[Status]CoverageTarget {
	targets := make(map[Status]CoverageTarget, len(Shifts))
	for _, s := range Shifts {
		targets[s] = CoverageTarget{Min: 0, Max: workersPerShift}
	}
	return targets
}

func (c *Config) target(s Status) CoverageTarget {
	if t, ok := c.Coverage[s]; ok {
		return t
	}
	return CoverageTarget{Min: 0, Max: c.Workers}
}

// legalShifts returns the shifts available on a day.
func legalShifts(isSunday bool) []Status {
	if isSunday {
		return SundayShifts[:]
	}
	return Shifts[:]
}
