package scheduler

import (
	"fmt"
	"time"
)

// ConfigCode classifies why a configuration failed the pre-check.
type ConfigCode string

const (
	CodeInsufficientWorkers ConfigCode = "insufficient_workers"
	CodeIncompatibleBounds  ConfigCode = "incompatible_pattern_bounds"
	CodeSundayCoverage      ConfigCode = "coverage_unreachable_on_sundays"
)

// ConfigError reports a configuration rejected before any search ran.
type ConfigError struct {
	Code   ConfigCode
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("infeasible configuration (%s): %s", e.Code, e.Reason)
}

// InfeasibilityError is the proof result: the search space was exhausted
// without finding an assignment. Constraint, Day and Worker locate the
// deepest failure seen, as a diagnosis aid.
type InfeasibilityError struct {
	Constraint string
	Day        int // 1-based ordinal, 0 when unknown
	Worker     int // 1-based, 0 when unknown
}

func (e *InfeasibilityError) Error() string {
	msg := "no feasible assignment exists"
	if e.Constraint != "" {
		msg += ": deepest failure in " + e.Constraint + " constraint"
		if e.Day > 0 {
			msg += fmt.Sprintf(" on day %d", e.Day)
		}
		if e.Worker > 0 {
			msg += fmt.Sprintf(" for worker %d", e.Worker)
		}
	}
	return msg
}

// AbortError reports that the node or wall-clock budget ran out before the
// search could decide feasibility.
type AbortError struct {
	Nodes      int64
	Elapsed    time.Duration
	Constraint string // deepest failing constraint so far, if any
	Day        int
}

func (e *AbortError) Error() string {
	msg := fmt.Sprintf("search aborted after %d nodes in %s; feasibility unknown", e.Nodes, e.Elapsed.Round(time.Millisecond))
	if e.Constraint != "" {
		msg += fmt.Sprintf(" (deepest failure: %s constraint", e.Constraint)
		if e.Day > 0 {
			msg += fmt.Sprintf(" on day %d", e.Day)
		}
		msg += ")"
	}
	return msg
}
