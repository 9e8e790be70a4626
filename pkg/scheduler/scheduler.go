// Package scheduler contains the monthly rota engine: a purpose-built
// constraint propagation + backtracking solver over per-worker, per-day
// status variables. It either returns a complete assignment satisfying every
// rule, proves that none exists, or aborts when a search budget runs out.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/xniffing/horario-joao/pkg/calendar"
)

// DefaultMaxNodes bounds the search when the caller does not set a budget.
const DefaultMaxNodes = 5_000_000

// Options tunes one solve. Wall-clock budgets come from the context passed
// to Solve.
type Options struct {
	MaxNodes int64 // 0 means DefaultMaxNodes
}

// Stats describes the search effort of one solve.
type Stats struct {
	Nodes   int64         `json:"nodes"`
	Elapsed time.Duration `json:"elapsed"`
}

// Scheduler solves one month for one configuration. Each instance owns its
// search state exclusively, so independent instances may run in parallel.
type Scheduler struct {
	cfg         Config
	days        []calendar.Day
	constraints []constraint
}

// New validates the configuration (the closed-form pre-check) and prepares a
// solver for the given month.
func New(cfg Config, days []calendar.Day) (*Scheduler, error) {
	if err := Precheck(cfg); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: empty month", calendar.ErrInvalidCalendarInput)
	}
	s := &Scheduler{cfg: cfg, days: days}
	s.constraints = buildConstraints(&s.cfg)
	return s, nil
}

// Solution is a complete assignment with every constraint verified. It is
// frozen: the engine never mutates it after returning it.
type Solution struct {
	Days    []calendar.Day
	Workers int
	Stats   Stats

	cfg      Config
	statuses []Status // day-major
}

// Status returns the solved status of a worker (0-based) on a day (0-based).
func (sol *Solution) Status(worker, day int) Status {
	return sol.statuses[day*sol.Workers+worker]
}

// Solve runs propagation and backtracking search to completion, the node
// budget, or context cancellation, whichever comes first.
func (s *Scheduler) Solve(ctx context.Context, opts Options) (*Solution, error) {
	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	start := time.Now()
	st := newSearchState(&s.cfg, s.days)

	if !st.propagateAll(s.constraints) {
		// the root assignment is already contradictory
		return nil, &InfeasibilityError{Constraint: st.failConstraint, Day: st.failDay, Worker: st.failWorker}
	}

	switch st.search(ctx, s.constraints, maxNodes) {
	case resultSolved:
		sol := &Solution{
			Days:     s.days,
			Workers:  s.cfg.Workers,
			Stats:    Stats{Nodes: st.nodes, Elapsed: time.Since(start)},
			cfg:      s.cfg,
			statuses: st.extract(),
		}
		// the public contract: a Solution passes every check step
		for _, c := range s.constraints {
			if err := c.check(sol); err != nil {
				return nil, fmt.Errorf("solver bug: solution violates %s: %w", c.name(), err)
			}
		}
		return sol, nil

	case resultAborted:
		return nil, &AbortError{
			Nodes:      st.nodes,
			Elapsed:    time.Since(start),
			Constraint: st.failConstraint,
			Day:        st.failDay,
		}

	default:
		return nil, &InfeasibilityError{Constraint: st.failConstraint, Day: st.failDay, Worker: st.failWorker}
	}
}
