package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xniffing/horario-joao/pkg/calendar"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func monthDays(t *testing.T, year, month int) []calendar.Day {
	t.Helper()
	days, err := calendar.BuildMonth(year, month)
	require.NoError(t, err)
	return days
}

func solveJune(t *testing.T, cfg Config) *Solution {
	t.Helper()
	s, err := New(cfg, monthDays(t, 2025, 6))
	require.NoError(t, err)
	sol, err := s.Solve(context.Background(), Options{})
	require.NoError(t, err)
	return sol
}

func TestSolveStrictMonth(t *testing.T) {
	sol := solveJune(t, baseConfig(8, 2))

	assert.Equal(t, 8, sol.Workers)
	assert.Len(t, sol.Days, 30)
	assert.Positive(t, sol.Stats.Nodes)

	// no Extended shift on any Sunday
	for d, day := range sol.Days {
		if day.IsSunday {
			assert.Empty(t, sol.Roster(d, Extended), "day %d", day.Ordinal)
		}
	}

	// per-day, per-shift headcount stays at or under the cap
	for d, day := range sol.Days {
		for _, s := range legalShifts(day.IsSunday) {
			assert.LessOrEqual(t, len(sol.Roster(d, s)), 2, "day %d shift %s", day.Ordinal, s)
		}
	}

	// every interior work block runs exactly four days
	for w := 0; w < sol.Workers; w++ {
		for _, b := range sol.WorkBlocks(w) {
			assert.LessOrEqual(t, b.Length(), 4, "worker %d block at day %d", w+1, b.Start)
			if b.Start > 1 && b.End < len(sol.Days) {
				assert.Equal(t, 4, b.Length(), "worker %d block at day %d", w+1, b.Start)
			}
		}
	}

	// shift consistency holds inside every block
	for w := 0; w < sol.Workers; w++ {
		for _, b := range sol.WorkBlocks(w) {
			_, uniform := b.Uniform()
			assert.True(t, uniform, "worker %d block at day %d", w+1, b.Start)
		}
	}

	// nobody takes a full calendar week off
	for w := 0; w < sol.Workers; w++ {
		assert.Positive(t, sol.WorkingDays(w), "worker %d", w+1)
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	a := solveJune(t, baseConfig(8, 2))
	b := solveJune(t, baseConfig(8, 2))

	for w := 0; w < a.Workers; w++ {
		assert.Equal(t, a.WorkerSchedule(w), b.WorkerSchedule(w), "worker %d", w+1)
	}
}

func TestSolveFlexibleMonth(t *testing.T) {
	cfg := baseConfig(8, 2)
	cfg.StrictPattern = false
	cfg.MinWorkingDays = 1
	cfg.MaxWorkingDays = 5
	sol := solveJune(t, cfg)

	// working days stay inside the window bounds for every 7-day stretch
	for w := 0; w < sol.Workers; w++ {
		sched := sol.WorkerSchedule(w)
		for s := 0; s+7 <= len(sched); s++ {
			work := 0
			for _, st := range sched[s : s+7] {
				if st != Rest {
					work++
				}
			}
			assert.GreaterOrEqual(t, work, 1, "worker %d week at day %d", w+1, s+1)
			assert.LessOrEqual(t, work, 5, "worker %d week at day %d", w+1, s+1)
		}
	}
}

func TestSolveProvesInfeasibility(t *testing.T) {
	// a single worker cannot hold a mandatory daily shift under the
	// 4-on/2-off rhythm
	cfg := Config{
		Workers:        1,
		Coverage:       map[Status]CoverageTarget{Morning: {Min: 1, Max: 1}},
		StrictPattern:  true,
		MinWorkingDays: 1,
		MaxWorkingDays: 7,
	}
	s, err := New(cfg, monthDays(t, 2023, 2))
	require.NoError(t, err)

	_, err = s.Solve(context.Background(), Options{})
	var infeasible *InfeasibilityError
	require.True(t, errors.As(err, &infeasible), "got %v", err)
	assert.NotEmpty(t, infeasible.Constraint)
}

func TestSolveAbortsOnNodeBudget(t *testing.T) {
	s, err := New(baseConfig(8, 2), monthDays(t, 2025, 6))
	require.NoError(t, err)

	_, err = s.Solve(context.Background(), Options{MaxNodes: 1})
	var aborted *AbortError
	require.True(t, errors.As(err, &aborted), "got %v", err)
	assert.Positive(t, aborted.Nodes)
}

func TestNewRejectsBadInputs(t *testing.T) {
	_, err := New(baseConfig(3, 1), monthDays(t, 2025, 6))
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))

	_, err = New(baseConfig(8, 2), nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidCalendarInput)
}

func TestParallelSolves(t *testing.T) {
	days := monthDays(t, 2025, 6)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := New(baseConfig(8, 2), days)
			assert.NoError(t, err)
			sol, err := s.Solve(context.Background(), Options{})
			assert.NoError(t, err)
			assert.NotNil(t, sol)
		}()
	}
	wg.Wait()
}
