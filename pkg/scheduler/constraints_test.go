package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xniffing/horario-joao/pkg/calendar"
)

// June 2025 starts on a Sunday, which keeps day/weekday arithmetic easy to
// follow in the assertions below.
func newTestState(t *testing.T, cfg Config) *searchState {
	t.Helper()
	days, err := calendar.BuildMonth(2025, 6)
	require.NoError(t, err)
	return newSearchState(&cfg, days)
}

// fixpoint applies one rule until it stops changing domains.
func fixpoint(t *testing.T, st *searchState, c constraint) {
	t.Helper()
	for {
		changed, ok := c.propagate(st)
		require.True(t, ok)
		if !changed {
			return
		}
	}
}

func TestSundayRulePrunesExtended(t *testing.T) {
	st := newTestState(t, Config{Workers: 2})
	fixpoint(t, st, sundayRule{})

	// June 1st 2025 is a Sunday, June 2nd is not
	assert.False(t, st.mask(0, 0).has(Extended))
	assert.False(t, st.mask(0, 1).has(Extended))
	assert.True(t, st.mask(1, 0).has(Extended))

	for d := range st.days {
		if st.days[d].IsSunday {
			assert.False(t, st.mask(d, 0).has(Extended), "day %d", d+1)
		}
	}
}

func TestStrictPatternCompletesFourDayBlock(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, StrictPattern: true})
	for d := 9; d <= 12; d++ {
		_, ok := st.forceWork(d, 0)
		require.True(t, ok)
	}
	fixpoint(t, st, strictPatternRule{})

	assert.True(t, st.mask(8, 0).restCommitted())
	assert.True(t, st.mask(13, 0).restCommitted())
}

func TestStrictPatternRejectsFiveDayRun(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, StrictPattern: true})
	for d := 9; d <= 13; d++ {
		_, ok := st.forceWork(d, 0)
		require.True(t, ok)
	}
	_, ok := strictPatternRule{}.propagate(st)
	assert.False(t, ok)
}

func TestStrictPatternCascadesFromAnchoredBlock(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, StrictPattern: true})
	_, ok := st.forceRest(9, 0)
	require.True(t, ok)
	_, ok = st.forceWork(10, 0)
	require.True(t, ok)
	fixpoint(t, st, strictPatternRule{})

	// a block anchored on a rest day fixes the whole rhythm downstream:
	// work 11..14, rest 15..16, work 17..20, and so on to the month end
	for d := 10; d <= 13; d++ {
		assert.True(t, st.mask(d, 0).workCommitted(), "day %d", d+1)
	}
	assert.True(t, st.mask(14, 0).restCommitted())
	assert.True(t, st.mask(15, 0).restCommitted())
	for d := 16; d <= 19; d++ {
		assert.True(t, st.mask(d, 0).workCommitted(), "day %d", d+1)
	}
	assert.True(t, st.mask(20, 0).restCommitted())
	assert.True(t, st.mask(21, 0).restCommitted())
	for d := 22; d <= 25; d++ {
		assert.True(t, st.mask(d, 0).workCommitted(), "day %d", d+1)
	}
	assert.True(t, st.mask(26, 0).restCommitted())
	assert.True(t, st.mask(27, 0).restCommitted())
	// the final block is cut off by the month end
	assert.True(t, st.mask(28, 0).workCommitted())
	assert.True(t, st.mask(29, 0).workCommitted())

	// days before the anchor stay open
	assert.Equal(t, maskAll, st.mask(5, 0))
}

func TestStrictPatternAllowsTruncatedStart(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, StrictPattern: true})
	_, ok := st.forceWork(0, 0)
	require.True(t, ok)
	_, ok = st.forceRest(1, 0)
	require.True(t, ok)
	fixpoint(t, st, strictPatternRule{})

	// a one-day opening block is legal; the rest pair and the next block
	// follow from it
	assert.True(t, st.mask(2, 0).restCommitted())
	for d := 3; d <= 6; d++ {
		assert.True(t, st.mask(d, 0).workCommitted(), "day %d", d+1)
	}
	assert.True(t, st.mask(7, 0).restCommitted())
}

func TestFlexPatternForcesRestAtWindowCap(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, MinWorkingDays: 2, MaxWorkingDays: 3})
	for d := 0; d <= 2; d++ {
		_, ok := st.forceWork(d, 0)
		require.True(t, ok)
	}
	fixpoint(t, st, flexPatternRule{min: 2, max: 3})

	for d := 3; d <= 6; d++ {
		assert.True(t, st.mask(d, 0).restCommitted(), "day %d", d+1)
	}
}

func TestFlexPatternRejectsOverfullWindow(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, MinWorkingDays: 2, MaxWorkingDays: 3})
	for d := 0; d <= 3; d++ {
		_, ok := st.forceWork(d, 0)
		require.True(t, ok)
	}
	_, ok := flexPatternRule{min: 2, max: 3}.propagate(st)
	assert.False(t, ok)
}

func TestConsistencyNarrowsBlockToCommonShift(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, EnforceShiftConsistency: true})
	for d := 9; d <= 12; d++ {
		_, ok := st.forceWork(d, 0)
		require.True(t, ok)
	}
	_, ok := st.narrow(10, 0, maskOf(Night))
	require.True(t, ok)
	fixpoint(t, st, consistencyRule{})

	for d := 9; d <= 12; d++ {
		assert.Equal(t, maskOf(Night), st.mask(d, 0), "day %d", d+1)
	}
}

func TestConsistencyRejectsMixedBlock(t *testing.T) {
	st := newTestState(t, Config{Workers: 1, EnforceShiftConsistency: true})
	_, ok := st.narrow(9, 0, maskOf(Morning))
	require.True(t, ok)
	_, ok = st.narrow(10, 0, maskOf(Evening))
	require.True(t, ok)
	_, ok = consistencyRule{}.propagate(st)
	assert.False(t, ok)
}

func TestCoverageRemovesShiftAtCap(t *testing.T) {
	cfg := Config{Workers: 3, Coverage: map[Status]CoverageTarget{
		Morning:  {Min: 0, Max: 1},
		Evening:  {Min: 0, Max: 3},
		Night:    {Min: 0, Max: 3},
		Extended: {Min: 0, Max: 3},
	}}
	st := newTestState(t, cfg)
	_, ok := st.narrow(1, 0, maskOf(Morning))
	require.True(t, ok)
	fixpoint(t, st, coverageRule{})

	// the only Morning slot on day 2 is taken
	assert.False(t, st.mask(1, 1).has(Morning))
	assert.False(t, st.mask(1, 2).has(Morning))
}

func TestCoverageForcesLastCandidateToMinimum(t *testing.T) {
	cfg := Config{Workers: 3, Coverage: map[Status]CoverageTarget{
		Morning:  {Min: 1, Max: 1},
		Evening:  {Min: 0, Max: 3},
		Night:    {Min: 0, Max: 3},
		Extended: {Min: 0, Max: 3},
	}}
	st := newTestState(t, cfg)
	_, ok := st.narrow(1, 1, ^maskOf(Morning))
	require.True(t, ok)
	_, ok = st.narrow(1, 2, ^maskOf(Morning))
	require.True(t, ok)
	fixpoint(t, st, coverageRule{})

	assert.Equal(t, maskOf(Morning), st.mask(1, 0))
}

func TestCoverageRejectsOvercommittedDay(t *testing.T) {
	cfg := Config{Workers: 2, Coverage: map[Status]CoverageTarget{
		Morning:  {Min: 0, Max: 1},
		Evening:  {Min: 0, Max: 0},
		Night:    {Min: 0, Max: 0},
		Extended: {Min: 0, Max: 0},
	}}
	st := newTestState(t, cfg)
	_, ok := st.forceWork(5, 0)
	require.True(t, ok)
	_, ok = st.forceWork(5, 1)
	require.True(t, ok)

	_, ok = coverageRule{}.propagate(st)
	assert.False(t, ok)
}

func TestWeekOffForcesSeventhDayOn(t *testing.T) {
	st := newTestState(t, Config{Workers: 1})
	for d := 0; d <= 5; d++ {
		_, ok := st.forceRest(d, 0)
		require.True(t, ok)
	}
	fixpoint(t, st, weekOffRule{})

	assert.True(t, st.mask(6, 0).workCommitted())
}

func TestWeekOffRejectsFullWeekOff(t *testing.T) {
	st := newTestState(t, Config{Workers: 1})
	for d := 0; d <= 6; d++ {
		_, ok := st.forceRest(d, 0)
		require.True(t, ok)
	}
	_, ok := weekOffRule{}.propagate(st)
	assert.False(t, ok)
}

func TestNarrowTrailUndo(t *testing.T) {
	st := newTestState(t, Config{Workers: 2})
	mark := len(st.trail)

	_, ok := st.forceWork(3, 0)
	require.True(t, ok)
	_, ok = st.narrow(3, 1, maskOf(Night))
	require.True(t, ok)
	assert.Equal(t, maskWork, st.mask(3, 0))

	st.undoTo(mark)
	assert.Equal(t, maskAll, st.mask(3, 0))
	assert.Equal(t, maskAll, st.mask(3, 1))
	assert.Len(t, st.trail, mark)
}
