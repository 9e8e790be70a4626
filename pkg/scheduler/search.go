package scheduler

import (
	"context"

	"github.com/xniffing/horario-joao/pkg/calendar"
)

// searchState is the per-solve search context: variable domains, the
// undo trail, and failure diagnostics. One solve owns one state exclusively;
// nothing here is shared across solves.
type searchState struct {
	cfg  *Config
	days []calendar.Day
	nw   int // workers
	nd   int // days

	// dom holds one candidate mask per (day, worker) variable, day-major.
	dom   []statusMask
	trail []trailEntry

	depth int
	nodes int64

	// deepest propagation failure seen, for the infeasibility diagnosis
	failDepth      int
	failConstraint string
	failDay        int // 1-based
	failWorker     int // 1-based
}

type trailEntry struct {
	idx int32
	old statusMask
}

type searchResult int

const (
	resultBacktrack searchResult = iota
	resultSolved
	resultAborted
)

func newSearchState(cfg *Config, days []calendar.Day) *searchState {
	st := &searchState{
		cfg:       cfg,
		days:      days,
		nw:        cfg.Workers,
		nd:        len(days),
		failDepth: -1,
	}
	st.dom = make([]statusMask, st.nw*st.nd)
	for i := range st.dom {
		st.dom[i] = maskAll
	}
	return st
}

func (st *searchState) idx(day, worker int) int { return day*st.nw + worker }

func (st *searchState) mask(day, worker int) statusMask { return st.dom[st.idx(day, worker)] }

// narrow intersects a variable's domain with keep, recording the old value on
// the trail. It reports whether the domain changed and whether it is still
// non-empty.
func (st *searchState) narrow(day, worker int, keep statusMask) (changed, ok bool) {
	i := st.idx(day, worker)
	cur := st.dom[i]
	next := cur & keep
	if next == cur {
		return false, cur != 0
	}
	st.trail = append(st.trail, trailEntry{idx: int32(i), old: cur})
	st.dom[i] = next
	return true, next != 0
}

func (st *searchState) forceRest(day, worker int) (bool, bool) {
	return st.narrow(day, worker, maskRest)
}

func (st *searchState) forceWork(day, worker int) (bool, bool) {
	return st.narrow(day, worker, maskWork)
}

// undoTo rolls the trail back to a previous length, restoring domains.
func (st *searchState) undoTo(mark int) {
	for i := len(st.trail) - 1; i >= mark; i-- {
		e := st.trail[i]
		st.dom[e.idx] = e.old
	}
	st.trail = st.trail[:mark]
}

// fail records a propagation failure; the deepest one survives as the
// diagnosed cause when the whole search space is exhausted.
func (st *searchState) fail(constraint string, day, worker int) {
	if st.depth >= st.failDepth {
		st.failDepth = st.depth
		st.failConstraint = constraint
		st.failDay = day + 1
		st.failWorker = worker + 1
	}
}

// propagateAll applies every constraint's propagate step until a fixpoint is
// reached or a domain empties.
func (st *searchState) propagateAll(cs []constraint) bool {
	for {
		changed := false
		for _, c := range cs {
			ch, ok := c.propagate(st)
			changed = changed || ch
			if !ok {
				return false
			}
		}
		if !changed {
			return true
		}
	}
}

// nextUndecided returns the first variable with more than one candidate, in
// chronological day order then fixed worker order, or -1 when the assignment
// is complete.
func (st *searchState) nextUndecided() int {
	for i, m := range st.dom {
		if m.count() > 1 {
			return i
		}
	}
	return -1
}

// decidedCount counts workers already decided to a shift on a day.
func (st *searchState) decidedCount(day int, s Status) int {
	n := 0
	m := maskOf(s)
	for w := 0; w < st.nw; w++ {
		if st.mask(day, w) == m {
			n++
		}
	}
	return n
}

// orderedValues lists the candidate statuses of a variable: shifts first,
// least-covered first (stable on shift order), Rest last. The ordering is
// deterministic, so identical inputs walk an identical tree.
func (st *searchState) orderedValues(day, worker int) []Status {
	m := st.mask(day, worker)
	vals := make([]Status, 0, numStatuses)
	for _, s := range Shifts {
		if !m.has(s) {
			continue
		}
		c := st.decidedCount(day, s)
		at := len(vals)
		for at > 0 && st.decidedCount(day, vals[at-1]) > c {
			at--
		}
		vals = append(vals, 0)
		copy(vals[at+1:], vals[at:])
		vals[at] = s
	}
	if m.has(Rest) {
		vals = append(vals, Rest)
	}
	return vals
}

// search runs chronological backtracking from the current state. Every
// decision is followed by propagation to fixpoint; an emptied domain undoes
// the decision via the trail and tries the next value.
func (st *searchState) search(ctx context.Context, cs []constraint, maxNodes int64) searchResult {
	v := st.nextUndecided()
	if v < 0 {
		return resultSolved
	}
	day, worker := v/st.nw, v%st.nw

	for _, val := range st.orderedValues(day, worker) {
		st.nodes++
		if st.nodes > maxNodes {
			return resultAborted
		}
		if st.nodes&0x3ff == 0 && ctx.Err() != nil {
			return resultAborted
		}

		mark := len(st.trail)
		st.depth++
		if _, ok := st.narrow(day, worker, maskOf(val)); ok && st.propagateAll(cs) {
			if res := st.search(ctx, cs, maxNodes); res != resultBacktrack {
				return res
			}
		}
		st.undoTo(mark)
		st.depth--
	}
	return resultBacktrack
}

func (st *searchState) extract() []Status {
	statuses := make([]Status, len(st.dom))
	for i, m := range st.dom {
		s, _ := m.single()
		statuses[i] = s
	}
	return statuses
}
