package scheduler

import "fmt"

// constraint is one scheduling rule. propagate narrows candidate domains on a
// partial assignment and reports (changed, ok); ok is false when the rule
// became unsatisfiable. check validates the rule over a complete solution.
type constraint interface {
	name() string
	propagate(st *searchState) (bool, bool)
	check(sol *Solution) error
}

func buildConstraints(cfg *Config) []constraint {
	cs := []constraint{sundayRule{}}
	if cfg.StrictPattern {
		cs = append(cs, strictPatternRule{})
	} else {
		cs = append(cs, flexPatternRule{min: cfg.MinWorkingDays, max: cfg.MaxWorkingDays})
	}
	if cfg.EnforceShiftConsistency {
		cs = append(cs, consistencyRule{})
	}
	return append(cs, coverageRule{}, weekOffRule{})
}

// sundayRule removes Extended from every Sunday variable, unconditionally.
type sundayRule struct{}

func (sundayRule) name() string { return "sunday restriction" }

func (r sundayRule) propagate(st *searchState) (bool, bool) {
	changed := false
	for d := 0; d < st.nd; d++ {
		if !st.days[d].IsSunday {
			continue
		}
		for w := 0; w < st.nw; w++ {
			ch, ok := st.narrow(d, w, ^maskOf(Extended))
			changed = changed || ch
			if !ok {
				st.fail(r.name(), d, w)
				return changed, false
			}
		}
	}
	return changed, true
}

func (r sundayRule) check(sol *Solution) error {
	for d, day := range sol.Days {
		if !day.IsSunday {
			continue
		}
		for w := 0; w < sol.Workers; w++ {
			if sol.Status(w, d) == Extended {
				return fmt.Errorf("worker %d holds the Extended shift on Sunday day %d", w+1, day.Ordinal)
			}
		}
	}
	return nil
}

// strictPatternRule enforces the 4-on/2-off rhythm. Runs truncated by the
// month boundary are exempt from the exact lengths: a block may start before
// day 1 or run past the last day, and the trailing rest pair may be cut off.
type strictPatternRule struct{}

func (strictPatternRule) name() string { return "pattern" }

func (r strictPatternRule) propagate(st *searchState) (bool, bool) {
	changed := false
	apply := func(ch, ok bool, day, worker int) bool {
		changed = changed || ch
		if !ok {
			st.fail(r.name(), day, worker)
		}
		return ok
	}

	for w := 0; w < st.nw; w++ {
		d := 0
		for d < st.nd {
			m := st.mask(d, w)
			switch {
			case m.workCommitted():
				s := d
				for d < st.nd && st.mask(d, w).workCommitted() {
					d++
				}
				e := d - 1
				if e-s+1 > 4 {
					st.fail(r.name(), e, w)
					return changed, false
				}
				if e-s+1 == 4 {
					// a complete block rests on both sides
					if s > 0 {
						if ch, ok := st.forceRest(s-1, w); !apply(ch, ok, s-1, w) {
							return changed, false
						}
					}
					if e+1 < st.nd {
						if ch, ok := st.forceRest(e+1, w); !apply(ch, ok, e+1, w) {
							return changed, false
						}
					}
					continue
				}
				// short run closed on the right: the block ends at e, so it
				// spans e-3..e, or hugs the month start when e < 3
				if e+1 < st.nd && st.mask(e+1, w).restCommitted() {
					lo := e - 3
					if lo < 0 {
						lo = 0
					} else if lo > 0 {
						if ch, ok := st.forceRest(lo-1, w); !apply(ch, ok, lo-1, w) {
							return changed, false
						}
					}
					for j := lo; j <= e; j++ {
						if ch, ok := st.forceWork(j, w); !apply(ch, ok, j, w) {
							return changed, false
						}
					}
				}
				// short run closed on the left: the block starts at s and
				// spans s..s+3, or runs out into the month end
				if s > 0 && st.mask(s-1, w).restCommitted() {
					hi := s + 3
					if hi > st.nd-1 {
						hi = st.nd - 1
					} else if hi < st.nd-1 {
						if ch, ok := st.forceRest(hi+1, w); !apply(ch, ok, hi+1, w) {
							return changed, false
						}
					}
					for j := s; j <= hi; j++ {
						if ch, ok := st.forceWork(j, w); !apply(ch, ok, j, w) {
							return changed, false
						}
					}
				}

			case m.restCommitted():
				s := d
				for d < st.nd && st.mask(d, w).restCommitted() {
					d++
				}
				e := d - 1
				// a rest run that follows a block inside the month is exactly
				// two days (shorter only when the month ends first)
				if s > 0 && st.mask(s-1, w).workCommitted() {
					if e == s && e+1 < st.nd {
						if ch, ok := st.forceRest(e+1, w); !apply(ch, ok, e+1, w) {
							return changed, false
						}
					}
					if e > s && s+2 < st.nd {
						if ch, ok := st.forceWork(s+2, w); !apply(ch, ok, s+2, w) {
							return changed, false
						}
					}
				}

			default:
				d++
			}
		}
	}
	return changed, true
}

func (r strictPatternRule) check(sol *Solution) error {
	nd := len(sol.Days)
	for w := 0; w < sol.Workers; w++ {
		d := 0
		for d < nd {
			if sol.Status(w, d) == Rest {
				d++
				continue
			}
			s := d
			for d < nd && sol.Status(w, d) != Rest {
				d++
			}
			e := d - 1
			length := e - s + 1
			if length > 4 {
				return fmt.Errorf("worker %d works %d consecutive days starting day %d", w+1, length, s+1)
			}
			interior := s > 0 && e < nd-1
			if interior && length != 4 {
				return fmt.Errorf("worker %d has an interior work block of %d days starting day %d", w+1, length, s+1)
			}
			if e >= nd-1 {
				continue
			}
			// count the rest run that follows the block
			rest := 0
			for j := e + 1; j < nd && sol.Status(w, j) == Rest; j++ {
				rest++
			}
			truncated := e+1+rest >= nd
			if rest != 2 && !truncated {
				return fmt.Errorf("worker %d rests %d days after the block ending day %d, want 2", w+1, rest, e+1)
			}
			if truncated && rest > 2 {
				return fmt.Errorf("worker %d rests %d days after the block ending day %d, want at most 2", w+1, rest, e+1)
			}
		}
	}
	return nil
}

// flexPatternRule bounds working days per 7-day sliding window when the
// strict rhythm is disabled.
type flexPatternRule struct {
	min, max int
}

func (flexPatternRule) name() string { return "pattern" }

func (r flexPatternRule) propagate(st *searchState) (bool, bool) {
	changed := false
	for w := 0; w < st.nw; w++ {
		for s := 0; s+7 <= st.nd; s++ {
			work, rest := 0, 0
			for j := s; j < s+7; j++ {
				m := st.mask(j, w)
				if m.workCommitted() {
					work++
				} else if m.restCommitted() {
					rest++
				}
			}
			if work > r.max || rest > 7-r.min {
				st.fail(r.name(), s, w)
				return changed, false
			}
			if work == r.max && work+rest < 7 {
				for j := s; j < s+7; j++ {
					m := st.mask(j, w)
					if !m.workCommitted() && !m.restCommitted() {
						ch, ok := st.forceRest(j, w)
						changed = changed || ch
						if !ok {
							st.fail(r.name(), j, w)
							return changed, false
						}
					}
				}
			}
			if rest == 7-r.min && work+rest < 7 {
				for j := s; j < s+7; j++ {
					m := st.mask(j, w)
					if !m.workCommitted() && !m.restCommitted() {
						ch, ok := st.forceWork(j, w)
						changed = changed || ch
						if !ok {
							st.fail(r.name(), j, w)
							return changed, false
						}
					}
				}
			}
		}
	}
	return changed, true
}

func (r flexPatternRule) check(sol *Solution) error {
	nd := len(sol.Days)
	for w := 0; w < sol.Workers; w++ {
		for s := 0; s+7 <= nd; s++ {
			work := 0
			for j := s; j < s+7; j++ {
				if sol.Status(w, j) != Rest {
					work++
				}
			}
			if work < r.min || work > r.max {
				return fmt.Errorf("worker %d works %d days in the week starting day %d, want %d..%d",
					w+1, work, s+1, r.min, r.max)
			}
		}
	}
	return nil
}

// consistencyRule keeps all days of one work block on the same shift type.
// Every day of a committed run must pick a shift from the intersection of the
// run's domains, which also rules Extended out of any block crossing a Sunday.
type consistencyRule struct{}

func (consistencyRule) name() string { return "shift consistency" }

func (r consistencyRule) propagate(st *searchState) (bool, bool) {
	changed := false
	for w := 0; w < st.nw; w++ {
		d := 0
		for d < st.nd {
			if !st.mask(d, w).workCommitted() {
				d++
				continue
			}
			s := d
			common := maskWork
			for d < st.nd && st.mask(d, w).workCommitted() {
				common &= st.mask(d, w)
				d++
			}
			if common == 0 {
				st.fail(r.name(), s, w)
				return changed, false
			}
			for j := s; j < d; j++ {
				ch, ok := st.narrow(j, w, common)
				changed = changed || ch
				if !ok {
					st.fail(r.name(), j, w)
					return changed, false
				}
			}
		}
	}
	return changed, true
}

func (r consistencyRule) check(sol *Solution) error {
	for w := 0; w < sol.Workers; w++ {
		for _, b := range sol.WorkBlocks(w) {
			if _, uniform := b.Uniform(); !uniform {
				return fmt.Errorf("worker %d changes shift inside the block starting day %d", w+1, b.Start)
			}
		}
	}
	return nil
}

// coverageRule keeps per-day per-shift headcounts inside their configured
// targets.
type coverageRule struct{}

func (coverageRule) name() string { return "coverage" }

func (r coverageRule) propagate(st *searchState) (bool, bool) {
	changed := false
	for d := 0; d < st.nd; d++ {
		legal := legalShifts(st.days[d].IsSunday)

		capacity, minimum := 0, 0
		for _, s := range legal {
			t := st.cfg.target(s)
			capacity += t.Max
			minimum += t.Min
		}

		committed, able := 0, 0
		for w := 0; w < st.nw; w++ {
			m := st.mask(d, w)
			if m.workCommitted() {
				committed++
			}
			if m&maskWork != 0 {
				able++
			}
		}
		// more workers locked into working than the day can absorb, or too
		// few left to reach the day's minimum staffing
		if committed > capacity || able < minimum {
			st.fail(r.name(), d, -1)
			return changed, false
		}

		for _, s := range legal {
			t := st.cfg.target(s)
			sm := maskOf(s)
			decided, possible := 0, 0
			for w := 0; w < st.nw; w++ {
				m := st.mask(d, w)
				if m == sm {
					decided++
				}
				if m.has(s) {
					possible++
				}
			}
			if decided > t.Max || possible < t.Min {
				st.fail(r.name(), d, -1)
				return changed, false
			}
			if decided == t.Max {
				for w := 0; w < st.nw; w++ {
					m := st.mask(d, w)
					if m != sm && m.has(s) {
						ch, ok := st.narrow(d, w, ^sm)
						changed = changed || ch
						if !ok {
							st.fail(r.name(), d, w)
							return changed, false
						}
					}
				}
			}
			if possible == t.Min && decided < t.Min {
				// every remaining candidate is needed to reach the minimum
				for w := 0; w < st.nw; w++ {
					m := st.mask(d, w)
					if m != sm && m.has(s) {
						ch, ok := st.narrow(d, w, sm)
						changed = changed || ch
						if !ok {
							st.fail(r.name(), d, w)
							return changed, false
						}
					}
				}
			}
		}
	}
	return changed, true
}

func (r coverageRule) check(sol *Solution) error {
	for d, day := range sol.Days {
		for _, s := range legalShifts(day.IsSunday) {
			t := sol.cfg.target(s)
			n := 0
			for w := 0; w < sol.Workers; w++ {
				if sol.Status(w, d) == s {
					n++
				}
			}
			if n < t.Min || n > t.Max {
				return fmt.Errorf("%s shift on day %d has %d workers, want %d..%d",
					s, day.Ordinal, n, t.Min, t.Max)
			}
		}
	}
	return nil
}

// weekOffRule forbids seven consecutive rest days for any worker.
type weekOffRule struct{}

func (weekOffRule) name() string { return "no full week off" }

func (r weekOffRule) propagate(st *searchState) (bool, bool) {
	changed := false
	for w := 0; w < st.nw; w++ {
		for s := 0; s+7 <= st.nd; s++ {
			rest := 0
			for j := s; j < s+7; j++ {
				if st.mask(j, w).restCommitted() {
					rest++
				}
			}
			if rest == 7 {
				st.fail(r.name(), s, w)
				return changed, false
			}
			if rest == 6 {
				for j := s; j < s+7; j++ {
					if !st.mask(j, w).restCommitted() {
						ch, ok := st.forceWork(j, w)
						changed = changed || ch
						if !ok {
							st.fail(r.name(), j, w)
							return changed, false
						}
					}
				}
			}
		}
	}
	return changed, true
}

func (r weekOffRule) check(sol *Solution) error {
	nd := len(sol.Days)
	for w := 0; w < sol.Workers; w++ {
		run := 0
		for d := 0; d < nd; d++ {
			if sol.Status(w, d) == Rest {
				run++
				if run >= 7 {
					return fmt.Errorf("worker %d rests 7 consecutive days ending day %d", w+1, d+1)
				}
			} else {
				run = 0
			}
		}
	}
	return nil
}
