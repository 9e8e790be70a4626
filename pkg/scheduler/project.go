package scheduler

// WorkBlock is a maximal run of consecutive working days for one worker.
type WorkBlock struct {
	Start  int      // 1-based day ordinal, inclusive
	End    int      // 1-based day ordinal, inclusive
	Shifts []Status // status of each day in the block, in day order
}

// Length returns the number of days in the block.
func (b WorkBlock) Length() int { return b.End - b.Start + 1 }

// Uniform returns the block's single shift type, if it has one.
func (b WorkBlock) Uniform() (Status, bool) {
	if len(b.Shifts) == 0 {
		return Rest, false
	}
	for _, s := range b.Shifts[1:] {
		if s != b.Shifts[0] {
			return b.Shifts[0], false
		}
	}
	return b.Shifts[0], true
}

// WorkerSchedule returns one worker's statuses in chronological order.
func (sol *Solution) WorkerSchedule(worker int) []Status {
	out := make([]Status, len(sol.Days))
	for d := range sol.Days {
		out[d] = sol.Status(worker, d)
	}
	return out
}

// Roster returns the workers (0-based) assigned to a shift on a day.
func (sol *Solution) Roster(day int, shift Status) []int {
	var out []int
	for w := 0; w < sol.Workers; w++ {
		if sol.Status(w, day) == shift {
			out = append(out, w)
		}
	}
	return out
}

// WorkBlocks partitions one worker's month into maximal work blocks, for
// audit.
func (sol *Solution) WorkBlocks(worker int) []WorkBlock {
	var blocks []WorkBlock
	nd := len(sol.Days)
	d := 0
	for d < nd {
		if sol.Status(worker, d) == Rest {
			d++
			continue
		}
		b := WorkBlock{Start: d + 1}
		for d < nd && sol.Status(worker, d) != Rest {
			b.Shifts = append(b.Shifts, sol.Status(worker, d))
			d++
		}
		b.End = d
		blocks = append(blocks, b)
	}
	return blocks
}

// WorkingDays counts one worker's non-rest days across the month.
func (sol *Solution) WorkingDays(worker int) int {
	n := 0
	for d := range sol.Days {
		if sol.Status(worker, d) != Rest {
			n++
		}
	}
	return n
}

// ShiftTotals sums assignments per shift type across the whole month.
func (sol *Solution) ShiftTotals() map[Status]int {
	totals := make(map[Status]int, len(Shifts))
	for _, s := range Shifts {
		totals[s] = 0
	}
	for d := range sol.Days {
		for w := 0; w < sol.Workers; w++ {
			if s := sol.Status(w, d); s != Rest {
				totals[s]++
			}
		}
	}
	return totals
}
