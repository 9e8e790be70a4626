package scheduler

import "fmt"

// Precheck validates a configuration without running any search. It is a
// closed-form screen: a configuration that passes may still prove infeasible,
// but one that fails here can never be solved.
func Precheck(cfg Config) error {
	if cfg.Workers < 1 {
		return &ConfigError{
			Code:   CodeInsufficientWorkers,
			Reason: "at least one worker is required",
		}
	}

	if cfg.MinWorkingDays < 1 || cfg.MinWorkingDays > 7 ||
		cfg.MaxWorkingDays < 1 || cfg.MaxWorkingDays > 7 {
		return &ConfigError{
			Code: CodeIncompatibleBounds,
			Reason: fmt.Sprintf("working-day bounds [%d,%d] must lie within [1,7]",
				cfg.MinWorkingDays, cfg.MaxWorkingDays),
		}
	}
	if cfg.MinWorkingDays > cfg.MaxWorkingDays {
		return &ConfigError{
			Code: CodeIncompatibleBounds,
			Reason: fmt.Sprintf("min working days %d exceeds max %d",
				cfg.MinWorkingDays, cfg.MaxWorkingDays),
		}
	}
	// A 4-on/2-off rhythm puts 3 to 5 working days in any week depending on
	// phase, so strict mode needs headroom for at least 4.
	if cfg.StrictPattern && cfg.MaxWorkingDays < 4 {
		return &ConfigError{
			Code: CodeIncompatibleBounds,
			Reason: fmt.Sprintf("strict 4-on/2-off pattern requires max working days >= 4, got %d",
				cfg.MaxWorkingDays),
		}
	}

	for _, s := range Shifts {
		t := cfg.target(s)
		if t.Min < 0 || t.Max < 0 || t.Min > t.Max {
			return &ConfigError{
				Code:   CodeIncompatibleBounds,
				Reason: fmt.Sprintf("coverage target [%d,%d] for %s shift is not a valid range", t.Min, t.Max, s),
			}
		}
	}

	// Full staffing of a weekday takes one worker per shift slot. Shifts
	// without an explicit target are uncapped and need no headcount of their
	// own.
	required := 0
	for _, s := range Shifts {
		if t, ok := cfg.Coverage[s]; ok {
			required += t.Max
		}
	}
	if cfg.Workers < required {
		return &ConfigError{
			Code: CodeInsufficientWorkers,
			Reason: fmt.Sprintf("%d workers cannot staff %d weekday shift slots (%d shifts at their coverage level)",
				cfg.Workers, required, len(Shifts)),
		}
	}

	// Sundays run without the Extended shift, so their minimum coverage must
	// be reachable from the remaining three shifts alone.
	sundayMin := 0
	for _, s := range SundayShifts {
		sundayMin += cfg.target(s).Min
	}
	if sundayMin > cfg.Workers {
		return &ConfigError{
			Code: CodeSundayCoverage,
			Reason: fmt.Sprintf("Sunday shifts require at least %d workers but only %d are configured",
				sundayMin, cfg.Workers),
		}
	}

	return nil
}
