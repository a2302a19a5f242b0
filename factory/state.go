package factory

import (
	"fmt"
	"strings"
)

// Status of a machine.
type Status int

const (
	StatusIdle Status = iota
	StatusBusy
	StatusBroken
	StatusMaintenance
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusBusy:
		return "busy"
	case StatusBroken:
		return "broken"
	case StatusMaintenance:
		return "maintenance"
	}
	return "unknown"
}

// Skill buckets.
const (
	SkillLow = iota
	SkillMedium
	SkillHigh
)

// Observation is the raw, un-bucketed view of the floor at a decision
// point. The encoder compresses it into a DecisionState.
type Observation struct {
	// Machine awaiting assignment, -1 when none is free.
	Machine  int
	Priority int
	Shift    int

	TimeRemaining float64
	Shortfall     int

	OperatorFree []bool
	// Skills of every operator on the awaiting machine's type; zeros when
	// no machine awaits.
	Skills []float64

	MachineStatus []Status
}

// DecisionState is the discretized key for the value table: a fixed-shape
// tuple of small integers. Two raw observations that differ only within a
// bucket width map to the same state, deliberately.
type DecisionState struct {
	Machine    int
	Priority   int
	Shift      int
	TimeBucket int
	GapBucket  int

	Available     []int
	SkillBuckets  []int
	MachineStatus []int
}

// Key renders the state as a deterministic string for table indexing.
func (s *DecisionState) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%d %d %d %d %d|", s.Machine, s.Priority, s.Shift, s.TimeBucket, s.GapBucket)
	writeInts(&b, s.Available)
	b.WriteByte('|')
	writeInts(&b, s.SkillBuckets)
	b.WriteByte('|')
	writeInts(&b, s.MachineStatus)
	b.WriteByte(')')
	return b.String()
}

func writeInts(b *strings.Builder, vals []int) {
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%d", v)
	}
}

// Encoder buckets raw observations into DecisionStates. Pure and
// deterministic: no randomness, no internal state beyond the fixed ranges.
// All thresholds compare with <=, so a value exactly on a boundary falls
// into the lower-indexed bucket; the buckets are exhaustive and disjoint.
type Encoder struct {
	DayLength float64
	Target    int
}

func NewEncoder(cfg Config) Encoder {
	return Encoder{
		DayLength: cfg.DayLengthMinutes,
		Target:    cfg.TargetPerDay,
	}
}

func (e Encoder) Encode(obs Observation) *DecisionState {
	state := &DecisionState{
		Machine:       obs.Machine,
		Priority:      obs.Priority,
		Shift:         obs.Shift,
		TimeBucket:    e.TimeBucket(obs.TimeRemaining),
		GapBucket:     e.GapBucket(obs.Shortfall),
		Available:     make([]int, len(obs.OperatorFree)),
		SkillBuckets:  make([]int, len(obs.Skills)),
		MachineStatus: make([]int, len(obs.MachineStatus)),
	}
	if state.Machine < 0 {
		// No machine awaiting assignment: collapse onto a default slot so
		// the key stays well-formed.
		state.Machine = 0
		state.Priority = 0
	}
	for i, free := range obs.OperatorFree {
		if free {
			state.Available[i] = 1
		}
	}
	for i, skill := range obs.Skills {
		state.SkillBuckets[i] = e.SkillBucket(skill)
	}
	for i, st := range obs.MachineStatus {
		state.MachineStatus[i] = int(st)
	}
	return state
}

// TimeBucket places the remaining minutes into 4 ordinal buckets over the
// day length: 0 none left, 1 final quarter, 2 second half, 3 otherwise.
func (e Encoder) TimeBucket(remaining float64) int {
	switch {
	case remaining <= 0:
		return 0
	case remaining <= e.DayLength/4:
		return 1
	case remaining <= e.DayLength/2:
		return 2
	default:
		return 3
	}
}

// GapBucket places the production shortfall into 4 ordinal buckets over
// the daily target, with cutoffs at a third and two thirds of it.
func (e Encoder) GapBucket(shortfall int) int {
	t := float64(e.Target)
	switch {
	case shortfall <= 0:
		return 0
	case float64(shortfall) <= t/3:
		return 1
	case float64(shortfall) <= 2*t/3:
		return 2
	default:
		return 3
	}
}

// SkillBucket classifies a skill in [0, 1] as low, medium or high.
func (e Encoder) SkillBucket(skill float64) int {
	switch {
	case skill <= 0.3:
		return SkillLow
	case skill <= 0.7:
		return SkillMedium
	default:
		return SkillHigh
	}
}
