package rl

import "fmt"

// Schedule is a deterministic, monotonically non-increasing function of the
// episode index. Both the exploration rate and the learning rate decay this
// way: never as a function of performance, so training runs are exactly
// reproducible.
type Schedule struct {
	Start   float64
	End     float64
	Horizon int

	// Mid and SplitFrac describe an optional two-phase decay: Start to Mid
	// over the first SplitFrac of the horizon, then Mid to End over the
	// remainder. With SplitFrac == 0 the decay is a single linear ramp.
	Mid       float64
	SplitFrac float64
}

// NewLinearSchedule decays linearly from start to end over horizon episodes
// and holds end afterwards.
func NewLinearSchedule(start, end float64, horizon int) Schedule {
	return Schedule{Start: start, End: end, Horizon: horizon}
}

// NewEpsilonSchedule is the exploration decay used for training: a fast
// first phase down to 0.3 over the first 30% of the horizon while the agent
// roughs out the table, then a slow ramp to the floor.
func NewEpsilonSchedule(start, end float64, horizon int) Schedule {
	// clamp the midpoint into [end, start]: a scenario may start below 0.3
	mid := 0.3
	if end > mid {
		mid = end
	}
	if start < mid {
		mid = start
	}
	return Schedule{Start: start, End: end, Horizon: horizon, Mid: mid, SplitFrac: 0.3}
}

// NewAlphaSchedule decays the learning rate linearly to a tenth of its
// starting value, keeping late episodes from churning settled values.
func NewAlphaSchedule(start float64, horizon int) Schedule {
	return NewLinearSchedule(start, start*0.1, horizon)
}

func (s Schedule) Validate() error {
	if s.Horizon <= 0 {
		return fmt.Errorf("schedule horizon must be positive, got %d", s.Horizon)
	}
	if s.Start < s.End {
		return fmt.Errorf("schedule start %.3f below end %.3f", s.Start, s.End)
	}
	if s.End < 0 {
		return fmt.Errorf("schedule end must be non-negative, got %.3f", s.End)
	}
	if s.SplitFrac < 0 || s.SplitFrac >= 1 {
		return fmt.Errorf("schedule split fraction %.3f outside [0, 1)", s.SplitFrac)
	}
	if s.SplitFrac > 0 && (s.Mid > s.Start || s.Mid < s.End) {
		return fmt.Errorf("schedule mid %.3f outside [%.3f, %.3f]", s.Mid, s.End, s.Start)
	}
	return nil
}

// At evaluates the schedule for an episode index. Past the horizon the
// floor is held.
func (s Schedule) At(episode int) float64 {
	if episode >= s.Horizon {
		return s.End
	}
	if episode < 0 {
		return s.Start
	}
	if s.SplitFrac == 0 {
		ratio := float64(episode) / float64(s.Horizon)
		return s.clamp(s.Start + ratio*(s.End-s.Start))
	}
	split := int(s.SplitFrac * float64(s.Horizon))
	if split < 1 {
		split = 1
	}
	if episode <= split {
		ratio := float64(episode) / float64(split)
		return s.clamp(s.Start + ratio*(s.Mid-s.Start))
	}
	remaining := s.Horizon - split
	ratio := float64(episode-split) / float64(remaining)
	return s.clamp(s.Mid + ratio*(s.End-s.Mid))
}

func (s Schedule) clamp(v float64) float64 {
	if v > s.Start {
		return s.Start
	}
	if v < s.End {
		return s.End
	}
	return v
}
