package rl

// TraceStep is one transition of an episode, recorded by state key rather
// than by the full observation so traces stay cheap to keep around.
type TraceStep struct {
	State    string
	Action   int
	Reward   float64
	Next     string
	Terminal bool
}

// Trace collects the transitions of a single episode.
type Trace struct {
	steps []TraceStep
}

func NewTrace() *Trace {
	return &Trace{steps: make([]TraceStep, 0)}
}

func (t *Trace) Append(state string, action int, reward float64, next string, terminal bool) {
	t.steps = append(t.steps, TraceStep{
		State:    state,
		Action:   action,
		Reward:   reward,
		Next:     next,
		Terminal: terminal,
	})
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (TraceStep, bool) {
	if i < 0 || i >= len(t.steps) {
		return TraceStep{}, false
	}
	return t.steps[i], true
}

// Return is the undiscounted sum of rewards along the trace.
func (t *Trace) Return() float64 {
	total := 0.0
	for _, s := range t.steps {
		total += s.Reward
	}
	return total
}
