package rl

// Environment is the contract between the simulated floor and the episode
// driver. The action space is a static integer range [0, NumActions): the
// environment decides legality inside Step and never returns an error for
// a bad action.
type Environment interface {
	// Reset rewinds the simulation to the start of an episode and returns
	// the initial state.
	Reset() State
	// Step applies an action and returns the next state, the reward for
	// the transition, whether the episode is over and a side channel with
	// diagnostic counters.
	Step(action int) (State, float64, bool, Info)
	// NumActions is the size of the static action space.
	NumActions() int
}

// State of the simulation as the agent observes it.
type State interface {
	// Key indexes the value table. Must be deterministic: two observations
	// that bucket identically produce the same key.
	Key() string
}

// Info carries per-step diagnostics out of the environment. Anomalies such
// as illegal actions are reported here instead of being raised as errors.
type Info map[string]any

// Well-known Info keys filled by the factory environment.
const (
	InfoProduced  = "produced_good_parts"
	InfoDefective = "defective_parts"
	InfoClock     = "current_time"
	InfoShift     = "current_shift"
	InfoIllegal   = "illegal_action"
)

// Recorder is implemented by environments that can capture visualization
// history alongside the simulation.
type Recorder interface {
	SetRecording(on bool)
}
