package rl

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type AgentConfig struct {
	NumActions int
	Gamma      float64
	Epsilon    Schedule
	Alpha      Schedule
	Seed       uint64
}

func (c AgentConfig) Validate() error {
	if c.NumActions <= 0 {
		return fmt.Errorf("agent needs a positive action space, got %d", c.NumActions)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("discount factor %.3f outside [0, 1]", c.Gamma)
	}
	if err := c.Epsilon.Validate(); err != nil {
		return fmt.Errorf("epsilon schedule: %w", err)
	}
	if err := c.Alpha.Validate(); err != nil {
		return fmt.Errorf("alpha schedule: %w", err)
	}
	return nil
}

// QLearningAgent owns the value table and the exploration and learning-rate
// schedules. It is safe to run several agents side by side: all state,
// including the random source, is per instance.
type QLearningAgent struct {
	config AgentConfig
	table  *QTable
	rand   *rand.Rand
}

func NewQLearningAgent(config AgentConfig) (*QLearningAgent, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &QLearningAgent{
		config: config,
		table:  NewQTable(config.NumActions),
		rand:   rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// Table exposes the value table for persistence. Callers that only read
// should go through Snapshot.
func (a *QLearningAgent) Table() *QTable {
	return a.table
}

// SetTable swaps in a previously persisted table.
func (a *QLearningAgent) SetTable(t *QTable) error {
	if t.NumActions() != a.config.NumActions {
		return fmt.Errorf("table has %d actions, agent expects %d", t.NumActions(), a.config.NumActions)
	}
	a.table = t
	return nil
}

func (a *QLearningAgent) Epsilon(episode int) float64 {
	return a.config.Epsilon.At(episode)
}

func (a *QLearningAgent) LearningRate(episode int) float64 {
	return a.config.Alpha.At(episode)
}

// SelectAction picks an action for the state. With greedy unset it explores
// with probability epsilon(episode); the greedy path is fully deterministic,
// ties breaking on the lowest action index.
func (a *QLearningAgent) SelectAction(state State, episode int, greedy bool) int {
	if !greedy && a.rand.Float64() < a.config.Epsilon.At(episode) {
		return a.rand.Intn(a.config.NumActions)
	}
	action, _ := a.table.Best(state.Key())
	return action
}

// SampleSoftmax draws an action from the Boltzmann distribution over the
// state's values. Useful for evaluating how sharp the learned preferences
// are without committing to the argmax.
func (a *QLearningAgent) SampleSoftmax(state State, temperature float64) (int, bool) {
	if temperature <= 0 {
		return 0, false
	}
	vals := a.table.Get(state.Key())
	// shift by the max value so the exponentials cannot overflow
	maxVal := vals[0]
	for _, v := range vals[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	weights := make([]float64, len(vals))
	sum := 0.0
	for i, v := range vals {
		e := math.Exp((v - maxVal) / temperature)
		weights[i] = e
		sum += e
	}
	for i := range weights {
		weights[i] /= sum
	}
	i, ok := sampleuv.NewWeighted(weights, a.rand).Take()
	if !ok {
		return 0, false
	}
	return i, true
}

// Update applies the Q-learning rule
//
//	Q(s,a) <- Q(s,a) + alpha * (r + gamma * max_a' Q(s',a') * (1 - terminal) - Q(s,a))
//
// where alpha comes from the schedule for the given episode. The bootstrap
// term is zeroed on terminal transitions: terminal states have no future.
func (a *QLearningAgent) Update(state State, action int, reward float64, next State, terminal bool, episode int) {
	if action < 0 || action >= a.config.NumActions {
		return
	}
	key := state.Key()
	cur := a.table.Value(key, action)
	target := reward
	if !terminal {
		target += a.config.Gamma * a.table.MaxValue(next.Key())
	}
	alpha := a.config.Alpha.At(episode)
	a.table.Set(key, action, cur+alpha*(target-cur))
}
