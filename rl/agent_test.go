package rl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateKey is a bare state for driving the agent without a simulation.
type stateKey string

func (s stateKey) Key() string { return string(s) }

func constSchedule(v float64) Schedule {
	return NewLinearSchedule(v, v, 1)
}

func newTestAgent(t *testing.T, epsilon float64) *QLearningAgent {
	t.Helper()
	agent, err := NewQLearningAgent(AgentConfig{
		NumActions: 5,
		Gamma:      0.9,
		Epsilon:    constSchedule(epsilon),
		Alpha:      constSchedule(0.5),
		Seed:       1,
	})
	require.NoError(t, err)
	return agent
}

func TestAgentConfigValidate(t *testing.T) {
	cfg := AgentConfig{
		NumActions: 3,
		Gamma:      0.99,
		Epsilon:    constSchedule(0.1),
		Alpha:      constSchedule(0.1),
	}
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.NumActions = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Gamma = 1.5
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Epsilon = Schedule{}
	assert.Error(t, bad.Validate())
}

func TestAgentUpdateBootstraps(t *testing.T) {
	agent := newTestAgent(t, 0)
	agent.Table().Set("s", 2, 2.0)
	agent.Table().Set("t", 1, 4.0)

	// Q(s,2) <- 2 + 0.5 * (10 + 0.9*4 - 2) = 7.8
	agent.Update(stateKey("s"), 2, 10, stateKey("t"), false, 0)
	assert.InDelta(t, 7.8, agent.Table().Value("s", 2), 1e-9)
}

func TestAgentUpdateTerminalDropsBootstrap(t *testing.T) {
	agent := newTestAgent(t, 0)
	agent.Table().Set("s", 2, 2.0)
	agent.Table().Set("t", 1, 4.0)

	// Q(s,2) <- 2 + 0.5 * (10 - 2) = 6, the next state's values are ignored
	agent.Update(stateKey("s"), 2, 10, stateKey("t"), true, 0)
	assert.InDelta(t, 6.0, agent.Table().Value("s", 2), 1e-9)
}

func TestAgentUpdateIgnoresOutOfRangeAction(t *testing.T) {
	agent := newTestAgent(t, 0)
	agent.Update(stateKey("s"), 99, 10, stateKey("t"), false, 0)
	assert.Equal(t, 0, agent.Table().Len())
}

func TestAgentGreedyIsDeterministic(t *testing.T) {
	agent := newTestAgent(t, 1.0) // full exploration, greedy must override it
	agent.Table().Set("s", 3, 1.0)
	for i := 0; i < 50; i++ {
		assert.Equal(t, 3, agent.SelectAction(stateKey("s"), 0, true))
	}
}

func TestAgentZeroEpsilonFollowsTable(t *testing.T) {
	agent := newTestAgent(t, 0)
	agent.Table().Set("s", 4, 2.5)
	for i := 0; i < 50; i++ {
		assert.Equal(t, 4, agent.SelectAction(stateKey("s"), i, false))
	}
}

func TestAgentExplorationStaysInRange(t *testing.T) {
	agent := newTestAgent(t, 1.0)
	for i := 0; i < 200; i++ {
		a := agent.SelectAction(stateKey("s"), 0, false)
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, 5)
	}
}

func TestAgentSampleSoftmax(t *testing.T) {
	agent := newTestAgent(t, 0)
	agent.Table().Set("s", 1, 10)

	_, ok := agent.SampleSoftmax(stateKey("s"), 0)
	assert.False(t, ok, "non-positive temperature has no distribution")

	counts := make(map[int]int)
	for i := 0; i < 200; i++ {
		a, ok := agent.SampleSoftmax(stateKey("s"), 0.5)
		require.True(t, ok)
		require.GreaterOrEqual(t, a, 0)
		require.Less(t, a, 5)
		counts[a]++
	}
	// at this temperature the 10-point gap dominates the draw
	assert.Greater(t, counts[1], 150)
}

func TestAgentSampleSoftmaxLargeValues(t *testing.T) {
	// values far beyond exp's overflow point must still yield a proper
	// distribution: the 50-point gap makes action 0 a near-certain draw
	agent := newTestAgent(t, 0)
	agent.Table().Set("s", 0, 800)
	agent.Table().Set("s", 1, 750)

	for i := 0; i < 100; i++ {
		a, ok := agent.SampleSoftmax(stateKey("s"), 1.0)
		require.True(t, ok)
		assert.Equal(t, 0, a)
	}
}

func TestAgentSetTableChecksActionSpace(t *testing.T) {
	agent := newTestAgent(t, 0)
	assert.Error(t, agent.SetTable(NewQTable(3)))
	assert.NoError(t, agent.SetTable(NewQTable(5)))
}
