package rl

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainEnv walks a fixed chain of states; action 1 pays one unit of reward
// per step, everything else pays nothing.
type chainEnv struct {
	length int
	pos    int
}

func (e *chainEnv) Reset() State {
	e.pos = 0
	return stateKey("s0")
}

func (e *chainEnv) Step(action int) (State, float64, bool, Info) {
	e.pos++
	reward := 0.0
	if action == 1 {
		reward = 1
	}
	done := e.pos >= e.length
	info := Info{
		InfoProduced:  e.pos,
		InfoDefective: 0,
	}
	return stateKey(fmt.Sprintf("s%d", e.pos)), reward, done, info
}

func (e *chainEnv) NumActions() int { return 2 }

func newChainAgent(t *testing.T, epsilon float64) *QLearningAgent {
	t.Helper()
	agent, err := NewQLearningAgent(AgentConfig{
		NumActions: 2,
		Gamma:      0.9,
		Epsilon:    constSchedule(epsilon),
		Alpha:      constSchedule(0.5),
		Seed:       7,
	})
	require.NoError(t, err)
	return agent
}

func TestExperimentCollectsStats(t *testing.T) {
	env := &chainEnv{length: 5}
	agent := newChainAgent(t, 0.5)
	exp := NewExperiment("chain", env, agent, ExperimentConfig{Episodes: 10, Horizon: 100})

	require.NoError(t, exp.Run(context.Background()))
	require.Len(t, exp.Stats, 10)
	require.Len(t, exp.Coverage, 10)
	for i, s := range exp.Stats {
		assert.Equal(t, i, s.Episode)
		assert.Equal(t, 5, s.Steps)
		assert.Equal(t, 5, s.Produced)
	}
	// the chain has 6 distinct states, all reachable in one episode
	assert.Equal(t, 6, exp.Coverage[0])
	assert.Equal(t, 6, exp.Coverage[9])
	assert.GreaterOrEqual(t, exp.BestEpisode, 0)
	assert.Equal(t, exp.Stats[exp.BestEpisode].Return, exp.BestReturn)
}

func TestExperimentCoverageIsMonotone(t *testing.T) {
	env := &chainEnv{length: 3}
	agent := newChainAgent(t, 1.0)
	exp := NewExperiment("chain", env, agent, ExperimentConfig{Episodes: 5})
	require.NoError(t, exp.Run(context.Background()))
	for i := 1; i < len(exp.Coverage); i++ {
		assert.GreaterOrEqual(t, exp.Coverage[i], exp.Coverage[i-1])
	}
}

func TestExperimentLearnsChainReward(t *testing.T) {
	env := &chainEnv{length: 5}
	agent := newChainAgent(t, 1.0)
	exp := NewExperiment("chain", env, agent, ExperimentConfig{Episodes: 200})
	require.NoError(t, exp.Run(context.Background()))

	// with reward only on action 1 the greedy policy collects it every step
	stats, trace := RunGreedyEpisode(env, agent, 100)
	assert.Equal(t, 5.0, stats.Return)
	assert.Equal(t, 5, trace.Len())
	step, ok := trace.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1, step.Action)
}

func TestExperimentHonorsContext(t *testing.T) {
	env := &chainEnv{length: 5}
	agent := newChainAgent(t, 0.5)
	exp := NewExperiment("chain", env, agent, ExperimentConfig{Episodes: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, exp.Run(ctx), context.Canceled)
	assert.Empty(t, exp.Stats)
}

func TestExperimentRecordsTraces(t *testing.T) {
	env := &chainEnv{length: 4}
	agent := newChainAgent(t, 0.5)
	exp := NewExperiment("chain", env, agent, ExperimentConfig{Episodes: 3, RecordTraces: true})
	require.NoError(t, exp.Run(context.Background()))
	require.Len(t, exp.Traces, 3)
	for _, tr := range exp.Traces {
		assert.Equal(t, 4, tr.Len())
		last, ok := tr.Get(tr.Len() - 1)
		require.True(t, ok)
		assert.True(t, last.Terminal)
	}
}
