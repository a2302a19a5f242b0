package rl

import (
	"context"
	"fmt"
)

// EpisodeStats summarizes one training or evaluation episode.
type EpisodeStats struct {
	Episode   int
	Return    float64
	Produced  int
	Defective int
	Steps     int
	Epsilon   float64
	Alpha     float64
}

type ExperimentConfig struct {
	Episodes int
	// Horizon caps the number of steps per episode as a safety net; the
	// environment normally terminates on its own clock first.
	Horizon int
	// RecordTraces keeps the full transition trace of every episode.
	RecordTraces bool
	// ProgressEvery prints a stats line every N episodes (0 disables it).
	ProgressEvery int
}

// Experiment drives one agent against one environment for a number of
// episodes and collects per-episode statistics plus state-space coverage.
type Experiment struct {
	name   string
	env    Environment
	agent  *QLearningAgent
	config ExperimentConfig

	Stats  []EpisodeStats
	Traces []*Trace
	// Coverage[i] is the number of unique state keys seen after episode i.
	Coverage    []int
	BestEpisode int
	BestReturn  float64
}

func NewExperiment(name string, env Environment, agent *QLearningAgent, config ExperimentConfig) *Experiment {
	if config.Horizon <= 0 {
		config.Horizon = 10000
	}
	return &Experiment{
		name:        name,
		env:         env,
		agent:       agent,
		config:      config,
		Stats:       make([]EpisodeStats, 0, config.Episodes),
		Traces:      make([]*Trace, 0),
		Coverage:    make([]int, 0, config.Episodes),
		BestEpisode: -1,
	}
}

// Run executes the training loop. The context is checked between episodes
// only: a single episode always runs to its terminal state.
func (e *Experiment) Run(ctx context.Context) error {
	fmt.Printf("Running Experiment: %s\n", e.name)
	seen := make(map[string]struct{})
	for i := 0; i < e.config.Episodes; i++ {
		select {
		case <-ctx.Done():
			fmt.Println("")
			return ctx.Err()
		default:
		}
		fmt.Printf("\rExperiment: %s, Episode: %d/%d", e.name, i+1, e.config.Episodes)

		stats, trace := e.runEpisode(i, seen)
		e.Stats = append(e.Stats, stats)
		e.Coverage = append(e.Coverage, len(seen))
		if e.config.RecordTraces {
			e.Traces = append(e.Traces, trace)
		}
		if e.BestEpisode < 0 || stats.Return > e.BestReturn {
			e.BestEpisode = i
			e.BestReturn = stats.Return
		}
		if e.config.ProgressEvery > 0 && (i+1)%e.config.ProgressEvery == 0 {
			avg := e.recentAverage(e.config.ProgressEvery)
			fmt.Printf("\rEpisode %d/%d: return=%.2f, produced=%d, avg_return=%.2f, epsilon=%.3f\n",
				i+1, e.config.Episodes, stats.Return, stats.Produced, avg, stats.Epsilon)
		}
	}
	fmt.Println("")
	return nil
}

func (e *Experiment) runEpisode(episode int, seen map[string]struct{}) (EpisodeStats, *Trace) {
	state := e.env.Reset()
	seen[state.Key()] = struct{}{}
	trace := NewTrace()
	stats := EpisodeStats{
		Episode: episode,
		Epsilon: e.agent.Epsilon(episode),
		Alpha:   e.agent.LearningRate(episode),
	}

	terminal := false
	var info Info
	for step := 0; !terminal && step < e.config.Horizon; step++ {
		action := e.agent.SelectAction(state, episode, false)
		next, reward, done, stepInfo := e.env.Step(action)
		e.agent.Update(state, action, reward, next, done, episode)

		trace.Append(state.Key(), action, reward, next.Key(), done)
		seen[next.Key()] = struct{}{}
		stats.Return += reward
		stats.Steps++
		state = next
		terminal = done
		info = stepInfo
	}
	stats.Produced, stats.Defective = productionCounters(info)
	return stats, trace
}

func (e *Experiment) recentAverage(window int) float64 {
	if len(e.Stats) == 0 {
		return 0
	}
	if window > len(e.Stats) {
		window = len(e.Stats)
	}
	total := 0.0
	for _, s := range e.Stats[len(e.Stats)-window:] {
		total += s.Return
	}
	return total / float64(window)
}

// RunGreedyEpisode plays a single episode with the greedy policy, no
// exploration and no table updates. Used for evaluation and for rendering.
func RunGreedyEpisode(env Environment, agent *QLearningAgent, horizon int) (EpisodeStats, *Trace) {
	if horizon <= 0 {
		horizon = 10000
	}
	state := env.Reset()
	trace := NewTrace()
	stats := EpisodeStats{}

	terminal := false
	var info Info
	for step := 0; !terminal && step < horizon; step++ {
		action := agent.SelectAction(state, 0, true)
		next, reward, done, stepInfo := env.Step(action)
		trace.Append(state.Key(), action, reward, next.Key(), done)
		stats.Return += reward
		stats.Steps++
		state = next
		terminal = done
		info = stepInfo
	}
	stats.Produced, stats.Defective = productionCounters(info)
	return stats, trace
}

func productionCounters(info Info) (produced, defective int) {
	if info == nil {
		return 0, 0
	}
	if v, ok := info[InfoProduced].(int); ok {
		produced = v
	}
	if v, ok := info[InfoDefective].(int); ok {
		defective = v
	}
	return produced, defective
}
