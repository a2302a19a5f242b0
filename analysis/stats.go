package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

// Summary of a metric over a set of episodes.
type Summary struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(values, nil),
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// MovingAverage smooths a series with a trailing window. Shorter prefixes
// average over what exists so the output length matches the input.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		n := window
		if i+1 < window {
			n = i + 1
		} else if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Returns extracts the per-episode returns from training stats.
func Returns(stats []rl.EpisodeStats) []float64 {
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = s.Return
	}
	return out
}

// Produced extracts the per-episode good-part counts.
func Produced(stats []rl.EpisodeStats) []float64 {
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = float64(s.Produced)
	}
	return out
}

// Epsilons extracts the exploration rate used per episode.
func Epsilons(stats []rl.EpisodeStats) []float64 {
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = s.Epsilon
	}
	return out
}
