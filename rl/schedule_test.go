package rl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearScheduleEndpoints(t *testing.T) {
	s := NewLinearSchedule(1.0, 0.1, 10)
	require.NoError(t, s.Validate())
	assert.Equal(t, 1.0, s.At(0))
	assert.InDelta(t, 0.55, s.At(5), 1e-9)
	assert.Equal(t, 0.1, s.At(10))
	// floor held past the horizon
	assert.Equal(t, 0.1, s.At(1000))
	// negative episodes clamp to the start
	assert.Equal(t, 1.0, s.At(-3))
}

func TestEpsilonScheduleTwoPhases(t *testing.T) {
	s := NewEpsilonSchedule(1.0, 0.05, 100)
	require.NoError(t, s.Validate())
	assert.Equal(t, 1.0, s.At(0))
	// fast phase reaches 0.3 at 30% of the horizon
	assert.InDelta(t, 0.3, s.At(30), 1e-9)
	assert.Equal(t, 0.05, s.At(100))
	assert.Equal(t, 0.05, s.At(500))
}

func TestEpsilonScheduleNonIncreasing(t *testing.T) {
	s := NewEpsilonSchedule(1.0, 0.05, 100)
	prev := s.At(0)
	for ep := 1; ep <= 120; ep++ {
		cur := s.At(ep)
		assert.LessOrEqual(t, cur, prev, "episode %d", ep)
		prev = cur
	}
}

func TestEpsilonScheduleLowStart(t *testing.T) {
	// a start below the default 0.3 midpoint is a legal scenario; the
	// midpoint must clamp down to it
	s := NewEpsilonSchedule(0.2, 0.05, 100)
	require.NoError(t, s.Validate())
	assert.Equal(t, 0.2, s.At(0))
	assert.Equal(t, 0.05, s.At(100))
	prev := s.At(0)
	for ep := 1; ep <= 120; ep++ {
		cur := s.At(ep)
		assert.LessOrEqual(t, cur, prev, "episode %d", ep)
		prev = cur
	}
}

func TestEpsilonScheduleHighFloor(t *testing.T) {
	// with a floor above 0.3 the mid point is lifted to the floor
	s := NewEpsilonSchedule(1.0, 0.5, 100)
	require.NoError(t, s.Validate())
	for ep := 0; ep <= 120; ep++ {
		assert.GreaterOrEqual(t, s.At(ep), 0.5)
	}
}

func TestAlphaScheduleDecaysToTenth(t *testing.T) {
	s := NewAlphaSchedule(0.1, 50)
	require.NoError(t, s.Validate())
	assert.Equal(t, 0.1, s.At(0))
	assert.InDelta(t, 0.01, s.At(50), 1e-9)
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		ok       bool
	}{
		{"valid linear", NewLinearSchedule(1, 0, 10), true},
		{"zero horizon", Schedule{Start: 1, End: 0}, false},
		{"start below end", Schedule{Start: 0.1, End: 0.5, Horizon: 10}, false},
		{"negative end", Schedule{Start: 1, End: -0.1, Horizon: 10}, false},
		{"mid above start", Schedule{Start: 0.5, End: 0.1, Horizon: 10, Mid: 0.9, SplitFrac: 0.3}, false},
		{"split fraction one", Schedule{Start: 1, End: 0, Horizon: 10, Mid: 0.5, SplitFrac: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
