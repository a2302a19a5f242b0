package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoConfigIsValid(t *testing.T) {
	cfg := DemoConfig()
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7, cfg.NumActions())
	assert.Equal(t, 6, cfg.IdleAction())
	assert.Equal(t, 1440.0, cfg.DayLengthMinutes)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{
		NumShifts:          2,
		ShiftLengthMinutes: 100,
		BaseProcessTimes:   []float64{5, 8},
	}
	cfg.ApplyDefaults()
	assert.Equal(t, 200.0, cfg.DayLengthMinutes)
	assert.Equal(t, 1.0, cfg.IdleTickMinutes)
	assert.Equal(t, []float64{5, 8}, cfg.MinProcessTimes)
}

func TestConfigMachineTypeWraps(t *testing.T) {
	cfg := DemoConfig()
	// more machines than types cycles through the type list
	assert.Equal(t, 0, cfg.MachineType(0))
	assert.Equal(t, 3, cfg.MachineType(3))
	assert.Equal(t, 0, cfg.MachineType(4))
}

func TestConfigPriorityDefaultsToZero(t *testing.T) {
	cfg := DemoConfig()
	assert.Equal(t, 2, cfg.Priority(1))
	assert.Equal(t, 0, cfg.Priority(99))
}

func TestConfigValidateRejectsBadScenarios(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero machines", func(c *Config) { c.NumMachines = 0 }},
		{"zero operators", func(c *Config) { c.NumOperators = 0 }},
		{"zero shifts", func(c *Config) { c.NumShifts = 0 }},
		{"negative shift length", func(c *Config) { c.ShiftLengthMinutes = -1; c.DayLengthMinutes = 100 }},
		{"zero target", func(c *Config) { c.TargetPerDay = 0 }},
		{"no machine types", func(c *Config) { c.MachineTypes = nil }},
		{"process time count mismatch", func(c *Config) { c.BaseProcessTimes = []float64{1} }},
		{"zero process time", func(c *Config) { c.BaseProcessTimes[0] = 0 }},
		{"skill matrix row count", func(c *Config) { c.SkillMatrix = c.SkillMatrix[:2] }},
		{"skill out of range", func(c *Config) { c.SkillMatrix[0][0] = 1.2 }},
		{"capacity row count", func(c *Config) { c.CapacityMinutes = c.CapacityMinutes[:1] }},
		{"negative capacity", func(c *Config) { c.CapacityMinutes[0][0] = -10 }},
		{"breakdown probability above one", func(c *Config) { c.BreakdownProb = 1.5 }},
		{"fatigue threshold above one", func(c *Config) { c.FatigueThreshold = 2 }},
		{"discount above one", func(c *Config) { c.Gamma = 1.01 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DemoConfig()
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMergesOverDemoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_production_per_day: 40\nepsilon_end: 0.1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TargetPerDay)
	assert.Equal(t, 0.1, cfg.EpsilonEnd)
	// untouched fields keep the demo values
	assert.Equal(t, 4, cfg.NumMachines)
	assert.Equal(t, 0.02, cfg.BreakdownProb)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_machines: 0\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
