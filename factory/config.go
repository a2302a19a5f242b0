package factory

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full scenario description consumed at construction time.
// The environment never reads configuration after New: everything here is
// static for the lifetime of an instance.
type Config struct {
	NumMachines  int `mapstructure:"num_machines" yaml:"num_machines"`
	NumOperators int `mapstructure:"num_operators" yaml:"num_operators"`
	NumShifts    int `mapstructure:"num_shifts" yaml:"num_shifts"`

	ShiftLengthMinutes float64 `mapstructure:"shift_length_minutes" yaml:"shift_length_minutes"`
	// DayLengthMinutes defaults to NumShifts * ShiftLengthMinutes.
	DayLengthMinutes float64 `mapstructure:"day_length_minutes" yaml:"day_length_minutes"`

	TargetPerDay int `mapstructure:"target_production_per_day" yaml:"target_production_per_day"`

	MachineTypes      []string `mapstructure:"machine_types" yaml:"machine_types"`
	MachinePriorities []int    `mapstructure:"machine_priorities" yaml:"machine_priorities"`

	// SkillMatrix[i][j] is operator i's skill on machine type j, in [0, 1].
	SkillMatrix [][]float64 `mapstructure:"skill_matrix" yaml:"skill_matrix"`

	// Per machine type, minutes per part before the skill divisor.
	BaseProcessTimes []float64 `mapstructure:"base_process_times" yaml:"base_process_times"`
	// Physical floor on the per-part time, whatever the skill.
	MinProcessTimes []float64 `mapstructure:"min_process_times" yaml:"min_process_times"`

	// CapacityMinutes[i][j] is operator i's work budget in shift j.
	CapacityMinutes [][]float64 `mapstructure:"operator_shift_capacity_minutes" yaml:"operator_shift_capacity_minutes"`

	BreakdownProb         float64 `mapstructure:"machine_breakdown_probability" yaml:"machine_breakdown_probability"`
	MaintenanceProb       float64 `mapstructure:"machine_maintenance_probability" yaml:"machine_maintenance_probability"`
	MaxBreakdownShifts    int     `mapstructure:"max_breakdown_duration_shifts" yaml:"max_breakdown_duration_shifts"`
	MaxMaintenanceShifts  int     `mapstructure:"max_maintenance_duration_shifts" yaml:"max_maintenance_duration_shifts"`
	MinBreakdownMinutes   float64 `mapstructure:"min_breakdown_duration_minutes" yaml:"min_breakdown_duration_minutes"`
	MinMaintenanceMinutes float64 `mapstructure:"min_maintenance_duration_minutes" yaml:"min_maintenance_duration_minutes"`

	// Fatigue starts once a shift budget is this far used up.
	FatigueThreshold float64 `mapstructure:"fatigue_threshold_ratio" yaml:"fatigue_threshold_ratio"`

	// AutoFill staffs the remaining idle machines with the best free
	// operators after the agent's own decision. Off by default: with it on
	// the idle action has no observable consequence for the agent to learn
	// from.
	AutoFill bool `mapstructure:"auto_fill" yaml:"auto_fill"`

	// Clock advance when no machine is producing.
	IdleTickMinutes float64 `mapstructure:"idle_tick_minutes" yaml:"idle_tick_minutes"`

	Rewards RewardWeights `mapstructure:"reward_params" yaml:"reward_params"`

	Gamma         float64 `mapstructure:"discount_factor" yaml:"discount_factor"`
	EpsilonStart  float64 `mapstructure:"epsilon_start" yaml:"epsilon_start"`
	EpsilonEnd    float64 `mapstructure:"epsilon_end" yaml:"epsilon_end"`
	AlphaStart    float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	DecayEpisodes int     `mapstructure:"decay_episodes" yaml:"decay_episodes"`
}

// DemoConfig is the reference scenario: a 4-machine, 6-operator floor
// running three 8-hour shifts against a 90-part daily target.
func DemoConfig() Config {
	return Config{
		NumMachines:        4,
		NumOperators:       6,
		NumShifts:          3,
		ShiftLengthMinutes: 480,
		DayLengthMinutes:   3 * 480,
		TargetPerDay:       90,
		MachineTypes:       []string{"press", "lathe", "welding", "packing"},
		MachinePriorities:  []int{1, 2, 1, 0},
		SkillMatrix: [][]float64{
			{0.95, 0.35, 0.15, 0.20},
			{0.25, 0.90, 0.65, 0.55},
			{0.55, 0.30, 0.95, 0.85},
			{0.45, 0.50, 0.48, 0.52},
			{0.70, 0.65, 0.55, 0.92},
			{0.88, 0.58, 0.42, 0.68},
		},
		BaseProcessTimes: []float64{6, 7, 9, 5},
		MinProcessTimes:  []float64{10, 45, 75, 25},
		CapacityMinutes: [][]float64{
			{480, 460, 480},
			{460, 480, 460},
			{440, 420, 440},
			{460, 460, 460},
			{480, 440, 480},
			{470, 450, 470},
		},
		BreakdownProb:         0.02,
		MaintenanceProb:       0.01,
		MaxBreakdownShifts:    2,
		MaxMaintenanceShifts:  2,
		MinBreakdownMinutes:   60,
		MinMaintenanceMinutes: 30,
		FatigueThreshold:      0.8,
		IdleTickMinutes:       1,
		Rewards:               DefaultRewardWeights(),
		Gamma:                 0.99,
		EpsilonStart:          1.0,
		EpsilonEnd:            0.05,
		AlphaStart:            0.1,
	}
}

// Load reads a YAML scenario file and merges it over the demo defaults.
func Load(path string) (Config, error) {
	cfg := DemoConfig()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills derived and zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DayLengthMinutes == 0 {
		c.DayLengthMinutes = float64(c.NumShifts) * c.ShiftLengthMinutes
	}
	if c.IdleTickMinutes == 0 {
		c.IdleTickMinutes = 1
	}
	if len(c.MinProcessTimes) == 0 {
		c.MinProcessTimes = append([]float64(nil), c.BaseProcessTimes...)
	}
}

// NumActions is the static action space: one assignment action per
// operator plus the leave-idle action.
func (c Config) NumActions() int {
	return c.NumOperators + 1
}

// IdleAction is the index of the leave-idle action.
func (c Config) IdleAction() int {
	return c.NumOperators
}

// MachineType maps a machine id onto its type index.
func (c Config) MachineType(machine int) int {
	return machine % len(c.MachineTypes)
}

// Skill of an operator on a machine type.
func (c Config) Skill(operator, machineType int) float64 {
	return c.SkillMatrix[operator][machineType]
}

// Priority of a machine, zero when unconfigured.
func (c Config) Priority(machine int) int {
	if machine < len(c.MachinePriorities) {
		return c.MachinePriorities[machine]
	}
	return 0
}

// Validate refuses to let an inconsistent scenario reach the simulation.
// Construction-time errors are the only fatal errors in the core.
func (c Config) Validate() error {
	if c.NumMachines <= 0 {
		return fmt.Errorf("config: need at least one machine, got %d", c.NumMachines)
	}
	if c.NumOperators <= 0 {
		return fmt.Errorf("config: need at least one operator, got %d", c.NumOperators)
	}
	if c.NumShifts <= 0 {
		return fmt.Errorf("config: need at least one shift, got %d", c.NumShifts)
	}
	if c.ShiftLengthMinutes <= 0 {
		return fmt.Errorf("config: shift length must be positive, got %.1f", c.ShiftLengthMinutes)
	}
	if c.DayLengthMinutes <= 0 {
		return fmt.Errorf("config: day length must be positive, got %.1f", c.DayLengthMinutes)
	}
	if c.TargetPerDay <= 0 {
		return fmt.Errorf("config: daily target must be positive, got %d", c.TargetPerDay)
	}
	if len(c.MachineTypes) == 0 {
		return fmt.Errorf("config: no machine types declared")
	}
	if len(c.BaseProcessTimes) != len(c.MachineTypes) {
		return fmt.Errorf("config: %d base process times for %d machine types",
			len(c.BaseProcessTimes), len(c.MachineTypes))
	}
	if len(c.MinProcessTimes) != len(c.MachineTypes) {
		return fmt.Errorf("config: %d min process times for %d machine types",
			len(c.MinProcessTimes), len(c.MachineTypes))
	}
	for t, base := range c.BaseProcessTimes {
		if base <= 0 || c.MinProcessTimes[t] <= 0 {
			return fmt.Errorf("config: process times for type %q must be positive", c.MachineTypes[t])
		}
	}
	if len(c.SkillMatrix) != c.NumOperators {
		return fmt.Errorf("config: skill matrix has %d rows for %d operators",
			len(c.SkillMatrix), c.NumOperators)
	}
	for i, row := range c.SkillMatrix {
		if len(row) != len(c.MachineTypes) {
			return fmt.Errorf("config: skill row %d has %d entries for %d machine types",
				i, len(row), len(c.MachineTypes))
		}
		for j, s := range row {
			if s < 0 || s > 1 {
				return fmt.Errorf("config: skill[%d][%d] = %.3f outside [0, 1]", i, j, s)
			}
		}
	}
	if len(c.CapacityMinutes) != c.NumOperators {
		return fmt.Errorf("config: capacity matrix has %d rows for %d operators",
			len(c.CapacityMinutes), c.NumOperators)
	}
	for i, row := range c.CapacityMinutes {
		if len(row) != c.NumShifts {
			return fmt.Errorf("config: capacity row %d has %d entries for %d shifts",
				i, len(row), c.NumShifts)
		}
		for j, m := range row {
			if m < 0 {
				return fmt.Errorf("config: capacity[%d][%d] = %.1f is negative", i, j, m)
			}
		}
	}
	for name, p := range map[string]float64{
		"breakdown":   c.BreakdownProb,
		"maintenance": c.MaintenanceProb,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("config: %s probability %.3f outside [0, 1]", name, p)
		}
	}
	if c.FatigueThreshold < 0 || c.FatigueThreshold > 1 {
		return fmt.Errorf("config: fatigue threshold %.3f outside [0, 1]", c.FatigueThreshold)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("config: discount factor %.3f outside [0, 1]", c.Gamma)
	}
	if err := c.Rewards.Validate(); err != nil {
		return err
	}
	return nil
}
