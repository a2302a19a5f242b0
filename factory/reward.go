package factory

import "fmt"

// RewardWeights are the fixed shaping constants. They are configuration,
// not learned values, and the scoring below is purely additive: every bit
// of stochasticity lives in the environment transition, never here.
type RewardWeights struct {
	// Per good part completed.
	GoodPart float64 `mapstructure:"reward_per_good_part" yaml:"reward_per_good_part"`
	// Extra on top of GoodPart for each non-defective unit.
	SuccessBonus float64 `mapstructure:"reward_successful_part" yaml:"reward_successful_part"`
	// Completion on a high-skill pairing.
	HighSkillBonus float64 `mapstructure:"reward_appropriate_assignment" yaml:"reward_appropriate_assignment"`
	// Mid-skill completions earn SkillScale * skill.
	SkillScale float64 `mapstructure:"reward_skill_scale" yaml:"reward_skill_scale"`
	// Every machine is staffed and producing.
	AssignBonus float64 `mapstructure:"reward_prevent_idle" yaml:"reward_prevent_idle"`

	// Per idle machine while an eligible operator sits free.
	IdlePenalty float64 `mapstructure:"penalty_machine_idle" yaml:"penalty_machine_idle"`
	// Per defective part.
	DefectPenalty float64 `mapstructure:"penalty_defective_product" yaml:"penalty_defective_product"`
	// Illegal action substituted with leave-idle. Kept above DefectPenalty
	// so wasting a decision is never cheaper than scrapping a part.
	IllegalPenalty float64 `mapstructure:"penalty_illegal_action" yaml:"penalty_illegal_action"`
	// Low-skill pairing completions.
	LowSkillPenalty       float64 `mapstructure:"penalty_mismatch_low_skill" yaml:"penalty_mismatch_low_skill"`
	SlowProductionPenalty float64 `mapstructure:"penalty_slow_production" yaml:"penalty_slow_production"`
	// Rebinding a machine to a different operator than last time.
	SwitchPenalty float64 `mapstructure:"penalty_switch_operator" yaml:"penalty_switch_operator"`
	// Scaled by how far past the shift budget the operator worked.
	OverCapacityPenalty float64 `mapstructure:"penalty_over_capacity" yaml:"penalty_over_capacity"`
	// Scaled by the fatigue level in [0, 1].
	FatigueScale float64 `mapstructure:"fatigue_penalty_scale" yaml:"fatigue_penalty_scale"`

	// One-shot milestones at 50% and 80% of the daily target.
	Milestone50 float64 `mapstructure:"bonus_reach_50_percent" yaml:"bonus_reach_50_percent"`
	Milestone80 float64 `mapstructure:"bonus_reach_80_percent" yaml:"bonus_reach_80_percent"`

	// Terminal: GoalBonus when the target is met, otherwise
	// ShortfallPenalty per missing part. Never both.
	GoalBonus        float64 `mapstructure:"goal_bonus" yaml:"goal_bonus"`
	ShortfallPenalty float64 `mapstructure:"shortfall_penalty_scale" yaml:"shortfall_penalty_scale"`
}

func DefaultRewardWeights() RewardWeights {
	return RewardWeights{
		GoodPart:              2.0,
		SuccessBonus:          1.0,
		HighSkillBonus:        15.0,
		SkillScale:            0.5,
		AssignBonus:           5.0,
		IdlePenalty:           10.0,
		DefectPenalty:         25.0,
		IllegalPenalty:        30.0,
		LowSkillPenalty:       1.0,
		SlowProductionPenalty: 8.0,
		SwitchPenalty:         0.5,
		OverCapacityPenalty:   1.0,
		FatigueScale:          0.5,
		Milestone50:           10.0,
		Milestone80:           20.0,
		GoalBonus:             80.0,
		ShortfallPenalty:      0.3,
	}
}

func (w RewardWeights) Validate() error {
	for name, v := range map[string]float64{
		"reward_per_good_part":          w.GoodPart,
		"penalty_machine_idle":          w.IdlePenalty,
		"penalty_defective_product":     w.DefectPenalty,
		"penalty_illegal_action":        w.IllegalPenalty,
		"goal_bonus":                    w.GoalBonus,
		"shortfall_penalty_scale":       w.ShortfallPenalty,
		"penalty_over_capacity":         w.OverCapacityPenalty,
		"reward_appropriate_assignment": w.HighSkillBonus,
	} {
		if v < 0 {
			return fmt.Errorf("config: reward weight %s = %.3f is negative (penalties are subtracted, keep weights non-negative)", name, v)
		}
	}
	return nil
}

// CompletedPart is the outcome of one finished unit.
type CompletedPart struct {
	Skill             float64
	SkillBucket       int
	Defective         bool
	Fatigue           float64
	OverCapacityRatio float64
}

// Outcome is everything about a transition that the reward depends on. The
// environment fills it during Step; scoring it is a pure function.
type Outcome struct {
	Illegal          bool
	SwitchedOperator bool
	Completed        []CompletedPart

	// Idle machines counted after the transition, and whether a free
	// operator was available to staff one.
	IdleMachines int
	FreeOperator bool
	// Every machine staffed, at least one producing.
	AllRunning bool

	Crossed50 bool
	Crossed80 bool

	Terminal bool
	Produced int
	Target   int
}

// Score maps a transition outcome to a scalar reward. Deterministic:
// same outcome, same reward.
func (w RewardWeights) Score(o Outcome) float64 {
	reward := 0.0
	if o.Illegal {
		reward -= w.IllegalPenalty
	}
	if o.SwitchedOperator {
		reward -= w.SwitchPenalty
	}
	for _, p := range o.Completed {
		if p.Fatigue > 0 {
			reward -= w.FatigueScale * p.Fatigue
		}
		if p.OverCapacityRatio > 0 {
			reward -= w.OverCapacityPenalty * p.OverCapacityRatio
		}
		switch p.SkillBucket {
		case SkillHigh:
			reward += w.HighSkillBonus
		case SkillLow:
			reward -= w.SlowProductionPenalty
			reward -= w.LowSkillPenalty
		default:
			reward += w.SkillScale * p.Skill
		}
		if p.Defective {
			reward -= w.DefectPenalty
		} else {
			reward += w.GoodPart + w.SuccessBonus
		}
	}
	if o.Crossed50 {
		reward += w.Milestone50
	}
	if o.Crossed80 {
		reward += w.Milestone80
	}
	if o.IdleMachines > 0 && o.FreeOperator {
		reward -= w.IdlePenalty * float64(o.IdleMachines)
	}
	if o.AllRunning {
		reward += w.AssignBonus
	}
	if o.Terminal && o.Target > 0 {
		// either the bonus or the penalty, never both; overshoot does
		// not pay extra
		if o.Produced >= o.Target {
			reward += w.GoalBonus
		} else {
			reward -= w.ShortfallPenalty * float64(o.Target-o.Produced)
		}
	}
	return reward
}
