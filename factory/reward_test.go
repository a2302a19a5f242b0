package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmptyOutcomeIsZero(t *testing.T) {
	w := DefaultRewardWeights()
	assert.Equal(t, 0.0, w.Score(Outcome{}))
}

func TestScoreIllegalOutweighsDefect(t *testing.T) {
	w := DefaultRewardWeights()
	illegal := w.Score(Outcome{Illegal: true})
	defect := w.Score(Outcome{Completed: []CompletedPart{{SkillBucket: SkillMedium, Defective: true}}})
	assert.Equal(t, -30.0, illegal)
	assert.Less(t, illegal, defect, "wasting a decision must cost more than scrapping a part")
}

func TestScoreCompletedParts(t *testing.T) {
	w := DefaultRewardWeights()
	tests := []struct {
		name string
		part CompletedPart
		want float64
	}{
		{
			"good part, high skill",
			CompletedPart{Skill: 0.95, SkillBucket: SkillHigh},
			15 + 2 + 1,
		},
		{
			"good part, medium skill",
			CompletedPart{Skill: 0.5, SkillBucket: SkillMedium},
			0.5*0.5 + 2 + 1,
		},
		{
			"good part, low skill",
			CompletedPart{Skill: 0.2, SkillBucket: SkillLow},
			-8 - 1 + 2 + 1,
		},
		{
			"defective part, high skill",
			CompletedPart{Skill: 0.95, SkillBucket: SkillHigh, Defective: true},
			15 - 25,
		},
		{
			"fatigued over-capacity completion",
			CompletedPart{Skill: 0.5, SkillBucket: SkillMedium, Fatigue: 0.6, OverCapacityRatio: 0.2},
			0.5*0.5 + 2 + 1 - 0.5*0.6 - 1.0*0.2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Score(Outcome{Completed: []CompletedPart{tt.part}})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScoreIdlePenaltyNeedsFreeOperator(t *testing.T) {
	w := DefaultRewardWeights()
	// idle machines with nobody to staff them cost nothing
	assert.Equal(t, 0.0, w.Score(Outcome{IdleMachines: 2}))
	assert.Equal(t, -20.0, w.Score(Outcome{IdleMachines: 2, FreeOperator: true}))
}

func TestScoreAllRunningBonus(t *testing.T) {
	w := DefaultRewardWeights()
	assert.Equal(t, 5.0, w.Score(Outcome{AllRunning: true}))
}

func TestScoreMilestones(t *testing.T) {
	w := DefaultRewardWeights()
	assert.Equal(t, 10.0, w.Score(Outcome{Crossed50: true}))
	assert.Equal(t, 30.0, w.Score(Outcome{Crossed50: true, Crossed80: true}))
}

func TestScoreSwitchPenalty(t *testing.T) {
	w := DefaultRewardWeights()
	assert.Equal(t, -0.5, w.Score(Outcome{SwitchedOperator: true}))
}

func TestScoreTerminal(t *testing.T) {
	w := DefaultRewardWeights()

	// target met exactly: full goal bonus, no shortfall
	assert.InDelta(t, 80.0, w.Score(Outcome{Terminal: true, Produced: 90, Target: 90}), 1e-9)

	// overshoot does not pay extra
	assert.InDelta(t, 80.0, w.Score(Outcome{Terminal: true, Produced: 120, Target: 90}), 1e-9)

	// missed target: only the per-part shortfall penalty, no scaled bonus
	assert.InDelta(t, -0.3*30.0, w.Score(Outcome{Terminal: true, Produced: 60, Target: 90}), 1e-9)

	// one part short still forfeits the whole bonus
	assert.InDelta(t, -0.3, w.Score(Outcome{Terminal: true, Produced: 89, Target: 90}), 1e-9)

	// a zero target disables the terminal component
	assert.Equal(t, 0.0, w.Score(Outcome{Terminal: true, Produced: 10}))
}

func TestRewardWeightsValidate(t *testing.T) {
	w := DefaultRewardWeights()
	assert.NoError(t, w.Validate())
	w.IllegalPenalty = -1
	assert.Error(t, w.Validate())
}
