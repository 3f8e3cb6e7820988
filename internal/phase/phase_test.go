package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DefaultCommands(t *testing.T) {
	durations, schedule, err := Default().Build(5)
	require.NoError(t, err)

	assert.Equal(t, []float64{7, 3, 5, 3, 4, 2}, durations)
	assert.Equal(t, []ScheduleEntry{
		{Time: 0, Cue: CueTenSecondsLeft},
		{Time: 7, Cue: CueReady},
		{Time: 10, Cue: CueFire},
		{Time: 15, Cue: CueCeaseFire},
		{Time: 18, Cue: CueUnload},
		{Time: 22, Cue: CueInspection},
	}, schedule)
}

func TestBuild_ScheduleIsNonDecreasing(t *testing.T) {
	for _, fire := range []float64{0, 1, 5, 27} {
		_, schedule, err := Default().Build(fire)
		require.NoError(t, err)
		for i := 1; i < len(schedule); i++ {
			assert.GreaterOrEqual(t, schedule[i].Time, schedule[i-1].Time)
		}
	}
}

func TestBuild_SkipsPhasesWithoutCue(t *testing.T) {
	plan, err := NewPlan([]Phase{
		{Name: "a", Kind: Fixed, Duration: 2, Cue: CueReady},
		{Name: "b", Kind: Fixed, Duration: 1},
		{Name: "c", Kind: Variable, Cue: CueFire},
	})
	require.NoError(t, err)

	durations, schedule, err := plan.Build(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 4}, durations)
	assert.Equal(t, []ScheduleEntry{{Time: 0, Cue: CueReady}, {Time: 3, Cue: CueFire}}, schedule)
}

func TestBuild_ZeroTotalIsInvalid(t *testing.T) {
	plan, err := NewPlan([]Phase{
		{Name: "a", Kind: Fixed, Duration: 0},
		{Name: "fire", Kind: Variable, Cue: CueFire},
	})
	require.NoError(t, err)

	_, _, err = plan.Build(0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, _, err = plan.Build(-1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewPlan_RequiresOneVariablePhase(t *testing.T) {
	_, err := NewPlan([]Phase{{Name: "a", Kind: Fixed, Duration: 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewPlan([]Phase{{Kind: Variable}, {Kind: Variable}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewPlan([]Phase{{Kind: Variable}, {Kind: Fixed, Duration: -2}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestHighlightedPhaseIndex(t *testing.T) {
	plan := Default()
	durations := []float64{7, 3, 5, 3, 4, 2}

	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 2},
		{6.99, 2},
		{7, 3},
		{10, 4},
		{14.5, 4},
		{15, 5},
		{23.9, 7},
		{24, 7},
		{100, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plan.HighlightedPhaseIndex(tt.elapsed, durations), "elapsed %v", tt.elapsed)
	}
}

func TestTickRange(t *testing.T) {
	low, high := Default().TickRange(5)
	assert.Equal(t, 11, low)
	assert.Equal(t, 17, high)

	low, high = Default().TickRange(1)
	assert.Equal(t, 11, low)
	assert.Equal(t, 13, high)
}

func TestPhasesReturnsCopy(t *testing.T) {
	plan := Default()
	phases := plan.Phases()
	phases[0].Name = "changed"
	assert.Equal(t, "Load", plan.Phases()[0].Name)
	assert.Len(t, plan.Timed(), 6)
}
