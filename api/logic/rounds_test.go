/* rounds_test.go
 * Contains unit tests for rounds.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"gaming-companion/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRounds returns four rounds covering each KAST/KOST condition
func sampleRounds() []shared.RoundPerformance {
	return []shared.RoundPerformance{
		// kill and survive
		{RoundNumber: 1, Kills: 1, Deaths: 0, DamageDealt: 100, Survived: true, UtilityUsed: []string{"flash"}},
		// kill then die, counted as a trade
		{RoundNumber: 2, Kills: 1, Deaths: 1, DamageDealt: 150, UtilityUsed: []string{"flash", "smoke"}},
		// died without impact
		{RoundNumber: 3, Kills: 0, Deaths: 1, DamageDealt: 0},
		// died after planting
		{RoundNumber: 4, Kills: 0, Deaths: 1, DamageDealt: 200, ObjectiveInteraction: true},
	}
}

// region ADR tests

// TestADR_FourRounds tests damage [100,150,0,200]
func TestADR_FourRounds(t *testing.T) {
	assert.Equal(t, 112.5, ADR(sampleRounds()))
}

// endregion

// region KAST / KOST tests

func TestKAST_SampleRounds(t *testing.T) {
	// rounds 1 and 2 count
	assert.Equal(t, 50.0, KAST(sampleRounds()))
}

func TestKOST_SampleRounds(t *testing.T) {
	// rounds 1, 2 and 4 count
	assert.Equal(t, 75.0, KOST(sampleRounds()))
}

// TestKAST_SurvivalOnly tests that surviving without a kill still counts
func TestKAST_SurvivalOnly(t *testing.T) {
	rounds := []shared.RoundPerformance{
		{RoundNumber: 1, Survived: true},
		{RoundNumber: 2, Deaths: 1},
	}
	assert.Equal(t, 50.0, KAST(rounds))
	assert.Equal(t, 50.0, KOST(rounds))
}

// TestHadTrade tests the same round kill and death heuristic
func TestHadTrade(t *testing.T) {
	assert.True(t, HadTrade(shared.RoundPerformance{Kills: 2, Deaths: 1}))
	assert.False(t, HadTrade(shared.RoundPerformance{Kills: 2, Deaths: 0}))
	assert.False(t, HadTrade(shared.RoundPerformance{Kills: 0, Deaths: 1}))
}

// endregion

// region RoundImpactRating tests

// TestRoundImpact_CappedAtOne tests that an outlier round contributes exactly 1.0
func TestRoundImpact_CappedAtOne(t *testing.T) {
	round := shared.RoundPerformance{
		Kills:                100,
		DamageDealt:          100000,
		Survived:             true,
		ObjectiveInteraction: true,
	}

	assert.Equal(t, 1.0, RoundImpact(round))
	assert.Equal(t, 100.0, RoundImpactRating([]shared.RoundPerformance{round}))
}

// TestRoundImpact_Weights tests an uncapped round
func TestRoundImpact_Weights(t *testing.T) {
	round := shared.RoundPerformance{Kills: 1, DamageDealt: 100}
	// 0.3 + 0.2
	assert.InDelta(t, 0.5, RoundImpact(round), 1e-9)

	round = shared.RoundPerformance{Survived: true}
	assert.InDelta(t, 0.2, RoundImpact(round), 1e-9)

	round = shared.RoundPerformance{ObjectiveInteraction: true}
	assert.InDelta(t, 0.3, RoundImpact(round), 1e-9)
}

// TestRoundImpactRating_Average tests that the rating is the mean of the capped rounds scaled to 100
func TestRoundImpactRating_Average(t *testing.T) {
	rounds := []shared.RoundPerformance{
		{RoundNumber: 1, Kills: 5, DamageDealt: 500}, // capped to 1.0
		{RoundNumber: 2},                             // 0
	}
	assert.InDelta(t, 50.0, RoundImpactRating(rounds), 1e-9)
}

// endregion

// TestRoundMetrics_Empty tests that an empty round list gives 0 for every metric
func TestRoundMetrics_Empty(t *testing.T) {
	assert.Equal(t, 0.0, ADR(nil))
	assert.Equal(t, 0.0, KAST(nil))
	assert.Equal(t, 0.0, KOST(nil))
	assert.Equal(t, 0.0, RoundImpactRating(nil))

	stats := CalculateAdvancedStats(shared.MatchRecord{}, []shared.RoundPerformance{})
	assert.Equal(t, 0.0, stats.ADR)
	assert.Equal(t, 0.0, stats.KAST)
	assert.Equal(t, 0.0, stats.KOST)
	assert.Equal(t, 0.0, stats.RoundImpactRating)
	assert.Equal(t, 0, stats.Rounds)
}

// TestRoundMetrics_Deterministic tests that repeated calls give identical results
func TestRoundMetrics_Deterministic(t *testing.T) {
	rounds := sampleRounds()

	first := CalculateAdvancedStats(shared.MatchRecord{}, rounds)
	second := CalculateAdvancedStats(shared.MatchRecord{}, rounds)

	assert.Equal(t, first, second)
}

// TestCalculateAdvancedStats_PassThrough tests that kill, death and assist counts come from the match record
func TestCalculateAdvancedStats_PassThrough(t *testing.T) {
	match := shared.MatchRecord{Kills: 21, Deaths: 14, Assists: 7}

	stats := CalculateAdvancedStats(match, sampleRounds())

	require.Equal(t, 4, stats.Rounds)
	assert.Equal(t, 21, stats.Kills)
	assert.Equal(t, 14, stats.Deaths)
	assert.Equal(t, 7, stats.Assists)
	assert.Equal(t, map[string]int{"flash": 2, "smoke": 1}, stats.UtilityUsage)
	assert.Equal(t, 112.5, stats.ADR)
}
