/* rounds.go
 * Contains the round level calculations: ADR, KAST, KOST and Round Impact Rating
 * All functions in this file are pure. An empty round list yields 0 for every metric
 * Authors: Zachary Bower
 */

package logic

import (
	"gaming-companion/api/shared"
	"math"
)

// Round impact weights. A single round can contribute at most roundImpactCap
const (
	impactKillWeight      = 0.3
	impactDamageWeight    = 0.2
	impactSurvivalWeight  = 0.2
	impactObjectiveWeight = 0.3
	roundImpactCap        = 1.0
)

// CalculateAdvancedStats builds the advanced stats for one match
// Preconditions: Receives the match record and the rounds recorded for that match, ordered by round number
// Postconditions: Returns AdvancedPlayerStats. Kills, deaths and assists are taken from the match record
func CalculateAdvancedStats(match shared.MatchRecord, rounds []shared.RoundPerformance) AdvancedPlayerStats {
	return AdvancedPlayerStats{
		ADR:               ADR(rounds),
		KAST:              KAST(rounds),
		KOST:              KOST(rounds),
		RoundImpactRating: RoundImpactRating(rounds),
		Rounds:            len(rounds),
		Kills:             match.Kills,
		Deaths:            match.Deaths,
		Assists:           match.Assists,
		UtilityUsage:      UtilityUsage(rounds),
	}
}

// ADR returns the average damage dealt per round
func ADR(rounds []shared.RoundPerformance) float64 {
	if len(rounds) == 0 {
		return 0
	}
	total := 0
	for _, round := range rounds {
		total += round.DamageDealt
	}
	return float64(total) / float64(len(rounds))
}

// KAST returns the percentage of rounds with a kill, a survival or a trade
func KAST(rounds []shared.RoundPerformance) float64 {
	return percentOfRounds(rounds, func(r shared.RoundPerformance) bool {
		return r.Kills > 0 || r.Survived || HadTrade(r)
	})
}

// KOST returns the percentage of rounds with a kill, an objective interaction, a survival or a trade
func KOST(rounds []shared.RoundPerformance) float64 {
	return percentOfRounds(rounds, func(r shared.RoundPerformance) bool {
		return r.Kills > 0 || r.ObjectiveInteraction || r.Survived || HadTrade(r)
	})
}

// HadTrade approximates a trade as getting a kill and dying in the same round.
// This is not real trade detection, which would need kill timestamps from both teams
func HadTrade(round shared.RoundPerformance) bool {
	return round.Kills > 0 && round.Deaths > 0
}

// RoundImpact returns a single round's contribution to the Round Impact Rating, capped at 1.0
func RoundImpact(round shared.RoundPerformance) float64 {
	impact := impactKillWeight*float64(round.Kills) +
		impactDamageWeight*(float64(round.DamageDealt)/100) +
		impactSurvivalWeight*indicator(round.Survived) +
		impactObjectiveWeight*indicator(round.ObjectiveInteraction)
	return math.Min(roundImpactCap, impact)
}

// RoundImpactRating returns the average capped round impact scaled to 0-100
func RoundImpactRating(rounds []shared.RoundPerformance) float64 {
	if len(rounds) == 0 {
		return 0
	}
	total := 0.0
	for _, round := range rounds {
		total += RoundImpact(round)
	}
	return 100 * total / float64(len(rounds))
}

// UtilityUsage tallies how often each utility tag was used across the rounds
func UtilityUsage(rounds []shared.RoundPerformance) map[string]int {
	usage := make(map[string]int)
	for _, round := range rounds {
		for _, tag := range round.UtilityUsed {
			usage[tag]++
		}
	}
	return usage
}

func percentOfRounds(rounds []shared.RoundPerformance, counts func(shared.RoundPerformance) bool) float64 {
	if len(rounds) == 0 {
		return 0
	}
	n := 0
	for _, round := range rounds {
		if counts(round) {
			n++
		}
	}
	return 100 * float64(n) / float64(len(rounds))
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
