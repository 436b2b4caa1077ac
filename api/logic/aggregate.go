/* aggregate.go
 * Contains the logic for calculating win rate, average KDA and favourite map from a user's match history
 * Authors: Zachary Bower
 */

package logic

import (
	"gaming-companion/api/shared"
	"math"
)

// CalculateAggregates computes the summary counts for a set of matches
// Preconditions: Receives matches for a single user and game type in any order
// Postconditions: Returns AggregateStats. An empty input returns the zero state with FavoriteMap set to "N/A"
func CalculateAggregates(matches []shared.MatchRecord) AggregateStats {
	total := len(matches)
	if total == 0 {
		return AggregateStats{FavoriteMap: NotAvailable}
	}

	var wins, kills, deaths, assists int
	for _, match := range matches {
		if match.Result == shared.Win {
			wins++
		}
		kills += match.Kills
		deaths += match.Deaths
		assists += match.Assists
	}

	return AggregateStats{
		TotalMatches: total,
		Wins:         wins,
		Losses:       total - wins,
		WinRate:      WinRate(wins, total),
		AverageKDA: AverageKDA{
			Kills:   roundToOneDecimal(float64(kills) / float64(total)),
			Deaths:  roundToOneDecimal(float64(deaths) / float64(total)),
			Assists: roundToOneDecimal(float64(assists) / float64(total)),
		},
		FavoriteMap: FavoriteMap(matches),
	}
}

// WinRate returns wins as a rounded percentage of total, or 0 when there are no matches
func WinRate(wins int, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(total) * 100))
}

// FavoriteMap returns the most played map. When several maps share the highest count, the one seen first wins
func FavoriteMap(matches []shared.MatchRecord) string {
	if len(matches) == 0 {
		return NotAvailable
	}

	counts := make(map[string]int)
	var order []string
	for _, match := range matches {
		if _, seen := counts[match.Map]; !seen {
			order = append(order, match.Map)
		}
		counts[match.Map]++
	}

	favorite := order[0]
	for _, name := range order[1:] {
		// strictly greater so the first encountered map keeps ties
		if counts[name] > counts[favorite] {
			favorite = name
		}
	}
	return favorite
}

func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
