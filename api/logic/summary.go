/* summary.go
 * Contains the logic for combining the aggregate and form calculations into a MatchSummary, and for
 * formatting a summary as a discord message
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"gaming-companion/api/shared"
	"strings"
)

// BuildSummary combines the aggregate and form calculations over the same match set
// Preconditions: Receives a single snapshot of matches for one user and game type, and the user's current rank
// Postconditions: Returns the MatchSummary. An empty match set returns the zero state
func BuildSummary(matches []shared.MatchRecord, currentRank string) MatchSummary {
	aggregates := CalculateAggregates(matches)
	form := AnalyzeForm(matches)

	return MatchSummary{
		TotalMatches:     aggregates.TotalMatches,
		Wins:             aggregates.Wins,
		Losses:           aggregates.Losses,
		WinRate:          aggregates.WinRate,
		AverageKDA:       aggregates.AverageKDA,
		FavoriteMap:      aggregates.FavoriteMap,
		LongestWinStreak: form.LongestWinStreak,
		RecentForm:       form.RecentForm,
		RankProgress:     NewRankProgress(currentRank),
	}
}

// NewRankProgress fills the rank section of a summary. There is no rank history, so the start rank is unknown
// and the peak rank mirrors the current rank
func NewRankProgress(currentRank string) RankProgress {
	if currentRank == "" {
		currentRank = NotAvailable
	}
	return RankProgress{
		StartRank:   NotAvailable,
		CurrentRank: currentRank,
		PeakRank:    currentRank,
	}
}

// FormatSummary generates the message posted to discord for a summary
func FormatSummary(username string, gameType shared.GameType, summary MatchSummary) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s's %s summary\n", username, gameType.DisplayName()))
	if summary.TotalMatches == 0 {
		res.WriteString("No matches recorded yet. Use $submit to add one\n")
		return res.String()
	}

	res.WriteString(fmt.Sprintf("Matches: %d (%dW / %dL), win rate %d%%\n", summary.TotalMatches, summary.Wins, summary.Losses, summary.WinRate))
	res.WriteString(fmt.Sprintf("Average K/D/A: %.1f / %.1f / %.1f\n", summary.AverageKDA.Kills, summary.AverageKDA.Deaths, summary.AverageKDA.Assists))
	res.WriteString(fmt.Sprintf("Favourite map: %s\n", summary.FavoriteMap))
	res.WriteString(fmt.Sprintf("Longest win streak: %d\n", summary.LongestWinStreak))

	form := make([]string, 0, len(summary.RecentForm))
	for _, result := range summary.RecentForm {
		if result == shared.Win {
			form = append(form, "W")
		} else {
			form = append(form, "L")
		}
	}
	res.WriteString(fmt.Sprintf("Recent form: %s\n", strings.Join(form, " ")))
	res.WriteString(fmt.Sprintf("Rank: %s\n", summary.RankProgress.CurrentRank))
	return res.String()
}
