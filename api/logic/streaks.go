/* streaks.go
 * Contains the logic for finding win streaks and recent form from a user's match history
 * Authors: Zachary Bower
 */

package logic

import (
	"gaming-companion/api/shared"
	"sort"
)

// AnalyzeForm calculates the longest win streak and the recent form for a set of matches
// Preconditions: Receives matches for a single user and game type in any order
// Postconditions: Returns FormStats. An empty input gives a streak of 0 and an empty recent form
func AnalyzeForm(matches []shared.MatchRecord) FormStats {
	return FormStats{
		LongestWinStreak: LongestWinStreak(matches),
		RecentForm:       RecentForm(matches, RecentFormLength),
	}
}

// LongestWinStreak returns the highest number of consecutive wins when matches are ordered oldest to newest.
// Matches played at the same time keep the order they were supplied in
func LongestWinStreak(matches []shared.MatchRecord) int {
	ordered := sortByDate(matches, true)

	longest, current := 0, 0
	for _, match := range ordered {
		if match.Result != shared.Win {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

// RecentForm returns the results of up to limit matches, most recent first
func RecentForm(matches []shared.MatchRecord, limit int) []shared.Result {
	ordered := sortByDate(matches, false)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	form := make([]shared.Result, 0, len(ordered))
	for _, match := range ordered {
		form = append(form, match.Result)
	}
	return form
}

// sortByDate returns a sorted copy of matches. The input slice is left untouched
func sortByDate(matches []shared.MatchRecord, ascending bool) []shared.MatchRecord {
	ordered := make([]shared.MatchRecord, len(matches))
	copy(ordered, matches)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ascending {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Date.After(ordered[j].Date)
	})
	return ordered
}
