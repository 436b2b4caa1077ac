/* models.go
 * This file contains the derived, read-only results produced by the calculators in this package
 * Authors: Zachary Bower
 */

package logic

import "gaming-companion/api/shared"

// NotAvailable is used wherever a value cannot be derived
const NotAvailable = "N/A"

// RecentFormLength is the maximum number of results kept in MatchSummary.RecentForm
const RecentFormLength = 10

type AverageKDA struct {
	Kills   float64 `json:"kills"`
	Deaths  float64 `json:"deaths"`
	Assists float64 `json:"assists"`
}

type RankProgress struct {
	StartRank   string `json:"startRank"`
	CurrentRank string `json:"currentRank"`
	PeakRank    string `json:"peakRank"`
}

// MatchSummary is the aggregate for one (user, game type) pair. It is recomputed from the full match set on request
type MatchSummary struct {
	TotalMatches     int             `json:"totalMatches"`
	Wins             int             `json:"wins"`
	Losses           int             `json:"losses"`
	WinRate          int             `json:"winRate"`
	AverageKDA       AverageKDA      `json:"averageKDA"`
	FavoriteMap      string          `json:"favoriteMap"`
	LongestWinStreak int             `json:"longestWinStreak"`
	RecentForm       []shared.Result `json:"recentForm"`
	RankProgress     RankProgress    `json:"rankProgress"`
}

// AggregateStats is the output of CalculateAggregates
type AggregateStats struct {
	TotalMatches int
	Wins         int
	Losses       int
	WinRate      int
	AverageKDA   AverageKDA
	FavoriteMap  string
}

// FormStats is the output of AnalyzeForm
type FormStats struct {
	LongestWinStreak int
	RecentForm       []shared.Result
}

// AdvancedPlayerStats holds the per match metrics derived from a list of rounds
type AdvancedPlayerStats struct {
	ADR               float64        `json:"adr"`
	KAST              float64        `json:"kast"`
	KOST              float64        `json:"kost"`
	RoundImpactRating float64        `json:"round_impact_rating"`
	Rounds            int            `json:"rounds"`
	Kills             int            `json:"kills"`
	Deaths            int            `json:"deaths"`
	Assists           int            `json:"assists"`
	UtilityUsage      map[string]int `json:"utility_usage"`
}
