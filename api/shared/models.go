/* models.go
 * This file contain the interfaces, structs and helper functions that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

import (
	"fmt"
	"time"
)

type User struct {
	UserID   string
	Username string
}

// GameType identifies one of the supported titles
type GameType string

const (
	Valorant GameType = "valorant"
	CS2      GameType = "cs2"
)

// GameTypes lists every supported title in display order
var GameTypes = []GameType{Valorant, CS2}

// Valid reports whether g is one of the supported titles
func (g GameType) Valid() bool {
	switch g {
	case Valorant, CS2:
		return true
	default:
		return false
	}
}

// DisplayName returns the name used in user facing messages
func (g GameType) DisplayName() string {
	switch g {
	case Valorant:
		return "VALORANT"
	case CS2:
		return "Counter-Strike 2"
	default:
		return string(g)
	}
}

// Result is the outcome of a single match
type Result string

const (
	Win  Result = "win"
	Loss Result = "loss"
)

// MatchRecord is one completed game attributed to a user. Records are append only, once stored they are never updated
type MatchRecord struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"userid" json:"userId"`
	GameType    GameType  `bson:"gametype" json:"gameType"`
	Result      Result    `bson:"result" json:"result"`
	Score       string    `bson:"score" json:"score"`
	Map         string    `bson:"map" json:"map"`
	Duration    int       `bson:"duration" json:"duration"` // minutes
	Kills       int       `bson:"kills" json:"kills"`
	Deaths      int       `bson:"deaths" json:"deaths"`
	Assists     int       `bson:"assists" json:"assists"`
	Date        time.Time `bson:"date" json:"date"`
	TeamMembers []string  `bson:"team_members,omitempty" json:"teamMembers"`
}

// RoundPerformance is one round of a player's activity inside a match
type RoundPerformance struct {
	UserID               string   `bson:"userid" json:"-"`
	MatchID              string   `bson:"matchid" json:"-"`
	RoundNumber          int      `bson:"round_number" json:"round_number"`
	Kills                int      `bson:"kills" json:"kills"`
	Deaths               int      `bson:"deaths" json:"deaths"` // 0 or 1
	DamageDealt          int      `bson:"damage_dealt" json:"damage_dealt"`
	DamageReceived       int      `bson:"damage_received" json:"damage_received"`
	UtilityUsed          []string `bson:"utility_used,omitempty" json:"utility_used"`
	Survived             bool     `bson:"survived" json:"survived"`
	ObjectiveInteraction bool     `bson:"objective_interaction" json:"objective_interaction"`
}

// GameStats is the per title section of a user profile
type GameStats interface {
	CurrentRank() string
}

type ValorantStats struct {
	Rank  string `bson:"rank,omitempty" json:"rank"`
	Level int    `bson:"level,omitempty" json:"level"`
}

func (v ValorantStats) CurrentRank() string {
	return v.Rank
}

type CS2Stats struct {
	Rank          string `bson:"rank,omitempty" json:"rank"`
	PremierRating int    `bson:"premier_rating,omitempty" json:"premierRating"`
}

func (c CS2Stats) CurrentRank() string {
	return c.Rank
}

// Profile is the stored user profile. Each title carries its own typed stats record
type Profile struct {
	UserID   string        `bson:"userid" json:"userId"`
	Username string        `bson:"username,omitempty" json:"username"`
	Valorant ValorantStats `bson:"valorant" json:"valorant"`
	CS2      CS2Stats      `bson:"cs2" json:"cs2"`
}

// StatsFor returns the stats record for the given title
func (p Profile) StatsFor(gameType GameType) (GameStats, error) {
	switch gameType {
	case Valorant:
		return p.Valorant, nil
	case CS2:
		return p.CS2, nil
	default:
		return nil, fmt.Errorf("unknown game type: %s", gameType)
	}
}

// SetRank updates the rank stored for the given title
func (p *Profile) SetRank(gameType GameType, rank string) error {
	switch gameType {
	case Valorant:
		p.Valorant.Rank = rank
	case CS2:
		p.CS2.Rank = rank
	default:
		return fmt.Errorf("unknown game type: %s", gameType)
	}
	return nil
}
