/* input_processing.go
 * Contains the logic for processing user input: game type aliases, map names and validation of submitted
 * matches and rounds
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"gaming-companion/api/shared"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// gameTypeAliases maps the names users commonly type to a GameType
var gameTypeAliases = map[string]shared.GameType{
	"valorant":       shared.Valorant,
	"val":            shared.Valorant,
	"valo":           shared.Valorant,
	"cs2":            shared.CS2,
	"cs":             shared.CS2,
	"csgo":           shared.CS2,
	"counterstrike":  shared.CS2,
	"counter-strike": shared.CS2,
}

// MapPools holds the competitive map pool for each title. Used to clean up map names typed by users
var MapPools = map[shared.GameType][]string{
	shared.Valorant: {"Abyss", "Ascent", "Bind", "Breeze", "Fracture", "Haven", "Icebox", "Lotus", "Pearl", "Split", "Sunset"},
	shared.CS2:      {"Ancient", "Anubis", "Dust2", "Inferno", "Mirage", "Nuke", "Overpass", "Train", "Vertigo"},
}

// Limits on how loosely chat input is matched. Anything shorter or further away is rejected rather than guessed
const (
	minFuzzyGameTypeInput = 4
	maxGameTypeDistance   = 2
	minMapPrefix          = 3
	minMapTypoInput       = 4
	maxMapDistance        = 1
)

// ParseGameType converts input into a GameType using the alias table only
// Preconditions: Receives a string such as "valorant", "VAL" or "cs2"
// Postconditions: Returns the matching GameType, or an error if the input is not a known alias
func ParseGameType(input string) (shared.GameType, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return "", fmt.Errorf("game type cannot be empty")
	}
	if gameType, ok := gameTypeAliases[lower]; ok {
		return gameType, nil
	}
	return "", fmt.Errorf("unknown game type '%s', expected valorant or cs2", input)
}

// MatchGameType is ParseGameType with typo tolerance for chat commands, e.g. "valornt"
// Preconditions: Receives the text typed by the user
// Postconditions: Returns the GameType of an alias within maxGameTypeDistance edits of the input, or an error. Inputs
// shorter than minFuzzyGameTypeInput must match an alias exactly
func MatchGameType(input string) (shared.GameType, error) {
	gameType, err := ParseGameType(input)
	if err == nil {
		return gameType, nil
	}

	lower := strings.ToLower(strings.TrimSpace(input))
	if len(lower) < minFuzzyGameTypeInput {
		return "", err
	}

	aliases := make([]string, 0, len(gameTypeAliases))
	for alias := range gameTypeAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	ranks := fuzzy.RankFindNormalizedFold(lower, aliases)
	if len(ranks) == 0 {
		return "", err
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
		}
	}
	if best.Distance > maxGameTypeDistance {
		return "", err
	}
	return gameTypeAliases[best.Target], nil
}

// NormalizeMapName matches a user supplied map name against the map pool for the title
// Preconditions: Receives the game type and the map name typed by the user
// Postconditions: Returns the map pool spelling for an exact match, a unique prefix of at least minMapPrefix letters,
// or a single typo away from a pool map. Otherwise returns the trimmed input, as map names are free form
func NormalizeMapName(gameType shared.GameType, input string) string {
	name := strings.TrimSpace(input)
	pool, ok := MapPools[gameType]
	if !ok || name == "" {
		return name
	}
	lowerName := strings.ToLower(name)

	var prefixed []string
	for _, m := range pool {
		lower := strings.ToLower(m)
		if lower == lowerName {
			return m
		}
		if len(lowerName) >= minMapPrefix && strings.HasPrefix(lower, lowerName) {
			prefixed = append(prefixed, m)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0]
	}
	if len(prefixed) > 1 || len(lowerName) < minMapTypoInput {
		return name
	}

	var closest []string
	for _, m := range pool {
		if fuzzy.LevenshteinDistance(lowerName, strings.ToLower(m)) <= maxMapDistance {
			closest = append(closest, m)
		}
	}
	if len(closest) == 1 {
		return closest[0]
	}
	return name
}

// ValidateMatch checks a submitted match record. Every problem found is reported, not just the first
// Preconditions: Receives the match record to be stored
// Postconditions: Returns nil if the match is valid, otherwise a *multierror.Error listing each problem
func ValidateMatch(match shared.MatchRecord) error {
	var result *multierror.Error

	if strings.TrimSpace(match.UserID) == "" {
		result = multierror.Append(result, fmt.Errorf("user id is required"))
	}
	if !match.GameType.Valid() {
		result = multierror.Append(result, fmt.Errorf("unknown game type '%s'", match.GameType))
	}
	if match.Result != shared.Win && match.Result != shared.Loss {
		result = multierror.Append(result, fmt.Errorf("result must be win or loss, got '%s'", match.Result))
	}
	if strings.TrimSpace(match.Map) == "" {
		result = multierror.Append(result, fmt.Errorf("map is required"))
	}
	if match.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("duration must be positive, got %d", match.Duration))
	}
	if match.Kills < 0 || match.Deaths < 0 || match.Assists < 0 {
		result = multierror.Append(result, fmt.Errorf("kills, deaths and assists cannot be negative"))
	}

	return result.ErrorOrNil()
}

// ValidateRounds checks the rounds submitted for a match: round numbers start at 1 and are unique, and a player
// can die at most once per round
func ValidateRounds(rounds []shared.RoundPerformance) error {
	var result *multierror.Error

	seen := make(map[int]bool)
	for _, round := range rounds {
		if round.RoundNumber < 1 {
			result = multierror.Append(result, fmt.Errorf("round number must be 1 or greater, got %d", round.RoundNumber))
		}
		if seen[round.RoundNumber] {
			result = multierror.Append(result, fmt.Errorf("round %d entered multiple times", round.RoundNumber))
		}
		seen[round.RoundNumber] = true

		if round.Deaths != 0 && round.Deaths != 1 {
			result = multierror.Append(result, fmt.Errorf("round %d: deaths must be 0 or 1, got %d", round.RoundNumber, round.Deaths))
		}
		if round.Kills < 0 || round.DamageDealt < 0 || round.DamageReceived < 0 {
			result = multierror.Append(result, fmt.Errorf("round %d: kills and damage cannot be negative", round.RoundNumber))
		}
	}

	return result.ErrorOrNil()
}
