/* rounds.go
 * Contains the methods for interacting with the round_performances collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"gaming-companion/api/shared"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListRounds does DB lookup and gets the rounds recorded for one of a user's matches
// Preconditions: Receives context, userID and matchID
// Postconditions: Returns the rounds ordered by round number (empty if none are recorded), or an error if it occurs
func (s *Store) ListRounds(ctx context.Context, userID string, matchID string) ([]shared.RoundPerformance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "round_number", Value: 1}})

	cursor, err := s.Collections.Rounds.Find(ctx, roundsFilter(userID, matchID), opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching rounds from db: %w", err)
	}

	results := []shared.RoundPerformance{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of rounds: %w", err)
	}
	return results, nil
}

// StoreRounds replaces the rounds stored for one of a user's matches
// Preconditions: Receives context, userID, matchID and a validated slice of rounds
// Postconditions: Removes any rounds previously stored for the match and inserts the new ones. Returns an error if the operation was unsuccessful
func (s *Store) StoreRounds(ctx context.Context, userID string, matchID string, rounds []shared.RoundPerformance) error {
	if len(rounds) == 0 {
		return fmt.Errorf("rounds input has length 0, requires at least 1")
	}

	_, err := s.Collections.Rounds.DeleteMany(ctx, roundsFilter(userID, matchID))
	if err != nil {
		return fmt.Errorf("failed to clear existing rounds: %w", err)
	}

	docs := make([]interface{}, 0, len(rounds))
	for _, round := range rounds {
		round.UserID = userID
		round.MatchID = matchID
		docs = append(docs, round)
	}

	_, err = s.Collections.Rounds.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert rounds: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user":   userID,
		"match":  matchID,
		"rounds": len(rounds),
	}).Debug("rounds stored")
	return nil
}
