/* matches.go
 * Contains the methods for interacting with the matches collection. Match records are append only
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/shared"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListMatches does DB lookup and gets every match a user has recorded for a game type
// Preconditions: Receives context, userID and game type
// Postconditions: Returns slice of MatchRecord in no particular order (empty if the user has no matches), or an error if it occurs
func (s *Store) ListMatches(ctx context.Context, userID string, gameType shared.GameType) ([]shared.MatchRecord, error) {
	cursor, err := s.Collections.Matches.Find(ctx, matchesFilter(userID, gameType))
	if err != nil {
		return nil, fmt.Errorf("error fetching matches from db: %w", err)
	}

	// Unpack the cursor into a slice
	results := []shared.MatchRecord{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of matches: %w", err)
	}

	return results, nil
}

// GetMatch does DB lookup and gets a single match belonging to a user
// Preconditions: Receives context, userID and matchID
// Postconditions: Returns the MatchRecord, mongo.ErrNoDocuments if it does not exist, or an error if it occurs
func (s *Store) GetMatch(ctx context.Context, userID string, matchID string) (shared.MatchRecord, error) {
	var result shared.MatchRecord
	err := s.Collections.Matches.FindOne(ctx, matchFilter(userID, matchID)).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.MatchRecord{}, err
		}
		return shared.MatchRecord{}, fmt.Errorf("error fetching match from db: %w", err)
	}
	return result, nil
}

// InsertMatch stores a new match record
// Preconditions: Receives context and a validated MatchRecord with its ID and date set
// Postconditions: Inserts the record, or returns an error if the operation was unsuccessful
func (s *Store) InsertMatch(ctx context.Context, match shared.MatchRecord) error {
	if match.ID == "" {
		return fmt.Errorf("match id cannot be empty")
	}

	_, err := s.Collections.Matches.InsertOne(ctx, match)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user":  match.UserID,
		"match": match.ID,
		"game":  match.GameType,
	}).Debug("match inserted")
	return nil
}
