/* profiles.go
 * Contains the methods for interacting with the profiles collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProfile does DB lookup and gets a user's profile
// Preconditions: Receives context and userID
// Postconditions: Returns the user's profile, mongo.ErrNoDocuments if the user has none, or an error if it occurs
func (s *Store) GetProfile(ctx context.Context, userID string) (shared.Profile, error) {
	var result shared.Profile
	err := s.Collections.Profiles.FindOne(ctx, profileFilter(userID)).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Profile{}, err
		}
		return shared.Profile{}, fmt.Errorf("error fetching profile from db: %w", err)
	}
	return result, nil
}

// StoreProfile stores or updates a user's profile
// Preconditions: Receives context and the Profile to be stored
// Postconditions: Inserts the profile if the user does not have one, otherwise updates it. Returns an error if the operation was unsuccessful
func (s *Store) StoreProfile(ctx context.Context, profile shared.Profile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile user id cannot be empty")
	}

	// Attempt to find an existing document
	var existing shared.Profile
	err := s.Collections.Profiles.FindOne(ctx, profileFilter(profile.UserID)).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing profile failed: %w", err)
	}

	// The user currently does not have a profile so we create a new document
	if notFound {
		_, err := s.Collections.Profiles.InsertOne(ctx, profile)
		if err != nil {
			return fmt.Errorf("failed to insert new profile: %w", err)
		}
		return nil
	}

	// Else update the user's existing profile
	_, err = s.Collections.Profiles.UpdateOne(ctx, profileFilter(profile.UserID), bson.M{"$set": profile})
	if err != nil {
		return fmt.Errorf("failed to update existing profile: %w", err)
	}
	return nil
}

// GetCurrentRank gets the rank stored on the user's profile for a game type
// Preconditions: Receives context, userID and game type
// Postconditions: Returns the rank (possibly empty), mongo.ErrNoDocuments if the user has no profile, or an error if it occurs
func (s *Store) GetCurrentRank(ctx context.Context, userID string, gameType shared.GameType) (string, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	stats, err := profile.StatsFor(gameType)
	if err != nil {
		return "", err
	}
	return stats.CurrentRank(), nil
}
