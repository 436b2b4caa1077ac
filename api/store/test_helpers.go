/* test_helpers.go
 * Contains test helper functions and sample data for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"gaming-companion/api/shared"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewStoreForClient creates a Store on an existing client, e.g. an mtest mock client
func NewStoreForClient(client *mongo.Client, db *mongo.Database) *Store {
	return newStoreFromDatabase(client, db)
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore(context.TODO(), "test_companion", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateSampleMatches creates sample MatchRecord data for testing.
func CreateSampleMatches(userID string) []shared.MatchRecord {
	base := time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC)
	return []shared.MatchRecord{
		{
			ID:       "match-1",
			UserID:   userID,
			GameType: shared.Valorant,
			Result:   shared.Win,
			Score:    "13-7",
			Map:      "Ascent",
			Duration: 38,
			Kills:    22,
			Deaths:   12,
			Assists:  4,
			Date:     base,
		},
		{
			ID:       "match-2",
			UserID:   userID,
			GameType: shared.Valorant,
			Result:   shared.Loss,
			Score:    "9-13",
			Map:      "Bind",
			Duration: 41,
			Kills:    15,
			Deaths:   17,
			Assists:  6,
			Date:     base.Add(2 * time.Hour),
		},
	}
}

// MatchToBsonD converts a MatchRecord to the document shape returned by mongo, for use in mock cursor responses
func MatchToBsonD(m shared.MatchRecord) bson.D {
	return bson.D{
		{Key: "_id", Value: m.ID},
		{Key: "userid", Value: m.UserID},
		{Key: "gametype", Value: string(m.GameType)},
		{Key: "result", Value: string(m.Result)},
		{Key: "score", Value: m.Score},
		{Key: "map", Value: m.Map},
		{Key: "duration", Value: m.Duration},
		{Key: "kills", Value: m.Kills},
		{Key: "deaths", Value: m.Deaths},
		{Key: "assists", Value: m.Assists},
		{Key: "date", Value: m.Date},
	}
}
