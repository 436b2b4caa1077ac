/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into three files:
 * matches, profiles and rounds. Each of these files contain methods for interacting with that part of the database
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollectionMatches  = "matches"
	CollectionProfiles = "profiles"
	CollectionRounds   = "round_performances"
)

type Collections struct {
	Matches  *mongo.Collection
	Profiles *mongo.Collection
	Rounds   *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
}

// NewStore initialises the db connection and the collections used by the store
// Preconditions: Receives context for the connection attempt, and strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	db := client.Database(dbName)

	logrus.WithField("database", dbName).Info("mongo store initialised")

	return newStoreFromDatabase(client, db), nil
}

func newStoreFromDatabase(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Collections: Collections{
			Matches:  db.Collection(CollectionMatches),
			Profiles: db.Collection(CollectionProfiles),
			Rounds:   db.Collection(CollectionRounds),
		},
	}
}
