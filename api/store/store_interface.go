/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"gaming-companion/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	ListMatches(ctx context.Context, userID string, gameType shared.GameType) ([]shared.MatchRecord, error)
	GetMatch(ctx context.Context, userID string, matchID string) (shared.MatchRecord, error)
	InsertMatch(ctx context.Context, match shared.MatchRecord) error

	GetProfile(ctx context.Context, userID string) (shared.Profile, error)
	StoreProfile(ctx context.Context, profile shared.Profile) error
	GetCurrentRank(ctx context.Context, userID string, gameType shared.GameType) (string, error)

	ListRounds(ctx context.Context, userID string, matchID string) ([]shared.RoundPerformance, error)
	StoreRounds(ctx context.Context, userID string, matchID string, rounds []shared.RoundPerformance) error

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
