/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"gaming-companion/api/store"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Matches  []shared.MatchRecord
	Profiles map[string]shared.Profile
	Rounds   map[string][]shared.RoundPerformance

	// Error injection for testing error paths
	ListMatchesError    error
	GetMatchError       error
	InsertMatchError    error
	GetProfileError     error
	StoreProfileError   error
	GetCurrentRankError error
	ListRoundsError     error
	StoreRoundsError    error

	// Call counters
	ListMatchesCalls    int
	GetCurrentRankCalls int

	Database interface{ Name() string }
}

var _ store.Interface = (*MockStore)(nil)

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// NewMockStore creates a new MockStore with empty storage
func NewMockStore() *MockStore {
	return &MockStore{
		Matches:  []shared.MatchRecord{},
		Profiles: make(map[string]shared.Profile),
		Rounds:   make(map[string][]shared.RoundPerformance),
		Database: &mockDatabase{name: "test_db"},
	}
}

func roundsKey(userID string, matchID string) string {
	return userID + "/" + matchID
}

// ListMatches mock implementation
func (m *MockStore) ListMatches(ctx context.Context, userID string, gameType shared.GameType) ([]shared.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListMatchesCalls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListMatchesError != nil {
		return nil, m.ListMatchesError
	}

	results := []shared.MatchRecord{}
	for _, match := range m.Matches {
		if match.UserID == userID && match.GameType == gameType {
			results = append(results, match)
		}
	}
	return results, nil
}

// GetMatch mock implementation
func (m *MockStore) GetMatch(ctx context.Context, userID string, matchID string) (shared.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetMatchError != nil {
		return shared.MatchRecord{}, m.GetMatchError
	}
	for _, match := range m.Matches {
		if match.UserID == userID && match.ID == matchID {
			return match, nil
		}
	}
	return shared.MatchRecord{}, mongo.ErrNoDocuments
}

// InsertMatch mock implementation
func (m *MockStore) InsertMatch(ctx context.Context, match shared.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertMatchError != nil {
		return m.InsertMatchError
	}
	if match.ID == "" {
		return fmt.Errorf("match id cannot be empty")
	}
	m.Matches = append(m.Matches, match)
	return nil
}

// GetProfile mock implementation
func (m *MockStore) GetProfile(ctx context.Context, userID string) (shared.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetProfileError != nil {
		return shared.Profile{}, m.GetProfileError
	}
	profile, ok := m.Profiles[userID]
	if !ok {
		return shared.Profile{}, mongo.ErrNoDocuments
	}
	return profile, nil
}

// StoreProfile mock implementation
func (m *MockStore) StoreProfile(ctx context.Context, profile shared.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StoreProfileError != nil {
		return m.StoreProfileError
	}
	m.Profiles[profile.UserID] = profile
	return nil
}

// GetCurrentRank mock implementation
func (m *MockStore) GetCurrentRank(ctx context.Context, userID string, gameType shared.GameType) (string, error) {
	m.mu.Lock()
	m.GetCurrentRankCalls++
	rankErr := m.GetCurrentRankError
	m.mu.Unlock()

	if rankErr != nil {
		return "", rankErr
	}
	profile, err := m.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	stats, err := profile.StatsFor(gameType)
	if err != nil {
		return "", err
	}
	return stats.CurrentRank(), nil
}

// ListRounds mock implementation
func (m *MockStore) ListRounds(ctx context.Context, userID string, matchID string) ([]shared.RoundPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListRoundsError != nil {
		return nil, m.ListRoundsError
	}
	rounds := m.Rounds[roundsKey(userID, matchID)]
	results := make([]shared.RoundPerformance, len(rounds))
	copy(results, rounds)
	return results, nil
}

// StoreRounds mock implementation
func (m *MockStore) StoreRounds(ctx context.Context, userID string, matchID string, rounds []shared.RoundPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StoreRoundsError != nil {
		return m.StoreRoundsError
	}
	stored := make([]shared.RoundPerformance, 0, len(rounds))
	for _, round := range rounds {
		round.UserID = userID
		round.MatchID = matchID
		stored = append(stored, round)
	}
	m.Rounds[roundsKey(userID, matchID)] = stored
	return nil
}

// GetDatabase mock implementation
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return nil
}

// MockNotifier records every summary it is asked to publish
type MockNotifier struct {
	mu    sync.Mutex
	Err   error
	Calls []NotifyCall
}

type NotifyCall struct {
	Username string
	GameType shared.GameType
	Summary  logic.MatchSummary
}

func (n *MockNotifier) NotifySummary(ctx context.Context, username string, gameType shared.GameType, summary logic.MatchSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Calls = append(n.Calls, NotifyCall{Username: username, GameType: gameType, Summary: summary})
	return nil
}
