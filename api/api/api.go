/* api.go
 * This file contains the public methods for interacting with this package. The bot and web server should only call
 * the functions in this file, not the sub packages for store, logic and tasks
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/cache"
	"gaming-companion/api/external"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"gaming-companion/api/store"
	"gaming-companion/api/tasks"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrInvalidInput is returned when a request is rejected before any data is fetched
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable is returned when the match store or profile store cannot be read or written
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMatchNotFound is returned when a match id does not belong to the user
	ErrMatchNotFound = errors.New("match not found")
)

// API provides methods for interacting with the companion data layer. Cache, Queue and Notifier are optional
type API struct {
	Store    store.Interface
	Cache    cache.SummaryCache
	Queue    tasks.Queue
	Notifier external.Notifier

	now func() time.Time
}

// NewAPI creates a new API instance backed by MongoDB
// Preconditions: Receives context for the connection attempt, and strings containing dbName and mongoURI
// Postconditions: Returns the API with no cache, queue or notifier set, or an error if the store could not be created
func NewAPI(ctx context.Context, dbName string, mongoURI string) (*API, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}

	s, err := store.NewStore(ctx, dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return New(s, nil, nil, nil), nil
}

// New creates an API from its collaborators. A nil notifier is replaced with external.NoopNotifier
func New(s store.Interface, summaryCache cache.SummaryCache, queue tasks.Queue, notifier external.Notifier) *API {
	if notifier == nil {
		notifier = external.NoopNotifier{}
	}
	return &API{
		Store:    s,
		Cache:    summaryCache,
		Queue:    queue,
		Notifier: notifier,
		now:      time.Now,
	}
}

// ParseGameType converts an alias (e.g. "val", "CS") into a game type. Nothing outside the alias table is accepted
// Preconditions: Receives the raw input string
// Postconditions: Returns the game type, or an error wrapping ErrInvalidInput
func ParseGameType(input string) (shared.GameType, error) {
	gameType, err := logic.ParseGameType(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return gameType, nil
}

// MatchGameType is ParseGameType with typo tolerance, for text typed in chat
func MatchGameType(input string) (shared.GameType, error) {
	gameType, err := logic.MatchGameType(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return gameType, nil
}

// GetMatchSummary computes the summary for one user and game type. Input is validated before anything is fetched,
// and the match set is fetched once and shared by the aggregate and form calculations
// Preconditions: Receives context, userID and gameType
// Postconditions: Returns the MatchSummary (zero state if the user has no matches). Returns ErrInvalidInput for a
// blank userID or unknown gameType, and ErrStoreUnavailable if the matches or rank could not be read
func (a *API) GetMatchSummary(ctx context.Context, userID string, gameType shared.GameType) (logic.MatchSummary, error) {
	if err := validateKey(userID, gameType); err != nil {
		return logic.MatchSummary{}, err
	}

	// generation is read before the fetch so a match recorded mid-computation keeps this result out of the cache
	var generation uint64
	cacheable := a.Cache != nil
	if cacheable {
		cached, ok, err := a.Cache.Get(ctx, userID, gameType)
		if err != nil {
			logrus.WithError(err).WithField("user", userID).Warn("summary cache read failed")
		} else if ok {
			return cached, nil
		}
		if generation, err = a.Cache.Generation(ctx, userID, gameType); err != nil {
			logrus.WithError(err).WithField("user", userID).Warn("summary cache generation read failed")
			cacheable = false
		}
	}

	matches, err := a.Store.ListMatches(ctx, userID, gameType)
	if err != nil {
		return logic.MatchSummary{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	rank, err := a.currentRank(ctx, userID, gameType)
	if err != nil {
		return logic.MatchSummary{}, err
	}

	summary := logic.BuildSummary(matches, rank)

	if cacheable {
		stored, err := a.Cache.Set(ctx, userID, gameType, generation, summary)
		if err != nil {
			logrus.WithError(err).WithField("user", userID).Warn("summary cache write failed")
		} else if !stored {
			logrus.WithFields(logrus.Fields{"user": userID, "game": gameType}).Debug("summary changed while computing, not cached")
		}
	}
	return summary, nil
}

// FormatSummary gets the summary for a user and formats it for discord
func (a *API) FormatSummary(ctx context.Context, user shared.User, gameType shared.GameType) (string, error) {
	summary, err := a.GetMatchSummary(ctx, user.UserID, gameType)
	if err != nil {
		return "", err
	}
	return logic.FormatSummary(user.Username, gameType, summary), nil
}

// SubmitMatch records a completed match for a user
// Preconditions: Receives context, the user submitting and the match. ID, UserID and Date are filled in by this
// function, Date only if it is zero
// Postconditions: Returns the stored record. The user's cached summary is invalidated and a notification task is
// queued. Returns ErrInvalidInput listing every problem with the match, or ErrStoreUnavailable if it could not be stored
func (a *API) SubmitMatch(ctx context.Context, user shared.User, match shared.MatchRecord) (shared.MatchRecord, error) {
	match.UserID = user.UserID
	if match.GameType.Valid() {
		match.Map = logic.NormalizeMapName(match.GameType, match.Map)
	}

	if err := logic.ValidateMatch(match); err != nil {
		return shared.MatchRecord{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	match.ID = uuid.NewString()
	if match.Date.IsZero() {
		match.Date = a.clock().UTC()
	}

	if err := a.Store.InsertMatch(ctx, match); err != nil {
		return shared.MatchRecord{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	a.invalidate(ctx, match.UserID, match.GameType)
	a.enqueueNotification(user, match.GameType)

	logrus.WithFields(logrus.Fields{
		"user":   match.UserID,
		"game":   match.GameType,
		"match":  match.ID,
		"result": match.Result,
	}).Info("match submitted")
	return match, nil
}

// ListMatches returns a user's matches for a game type, newest first
func (a *API) ListMatches(ctx context.Context, userID string, gameType shared.GameType) ([]shared.MatchRecord, error) {
	if err := validateKey(userID, gameType); err != nil {
		return nil, err
	}

	matches, err := a.Store.ListMatches(ctx, userID, gameType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})
	return matches, nil
}

// SubmitRounds stores the round breakdown for one of a user's matches, replacing any stored previously
// Preconditions: Receives context, userID, matchID and at least one round
// Postconditions: Rounds are stored. Returns ErrInvalidInput for invalid rounds, ErrMatchNotFound if the match does
// not belong to the user, or ErrStoreUnavailable
func (a *API) SubmitRounds(ctx context.Context, userID string, matchID string, rounds []shared.RoundPerformance) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(matchID) == "" {
		return fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}
	if len(rounds) == 0 {
		return fmt.Errorf("%w: at least one round is required", ErrInvalidInput)
	}
	if err := logic.ValidateRounds(rounds); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if _, err := a.getMatch(ctx, userID, matchID); err != nil {
		return err
	}

	if err := a.Store.StoreRounds(ctx, userID, matchID, rounds); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// GetAdvancedStats computes ADR, KAST, KOST and round impact for one of a user's matches
// Preconditions: Receives context, userID and matchID
// Postconditions: Returns the stats (all zero when no rounds are stored), ErrMatchNotFound, or ErrStoreUnavailable
func (a *API) GetAdvancedStats(ctx context.Context, userID string, matchID string) (logic.AdvancedPlayerStats, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(matchID) == "" {
		return logic.AdvancedPlayerStats{}, fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}

	match, err := a.getMatch(ctx, userID, matchID)
	if err != nil {
		return logic.AdvancedPlayerStats{}, err
	}

	rounds, err := a.Store.ListRounds(ctx, userID, matchID)
	if err != nil {
		return logic.AdvancedPlayerStats{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return logic.CalculateAdvancedStats(match, rounds), nil
}

// UpdateRank sets the user's current rank for a game type, creating their profile if they do not have one
// Preconditions: Receives context, the user, game type and a non-empty rank
// Postconditions: Profile is stored and the cached summary for the game type is invalidated
func (a *API) UpdateRank(ctx context.Context, user shared.User, gameType shared.GameType, rank string) error {
	if err := validateKey(user.UserID, gameType); err != nil {
		return err
	}
	rank = strings.TrimSpace(rank)
	if rank == "" {
		return fmt.Errorf("%w: rank cannot be empty", ErrInvalidInput)
	}

	profile, err := a.Store.GetProfile(ctx, user.UserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		profile = shared.Profile{UserID: user.UserID}
	} else if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if user.Username != "" {
		profile.Username = user.Username
	}
	if err := profile.SetRank(gameType, rank); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := a.Store.StoreProfile(ctx, profile); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	a.invalidate(ctx, user.UserID, gameType)
	return nil
}

// HandleTask executes a background task. It is the handler given to the task processor
func (a *API) HandleTask(ctx context.Context, task tasks.Task) error {
	switch task.Kind {
	case tasks.KindSummaryNotification:
		summary, err := a.GetMatchSummary(ctx, task.UserID, task.GameType)
		if err != nil {
			return err
		}
		username := task.Username
		if username == "" {
			username = task.UserID
		}
		if a.Notifier == nil {
			return nil
		}
		return a.Notifier.NotifySummary(ctx, username, task.GameType, summary)
	default:
		return fmt.Errorf("unknown task kind: %s", task.Kind)
	}
}

func validateKey(userID string, gameType shared.GameType) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id cannot be empty", ErrInvalidInput)
	}
	if !gameType.Valid() {
		return fmt.Errorf("%w: unknown game type '%s'", ErrInvalidInput, gameType)
	}
	return nil
}

// A user without a profile has no rank yet, which is reported as N/A rather than an error
func (a *API) currentRank(ctx context.Context, userID string, gameType shared.GameType) (string, error) {
	rank, err := a.Store.GetCurrentRank(ctx, userID, gameType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return logic.NotAvailable, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return rank, nil
}

func (a *API) getMatch(ctx context.Context, userID string, matchID string) (shared.MatchRecord, error) {
	match, err := a.Store.GetMatch(ctx, userID, matchID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return shared.MatchRecord{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if err != nil {
		return shared.MatchRecord{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return match, nil
}

func (a *API) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a *API) invalidate(ctx context.Context, userID string, gameType shared.GameType) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Invalidate(ctx, userID, gameType); err != nil {
		logrus.WithError(err).WithField("user", userID).Warn("summary cache invalidation failed")
	}
}

func (a *API) enqueueNotification(user shared.User, gameType shared.GameType) {
	if a.Queue == nil {
		return
	}
	task := tasks.Task{
		Kind:     tasks.KindSummaryNotification,
		UserID:   user.UserID,
		Username: user.Username,
		GameType: gameType,
	}
	if err := a.Queue.Submit(task); err != nil {
		logrus.WithError(err).WithField("user", user.UserID).Warn("failed to queue summary notification")
	}
}
