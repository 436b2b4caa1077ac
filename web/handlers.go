/* handlers.go
 * Contains the HTTP handlers. Each handler decodes the request, calls into the api package and maps the api's
 * sentinel errors onto status codes
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"errors"
	"gaming-companion/api/api"
	"gaming-companion/api/shared"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

// SummaryHandler serves GET /users/{userID}/summary?game=valorant|cs2
func (s *Server) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	gameType, err := api.ParseGameType(r.URL.Query().Get("game"))
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.api.GetMatchSummary(r.Context(), r.PathValue("userID"), gameType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListMatchesHandler serves GET /users/{userID}/matches?game=valorant|cs2
func (s *Server) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	gameType, err := api.ParseGameType(r.URL.Query().Get("game"))
	if err != nil {
		writeError(w, err)
		return
	}

	matches, err := s.api.ListMatches(r.Context(), r.PathValue("userID"), gameType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

// SubmitMatchHandler serves POST /users/{userID}/matches
func (s *Server) SubmitMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req submitMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	gameType, err := api.ParseGameType(req.GameType)
	if err != nil {
		writeError(w, err)
		return
	}

	match := shared.MatchRecord{
		GameType:    gameType,
		Result:      shared.Result(strings.ToLower(string(req.Result))),
		Score:       req.Score,
		Map:         req.Map,
		Duration:    req.Duration,
		Kills:       req.Kills,
		Deaths:      req.Deaths,
		Assists:     req.Assists,
		TeamMembers: req.TeamMembers,
	}
	if req.Date != nil {
		match.Date = req.Date.UTC()
	}

	user := shared.User{UserID: r.PathValue("userID"), Username: req.Username}
	stored, err := s.api.SubmitMatch(r.Context(), user, match)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// SubmitRoundsHandler serves POST /users/{userID}/matches/{matchID}/rounds
func (s *Server) SubmitRoundsHandler(w http.ResponseWriter, r *http.Request) {
	var req submitRoundsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	matchID := r.PathValue("matchID")
	if err := s.api.SubmitRounds(r.Context(), r.PathValue("userID"), matchID, req.Rounds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roundsResponse{MatchID: matchID, Rounds: len(req.Rounds)})
}

// AdvancedStatsHandler serves GET /users/{userID}/matches/{matchID}/advanced
func (s *Server) AdvancedStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.GetAdvancedStats(r.Context(), r.PathValue("userID"), r.PathValue("matchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UpdateRankHandler serves PUT /users/{userID}/rank
func (s *Server) UpdateRankHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRankRequest
	if !decodeBody(w, r, &req) {
		return
	}

	gameType, err := api.ParseGameType(req.GameType)
	if err != nil {
		writeError(w, err)
		return
	}

	user := shared.User{UserID: r.PathValue("userID"), Username: req.Username}
	if err := s.api.UpdateRank(r.Context(), user, gameType, req.Rank); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps api errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("status", status).Error("request failed")
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
