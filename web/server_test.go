/* server_test.go
 * Contains unit tests for the HTTP handlers, routes and middleware using httptest
 * Authors: Zachary Bower
 */

package web

import (
	"bytes"
	"errors"
	"fmt"
	"gaming-companion/api/api"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 2, 1, 21, 0, 0, 0, time.UTC)

func createTestServer(cfg Config) (http.Handler, *api.MockStore) {
	mockStore := api.NewMockStore()
	mockStore.Matches = []shared.MatchRecord{
		{ID: "m1", UserID: "user1", GameType: shared.CS2, Result: shared.Win, Score: "13-4", Map: "Mirage", Duration: 30, Kills: 25, Deaths: 10, Assists: 5, Date: baseTime},
		{ID: "m2", UserID: "user1", GameType: shared.CS2, Result: shared.Loss, Score: "11-13", Map: "Nuke", Duration: 45, Kills: 17, Deaths: 18, Assists: 4, Date: baseTime.Add(time.Hour)},
	}
	cfg.API = api.New(mockStore, nil, nil, nil)
	return NewServer(cfg).Routes(), mockStore
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Error
}

// region summary tests

func TestSummaryHandler_Success(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var summary logic.MatchSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalMatches)
	assert.Equal(t, 50, summary.WinRate)
	assert.Equal(t, logic.AverageKDA{Kills: 21, Deaths: 14, Assists: 4.5}, summary.AverageKDA)
	assert.Equal(t, "Mirage", summary.FavoriteMap)
	assert.Equal(t, []shared.Result{shared.Loss, shared.Win}, summary.RecentForm)
	assert.Equal(t, "N/A", summary.RankProgress.CurrentRank)
}

func TestSummaryHandler_JSONShape(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodGet, "/users/nobody/summary?game=valorant", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, key := range []string{`"totalMatches":0`, `"winRate":0`, `"favoriteMap":"N/A"`, `"recentForm":[]`, `"rankProgress"`, `"averageKDA"`} {
		assert.Contains(t, body, key)
	}
}

func TestSummaryHandler_InvalidGame(t *testing.T) {
	h, mockStore := createTestServer(Config{})

	w := doRequest(t, h, http.MethodGet, "/users/user1/summary?game=fortnite", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "invalid input")
	assert.Equal(t, 0, mockStore.ListMatchesCalls)

	w = doRequest(t, h, http.MethodGet, "/users/user1/summary", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestSummaryHandler_OnlyKnownAliases tests that near misses and single letters are rejected before any fetch
func TestSummaryHandler_OnlyKnownAliases(t *testing.T) {
	h, mockStore := createTestServer(Config{})

	for _, game := range []string{"t", "o", "2", "valornt"} {
		w := doRequest(t, h, http.MethodGet, "/users/user1/summary?game="+game, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, game)
	}
	w := doRequest(t, h, http.MethodPost, "/users/user1/matches", `{"gameType":"o","result":"win","map":"Nuke","duration":30}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, mockStore.ListMatchesCalls)
	assert.Len(t, mockStore.Matches, 2)
}

func TestSummaryHandler_StoreUnavailable(t *testing.T) {
	h, mockStore := createTestServer(Config{})
	mockStore.ListMatchesError = errors.New("no reachable servers")

	w := doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service Unavailable", decodeError(t, w))
}

func TestSummaryHandler_WrongMethod(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodDelete, "/users/user1/summary?game=cs2", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region matches tests

func TestListMatchesHandler(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodGet, "/users/user1/matches?game=cs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res matchesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "m2", res.Matches[0].ID, "newest match first")
}

func TestSubmitMatchHandler_Created(t *testing.T) {
	h, mockStore := createTestServer(Config{})
	body := `{"username":"TestUser","gameType":"cs2","result":"WIN","score":"13-6","map":"inferno","duration":33,"kills":19,"deaths":11,"assists":8,"date":"2025-02-03T20:00:00Z"}`

	w := doRequest(t, h, http.MethodPost, "/users/user1/matches", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var stored shared.MatchRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "user1", stored.UserID)
	assert.Equal(t, shared.Win, stored.Result)
	assert.Equal(t, "Inferno", stored.Map)
	assert.True(t, time.Date(2025, 2, 3, 20, 0, 0, 0, time.UTC).Equal(stored.Date))
	assert.Len(t, mockStore.Matches, 3)
}

func TestSubmitMatchHandler_Invalid(t *testing.T) {
	h, mockStore := createTestServer(Config{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"gameType":`},
		{"unknown game", `{"gameType":"dota","result":"win","map":"x","duration":10}`},
		{"validation", `{"gameType":"val","result":"draw","map":"","duration":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/users/user1/matches", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeError(t, w))
		})
	}
	assert.Len(t, mockStore.Matches, 2)
}

// endregion

// region rounds tests

func TestSubmitRoundsAndAdvancedStats(t *testing.T) {
	h, _ := createTestServer(Config{})
	body := `{"rounds":[
		{"round_number":1,"kills":1,"damage_dealt":100,"survived":true,"utility_used":["flash"]},
		{"round_number":2,"kills":1,"deaths":1,"damage_dealt":150},
		{"round_number":3,"deaths":1,"damage_dealt":0},
		{"round_number":4,"kills":2,"damage_dealt":200,"survived":true,"objective_interaction":true,"utility_used":["flash","smoke"]}
	]}`

	w := doRequest(t, h, http.MethodPost, "/users/user1/matches/m1/rounds", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created roundsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, roundsResponse{MatchID: "m1", Rounds: 4}, created)

	w = doRequest(t, h, http.MethodGet, "/users/user1/matches/m1/advanced", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats logic.AdvancedPlayerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 112.5, stats.ADR)
	assert.Equal(t, 4, stats.Rounds)
	assert.Equal(t, 25, stats.Kills)
	assert.Equal(t, map[string]int{"flash": 2, "smoke": 1}, stats.UtilityUsage)
	assert.Contains(t, w.Body.String(), `"round_impact_rating"`)
}

func TestSubmitRoundsHandler_Errors(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodPost, "/users/user1/matches/missing/rounds", `{"rounds":[{"round_number":1}]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, h, http.MethodPost, "/users/user1/matches/m1/rounds", `{"rounds":[{"round_number":1,"deaths":2}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, h, http.MethodPost, "/users/user1/matches/m1/rounds", `{"rounds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvancedStatsHandler_NotFound(t *testing.T) {
	h, _ := createTestServer(Config{})

	w := doRequest(t, h, http.MethodGet, "/users/user2/matches/m1/advanced", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeError(t, w), "match not found")
}

// endregion

// region rank tests

func TestUpdateRankHandler(t *testing.T) {
	h, mockStore := createTestServer(Config{})

	w := doRequest(t, h, http.MethodPut, "/users/user1/rank", `{"username":"TestUser","gameType":"cs2","rank":"Global Elite"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Global Elite", mockStore.Profiles["user1"].CS2.Rank)

	w = doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"currentRank":"Global Elite"`)
	assert.Contains(t, w.Body.String(), `"startRank":"N/A"`)
}

func TestUpdateRankHandler_Errors(t *testing.T) {
	h, mockStore := createTestServer(Config{})

	w := doRequest(t, h, http.MethodPut, "/users/user1/rank", `{"gameType":"cs2","rank":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockStore.StoreProfileError = errors.New("timeout")
	w = doRequest(t, h, http.MethodPut, "/users/user1/rank", `{"gameType":"cs2","rank":"Gold Nova I"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// endregion

// region middleware tests

func TestRateLimit(t *testing.T) {
	h, _ := createTestServer(Config{RateLimit: 0.001, Burst: 1})

	w := doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, w))

	// metrics are not rate limited
	w = doRequest(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "companion_http_rate_limited_total 1")
}

func TestMetrics(t *testing.T) {
	h, _ := createTestServer(Config{})

	doRequest(t, h, http.MethodGet, "/users/user1/summary?game=cs2", "")
	doRequest(t, h, http.MethodGet, "/users/user1/summary?game=apex", "")

	w := doRequest(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	route := "GET /users/{userID}/summary"
	assert.Contains(t, body, fmt.Sprintf(`companion_http_requests_total{code="200",route="%s"} 1`, route))
	assert.Contains(t, body, fmt.Sprintf(`companion_http_requests_total{code="400",route="%s"} 1`, route))
	assert.True(t, strings.Contains(body, "companion_http_request_duration_seconds_bucket"))
}

func TestHealthz(t *testing.T) {
	h, _ := createTestServer(Config{})
	w := doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("%w: x", api.ErrInvalidInput)))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("%w: x", api.ErrMatchNotFound)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(fmt.Errorf("%w: x", api.ErrStoreUnavailable)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

// endregion
