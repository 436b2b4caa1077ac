/* models.go
 * Contains the server configuration and the request and response bodies used by the HTTP handlers
 * Authors: Zachary Bower
 */

package web

import (
	"gaming-companion/api/api"
	"gaming-companion/api/shared"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Config holds the configuration for the web server. A RateLimit of 0 disables rate limiting
type Config struct {
	Addr      string
	API       *api.API
	RateLimit float64 // requests per second across all clients
	Burst     int
	Registry  *prometheus.Registry
}

// Server is the HTTP server that handles companion requests
type Server struct {
	api      *api.API
	limiter  *rate.Limiter
	metrics  *Metrics
	registry *prometheus.Registry
}

type submitMatchRequest struct {
	Username    string        `json:"username"`
	GameType    string        `json:"gameType"` // aliases such as "val" or "cs" are accepted
	Result      shared.Result `json:"result"`
	Score       string        `json:"score"`
	Map         string        `json:"map"`
	Duration    int           `json:"duration"`
	Kills       int           `json:"kills"`
	Deaths      int           `json:"deaths"`
	Assists     int           `json:"assists"`
	Date        *time.Time    `json:"date,omitempty"`
	TeamMembers []string      `json:"teamMembers,omitempty"`
}

type submitRoundsRequest struct {
	Rounds []shared.RoundPerformance `json:"rounds"`
}

type updateRankRequest struct {
	Username string `json:"username"`
	GameType string `json:"gameType"`
	Rank     string `json:"rank"`
}

type matchesResponse struct {
	Matches []shared.MatchRecord `json:"matches"`
}

type roundsResponse struct {
	MatchID string `json:"matchId"`
	Rounds  int    `json:"rounds"`
}

type errorResponse struct {
	Error string `json:"error"`
}
