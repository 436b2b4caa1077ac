/* routes.go
 * Contains NewServer and the route table. Every route except /metrics passes through the rate limiter
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewServer creates the server for the given configuration
// Preconditions: Receives Config with API set. A nil Registry is replaced with a new one
// Postconditions: Returns the Server with its metrics registered
func NewServer(cfg Config) *Server {
	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		if burst <= 0 {
			burst = 1
		}
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Server{
		api:      cfg.API,
		limiter:  rate.NewLimiter(limit, burst),
		metrics:  NewMetrics(registry),
		registry: registry,
	}
}

// Routes returns the handler serving every endpoint
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /users/{userID}/summary", s.SummaryHandler)
	s.handle(mux, "GET /users/{userID}/matches", s.ListMatchesHandler)
	s.handle(mux, "POST /users/{userID}/matches", s.SubmitMatchHandler)
	s.handle(mux, "POST /users/{userID}/matches/{matchID}/rounds", s.SubmitRoundsHandler)
	s.handle(mux, "GET /users/{userID}/matches/{matchID}/advanced", s.AdvancedStatsHandler)
	s.handle(mux, "PUT /users/{userID}/rank", s.UpdateRankHandler)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.instrument(pattern, s.rateLimit(handler)))
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.RateLimited.Inc()
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
