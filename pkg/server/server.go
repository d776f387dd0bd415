package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"placeserve/internal/metrics"
	"placeserve/internal/middleware"
	"placeserve/pkg/config"
	"placeserve/pkg/suggest"
)

// Server handles the HTTP API for place suggestions. The engine is
// held behind an atomic pointer so a catalog reload can swap in a
// freshly built index without pausing in-flight requests.
type Server struct {
	engine atomic.Pointer[suggest.Engine]
	cfg    *config.Config
}

// NewServer creates the HTTP server. The engine may be published later
// via SetEngine; until then requests get a 503.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// SetEngine atomically publishes a fully built engine to request
// handlers. Never publish a partially built one.
func (s *Server) SetEngine(e *suggest.Engine) {
	s.engine.Store(e)
	if e != nil {
		metrics.IndexedNames.Set(float64(e.IndexedNames()))
	}
}

// Engine returns the currently published engine, nil before the first
// build completes.
func (s *Server) Engine() *suggest.Engine {
	return s.engine.Load()
}

// Routes builds the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/suggestions", s.handleSuggestions)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Start begins serving on the configured port, with rate limiting
// wrapped around the whole mux.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	handler := middleware.RateLimit(s.cfg.Server.RateLimit, s.Routes())
	log.Infof("Listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.Engine() == nil {
		status = "loading"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// handleSuggestions validates the request, runs the engine and shapes
// the JSON response. Latitude/longitude must both be present or both
// absent; the engine is never called with a half pair.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.Inc()
	start := time.Now()

	q := r.URL.Query().Get("q")
	if max := s.cfg.Server.MaxQuery; max > 0 && len(q) > max {
		s.sendError(w, fmt.Sprintf("Query exceeds maximum length of %d characters", max), http.StatusBadRequest)
		return
	}

	lat, lon, err := parseCoordinates(r.URL.Query().Get("latitude"), r.URL.Query().Get("longitude"))
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	engine := s.Engine()
	if engine == nil {
		s.sendError(w, "Suggestion index not ready", http.StatusServiceUnavailable)
		return
	}

	suggestions, err := engine.GetSuggestions(q, lat, lon)
	if err != nil {
		if errors.Is(err, suggest.ErrCatalogNotReady) {
			s.sendError(w, "Suggestion index not ready", http.StatusServiceUnavailable)
			return
		}
		log.Errorf("Suggestion lookup failed: %v", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	elapsed := time.Since(start)
	metrics.RequestDurationMs.Observe(float64(elapsed.Milliseconds()))
	if len(suggestions) == 0 {
		metrics.EmptyResultsTotal.Inc()
		suggestions = []suggest.Suggestion{}
	}

	s.sendJSON(w, http.StatusOK, SuggestionsResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
		Query:       q,
		TimeTaken:   elapsed.Milliseconds(),
	})
}

// parseCoordinates turns the raw query parameters into an optional
// coordinate pair. One-sided pairs and out-of-range values are inputs
// the engine must never see.
func parseCoordinates(latStr, lonStr string) (*float64, *float64, error) {
	if latStr == "" && lonStr == "" {
		return nil, nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, nil, errors.New("latitude and longitude must be supplied together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid longitude %q", lonStr)
	}
	if lat < -90 || lat > 90 {
		return nil, nil, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, nil, fmt.Errorf("longitude %v out of range", lon)
	}
	return &lat, &lon, nil
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, response interface{}) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	s.sendJSON(w, code, ErrorResponse{Error: message, Status: code})
}
