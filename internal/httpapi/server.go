package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"nextbar/internal/domain"
	"nextbar/internal/pipeline"
	"nextbar/internal/source"
	"nextbar/internal/store"
)

// Server serves the nextbar HTTP API.
type Server struct {
	runner   pipeline.Runner
	searcher source.Searcher       // nil disables /api/search
	preds    store.PredictionStore // nil disables history recording
	origins  []string              // CORS allowlist; empty allows any origin
	log      *slog.Logger
}

// NewServer creates a Server. searcher and preds may be nil.
func NewServer(runner pipeline.Runner, searcher source.Searcher, preds store.PredictionStore, origins []string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		runner:   runner,
		searcher: searcher,
		preds:    preds,
		origins:  origins,
		log:      log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/predict-next", s.handlePredictNext)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/history/{symbol}", s.handleHistory)
}

// Handler returns an http.Handler with CORS middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.corsMiddleware(mux)
}

// corsMiddleware allows configured origins (any origin when the allowlist
// is empty) and answers preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := s.allowOrigin(origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	if len(s.origins) == 0 {
		return "*"
	}
	for _, o := range s.origins {
		if strings.EqualFold(o, origin) {
			return o
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handlePredictNext(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "AAPL"
	}

	res, err := s.runner.Run(r.Context(), symbol)
	if err != nil {
		s.writePipelineError(w, r, symbol, err)
		return
	}

	s.record(r.Context(), res)
	writeJSON(w, convertResult(res))
}

// writePipelineError maps pipeline failures to response codes.
func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, symbol string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyTicker):
		writeError(w, http.StatusBadRequest, "symbol is required")
	case errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrIncompleteSeries):
		writeError(w, http.StatusNotFound, "no OHLC available for symbol")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		s.log.Warn("predict failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, "market data fetch failed")
	}
}

// record persists the served prediction. Best-effort: storage failures are
// logged, never surfaced.
func (s *Server) record(ctx context.Context, res *pipeline.Result) {
	if s.preds == nil {
		return
	}
	rec := &store.PredictionRecord{
		ID:          uuid.NewString(),
		Ticker:      res.Ticker,
		Venue:       res.Venue,
		SessionDate: res.SessionDate,
		Close:       res.Bar.Close,
		TargetDate:  res.TargetDate,
		Predicted:   res.Predicted.String(),
		Method:      res.Method,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.preds.Save(ctx, rec); err != nil {
		s.log.Warn("recording prediction", "ticker", res.Ticker, "error", err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search not configured")
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	matches, err := s.searcher.Search(r.Context(), q)
	if err != nil {
		s.log.Warn("search failed", "query", q, "error", err)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}
	if matches == nil {
		matches = []source.SymbolMatch{}
	}
	writeJSON(w, map[string][]source.SymbolMatch{"matches": matches})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.preds == nil {
		writeError(w, http.StatusServiceUnavailable, "history not configured")
		return
	}
	symbol := strings.ToUpper(r.PathValue("symbol"))

	recs, err := s.preds.Recent(r.Context(), symbol, 50)
	if err != nil {
		s.log.Warn("reading history", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	entries := make([]HistoryEntryJSON, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, convertRecord(rec))
	}
	writeJSON(w, HistoryResponse{Symbol: symbol, Entries: entries})
}
