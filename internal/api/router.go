package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meur/teamforge/internal/apperrors"
	"github.com/meur/teamforge/internal/composition"
	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/relations"
	"github.com/meur/teamforge/internal/storage"
	"github.com/meur/teamforge/internal/teams"
)

// Options tunes the server. Zero values fall back to sensible defaults.
type Options struct {
	AllowedOrigins []string
	// RateLimit applies to the generation endpoints. Zero or less disables it.
	RateLimit rate.Limit
	RateBurst int

	DefaultMode     models.Mode
	DefaultView     teams.View
	MaxTeams        int
	IncludeConcepts bool
}

// engine is everything derived from one dataset snapshot.
type engine struct {
	data      *dataset.Dataset
	relations *relations.Index
	generator *teams.Generator
	resolver  *composition.Resolver
}

// Server holds the HTTP server dependencies
type Server struct {
	provider  *dataset.Provider
	store     *storage.Store
	logger    *zap.Logger
	limiter   *rate.Limiter
	engine    atomic.Pointer[engine]
	opts      Options
	router    chi.Router
}

// New creates a new API server. The server follows dataset reloads of provider.
func New(provider *dataset.Provider, store *storage.Store, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.DefaultMode.Valid() {
		opts.DefaultMode = models.DefaultMode
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*"}
	}

	s := &Server{
		provider: provider,
		store:    store,
		logger:   logger,
		opts:     opts,
		router:   chi.NewRouter(),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	s.swap(provider.Current())
	provider.OnReload(s.swap)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// swap replaces the engine with one built for ds. Each engine owns its
// relationship index, so a request never mixes two dataset snapshots.
func (s *Server) swap(ds *dataset.Dataset) {
	rel := relations.NewIndex(ds)
	s.engine.Store(&engine{
		data:      ds,
		relations: rel,
		generator: teams.NewGenerator(ds, rel),
		resolver:  composition.NewResolver(ds),
	})
}

func (s *Server) current() *engine {
	return s.engine.Load()
}

// Router exposes the chi router so callers can mount extra handlers.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tiers", s.handleGetTiers)

		// Units
		r.Get("/units", s.handleGetUnits)
		r.Get("/units/{id}", s.handleGetUnit)
		r.Get("/units/{id}/teammates", s.handleGetTeammates)
		r.Get("/units/{id}/wanted-by", s.handleGetWantedBy)
		r.Get("/units/{id}/avoided-by", s.handleGetAvoidedBy)
		r.Get("/units/{id}/score", s.handleGetScore)

		// Teams
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/teams/recommend", s.handleRecommend)
			r.Post("/teams/reconstruct", s.handleReconstruct)
		})

		// Roster
		r.Get("/roster", s.handleGetRoster)
		r.Get("/roster/{id}", s.handleGetInvestment)
		r.Put("/roster/{id}", s.handlePutInvestment)
		r.Delete("/roster/{id}", s.handleDeleteInvestment)

		// Saved teams
		r.Post("/saved-teams", s.handleSaveTeam)
		r.Get("/saved-teams", s.handleGetSavedTeams)
		r.Get("/saved-teams/{id}", s.handleGetSavedTeam)
		r.Delete("/saved-teams/{id}", s.handleDeleteSavedTeam)

		// Share links
		r.Get("/s/{code}", s.handleGetSavedTeamByCode)

		// Authoring
		r.Get("/authoring/suggestions", s.handleGetSuggestions)
		r.Post("/authoring/validate", s.handleValidateUnit)
		r.Post("/authoring/diff", s.handleDiffCompositions)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// requestLogger logs every request at debug level, and failures above that.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("HTTP request failed", fields...)
			return
		}
		s.logger.Debug("HTTP request", fields...)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps application errors to status codes. Anything unexpected is
// logged and reported as a 500 with message.
func (s *Server) respondErr(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidSelection):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(message, zap.Error(err))
		respondError(w, http.StatusInternalServerError, message)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// parseMode reads a mode, using fallback when raw is empty.
func parseMode(raw string, fallback models.Mode) (models.Mode, error) {
	if raw == "" {
		return fallback, nil
	}
	m := models.Mode(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q: %w", raw, apperrors.ErrInvalidInput)
	}
	return m, nil
}
