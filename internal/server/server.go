package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/storage"
)

// Server serves a read-only view of an ingested dataset
type Server struct {
	config   config.ServerConfig
	storage  storage.Storage
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, store storage.Storage, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		config:   cfg,
		storage:  store,
		gatherer: gatherer,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/posts", s.handlePosts)
	r.Get("/posts/{id}", s.handlePostByID)
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handlePosts handles GET requests for posts
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	limit := 10 // default
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	offset := 0 // default
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	posts, err := s.storage.GetPosts(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("failed to retrieve posts", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"posts":  posts,
		"count":  len(posts),
		"limit":  limit,
		"offset": offset,
	})
}

// handlePostByID handles GET requests for a specific post
func (s *Server) handlePostByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := s.storage.GetPostByID(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to retrieve post", "id", id, "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve post")
		return
	}

	if post == nil {
		s.respondWithError(w, http.StatusNotFound, "Post not found")
		return
	}

	s.respondWithJSON(w, http.StatusOK, post)
}

// handleStatus handles GET requests for ingestion status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.storage.GetIngestionStatus(r.Context())
	if err != nil {
		s.logger.Error("failed to retrieve status", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
