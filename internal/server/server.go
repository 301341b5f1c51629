package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/db"
	"github.com/draganm/mnistmock/internal/generator"
	"github.com/draganm/mnistmock/internal/metrics"
	"github.com/draganm/mnistmock/internal/models"
)

const (
	DefaultMaxRows = 100000
	defaultLimit   = 100
)

// Config holds server configuration
type Config struct {
	// DatabaseURL is optional; without it manifest endpoints answer 503.
	DatabaseURL string
	Port        int
	MaxRows     int
}

// ManifestStore is the read side of the manifest database
type ManifestStore interface {
	GetManifest(ctx context.Context, id uuid.UUID) (models.Manifest, error)
	ListManifests(ctx context.Context, kind models.Kind, limit, offset int) ([]models.Manifest, error)
	Health(ctx context.Context) error
}

// Server streams generated datasets and exposes recorded manifests
type Server struct {
	config *Config
	store  ManifestStore
	server *http.Server
	port   int
	ready  chan struct{}
}

// New creates a new server instance
func New(cfg *Config) (*Server, error) {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	return &Server{
		config: cfg,
		ready:  make(chan struct{}),
	}, nil
}

// NewWithStore creates a server backed by an existing manifest store
func NewWithStore(cfg *Config, store ManifestStore) (*Server, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	s.store = store
	return s, nil
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	if s.store == nil && s.config.DatabaseURL != "" {
		conn, err := db.Open(ctx, db.Config{DatabaseURL: s.config.DatabaseURL})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()
		s.store = conn
		slog.Info("Connected to database")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting server", "port", s.port)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})
	close(s.ready)

	return g.Wait()
}

// Ready is closed once the listener is bound and Port is valid
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Port returns the actual port the server is listening on
func (s *Server) Port() int {
	return s.port
}

// Handler returns the routed, instrumented handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/v1/metrics", metrics.PrometheusHandler())
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/datasets", s.handleListDatasets)
	mux.HandleFunc("GET /api/v1/datasets/{name}", s.handleDataset)
	return metrics.HTTPMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "disabled"

	if s.store != nil {
		dbStatus = "connected"
		if err := s.store.Health(r.Context()); err != nil {
			dbStatus = "disconnected"
			status = "unhealthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

// handleDataset serves either a generated file (train.csv, test.csv) or a
// recorded manifest addressed by its UUID.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if base, ok := strings.CutSuffix(name, ".csv"); ok {
		kind := models.Kind(base)
		if !kind.Valid() {
			s.writeError(w, http.StatusNotFound, "Unknown dataset", map[string]interface{}{"name": name})
			return
		}
		s.handleStreamDataset(w, r, kind)
		return
	}

	id, err := uuid.Parse(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid dataset ID", map[string]interface{}{"id": name})
		return
	}
	s.handleGetManifest(w, r, id)
}

func (s *Server) handleStreamDataset(w http.ResponseWriter, r *http.Request, kind models.Kind) {
	q := r.URL.Query()

	rows := 10
	if v := q.Get("rows"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > s.config.MaxRows {
			s.writeError(w, http.StatusBadRequest, "rows must be an integer between 0 and max_rows",
				map[string]interface{}{"rows": v, "max_rows": s.config.MaxRows})
			return
		}
		rows = parsed
	}

	header := true
	if v := q.Get("header"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "header must be a boolean", map[string]interface{}{"header": v})
			return
		}
		header = parsed
	}

	var seed int64
	if v := q.Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "seed must be an integer", map[string]interface{}{"seed": v})
			return
		}
		seed = parsed
	}

	if header && rows == 0 {
		s.writeError(w, http.StatusBadRequest, csvio.ErrEmptyDataset.Error(), map[string]interface{}{"rows": 0})
		return
	}

	src := generator.NewSource(seed)
	ds := generator.New(src).GenerateKind(kind, rows)
	metrics.RowsGenerated.WithLabelValues(string(kind)).Add(float64(len(ds)))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mnist_mock_"+string(kind)+".csv"))
	w.Header().Set("X-Mnistmock-Seed", strconv.FormatInt(src.Seed(), 10))
	w.WriteHeader(http.StatusOK)

	if err := csvio.Write(w, ds, header); err != nil {
		// headers are already sent, all we can do is log
		slog.Error("Failed to stream dataset", "kind", kind, "rows", rows, "error", err)
		return
	}
	metrics.DatasetsServed.WithLabelValues(string(kind)).Inc()
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Manifest database not configured", nil)
		return
	}

	q := r.URL.Query()

	kind := models.Kind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		s.writeError(w, http.StatusBadRequest, "Invalid kind", map[string]interface{}{"kind": kind})
		return
	}

	limit := defaultLimit
	if l := q.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if o := q.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	manifests, err := s.store.ListManifests(r.Context(), kind, limit, offset)
	if err != nil {
		slog.Error("Failed to list manifests", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to list datasets", nil)
		return
	}
	if manifests == nil {
		manifests = []models.Manifest{}
	}

	s.writeJSON(w, http.StatusOK, manifests)
}

func (s *Server) handleGetManifest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Manifest database not configured", nil)
		return
	}

	m, err := s.store.GetManifest(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Dataset not found", map[string]interface{}{"id": id})
		} else {
			slog.Error("Failed to get manifest", "error", err, "id", id)
			s.writeError(w, http.StatusInternalServerError, "Failed to get dataset", nil)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string, context map[string]interface{}) {
	response := map[string]interface{}{
		"error": message,
	}
	if context != nil {
		response["context"] = context
	}
	s.writeJSON(w, code, response)
}
