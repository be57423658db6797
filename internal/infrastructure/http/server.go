package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	mw "github.com/rezkam/fieldsched/internal/infrastructure/http/middleware"
	"github.com/rezkam/fieldsched/internal/infrastructure/http/response"
)

// Server defaults, matching the FIELDSCHED_HTTP_* defaults.
const (
	DefaultPort              = "8080"
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20
	DefaultMaxBodyBytes      = 64 << 10
)

// ServiceName names the server spans.
const ServiceName = "fieldsched-http"

// Health values reported by GET /health.
const (
	HealthOK       = "ok"
	HealthLoading  = "loading"
	HealthDegraded = "degraded"
)

// ServerConfig configures the API server. Zero values get the defaults above.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64

	// Health reports the snapshot status on /health. Nil always reports ok.
	Health func() schedule.Status
	Logger *slog.Logger
}

func (cfg *ServerConfig) applyDefaults() {
	cfg.Port = orDefault(cfg.Port, DefaultPort)
	cfg.ReadTimeout = orDefault(cfg.ReadTimeout, DefaultReadTimeout)
	cfg.WriteTimeout = orDefault(cfg.WriteTimeout, DefaultWriteTimeout)
	cfg.IdleTimeout = orDefault(cfg.IdleTimeout, DefaultIdleTimeout)
	cfg.ReadHeaderTimeout = orDefault(cfg.ReadHeaderTimeout, DefaultReadHeaderTimeout)
	cfg.MaxHeaderBytes = orDefault(cfg.MaxHeaderBytes, DefaultMaxHeaderBytes)
	cfg.MaxBodyBytes = orDefault(cfg.MaxBodyBytes, DefaultMaxBodyBytes)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string           `json:"status"`
	Snapshot *schedule.Status `json:"snapshot,omitempty"`
}

// APIServer serves the schedule API under /api and a health probe on /health.
type APIServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewAPIServer builds the router and the net/http server around api.
func NewAPIServer(api http.Handler, cfg ServerConfig) *APIServer {
	cfg.applyDefaults()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Get("/health", healthHandler(cfg.Health))
	r.Mount("/api", api)

	return &APIServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           otelhttp.NewHandler(r, ServiceName),
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		},
		logger: cfg.Logger,
	}
}

// healthHandler answers 200 while a snapshot is loaded or loading, and 503 when
// the first fetch failed and there is nothing to serve.
func healthHandler(health func() schedule.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if health == nil {
			response.OK(w, HealthResponse{Status: HealthOK})
			return
		}

		st := health()
		resp, code := HealthResponse{Status: HealthOK, Snapshot: &st}, http.StatusOK
		switch {
		case st.Error != "" && st.Loading:
			resp.Status, code = HealthDegraded, http.StatusServiceUnavailable
		case st.Error != "":
			resp.Status = HealthDegraded
		case st.Loading:
			resp.Status = HealthLoading
		}
		response.JSON(w, code, resp)
	}
}

// Addr returns the listen address.
func (s *APIServer) Addr() string {
	return s.server.Addr
}

// Start listens and serves until Shutdown, then returns http.ErrServerClosed.
func (s *APIServer) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "HTTP server stopping")
	return s.server.Shutdown(ctx)
}

// Handler returns the instrumented root handler.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}
