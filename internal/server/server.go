package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/five82/shelf/internal/catalog"
)

var errEmptyDataset = errors.New("dataset has no items")

// Options configure a Server.
type Options struct {
	Listen         string
	Latency        time.Duration
	Jitter         time.Duration
	FailureRate    float64 // share of API calls answered with 503, in [0,1]
	MetricsEnabled bool
	RateLimit      float64 // requests per second; zero disables limiting
	RateBurst      int
}

// Server is the shelfd HTTP server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	opts       Options
	logger     *zap.Logger
	registry   *prometheus.Registry
}

// New builds a Server over data.
func New(opts Options, logger *zap.Logger, data catalog.Dataset) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(data.Items) == 0 {
		return nil, errEmptyDataset
	}
	if opts.FailureRate < 0 || opts.FailureRate > 1 {
		return nil, fmt.Errorf("failure rate %v outside [0,1]", opts.FailureRate)
	}

	s := &Server{
		router:   mux.NewRouter(),
		opts:     opts,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	m := newMetrics(s.registry)

	s.router.Use(mux.MiddlewareFunc(recovery(logger)))
	s.router.Use(mux.MiddlewareFunc(withRequestID()))
	if opts.MetricsEnabled {
		s.router.Use(mux.MiddlewareFunc(instrument(m)))
	}
	s.router.Use(mux.MiddlewareFunc(requestLogging(logger)))
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		s.router.Use(mux.MiddlewareFunc(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst), m)))
	}

	h := &catalogHandler{
		data:        data,
		latency:     opts.Latency,
		jitter:      opts.Jitter,
		failureRate: opts.FailureRate,
		roll:        rand.Float64,
		logger:      logger,
		metrics:     m,
	}
	h.register(s.router)

	if opts.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.httpServer = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.opts.Listen),
		zap.Duration("latency", s.opts.Latency),
		zap.Duration("jitter", s.opts.Jitter),
		zap.Float64("failure_rate", s.opts.FailureRate),
		zap.Bool("metrics_enabled", s.opts.MetricsEnabled),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Router returns the request router, for tests and embedding.
func (s *Server) Router() *mux.Router {
	return s.router
}
