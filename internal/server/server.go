package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/config"
	"github.com/muliwe/go-triangle-classifier/internal/logger"
	"github.com/muliwe/go-triangle-classifier/internal/metrics"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 30 * time.Second

// Config holds server configuration
type Config struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	EnableDebug   bool
	AuditEnabled  bool
	LoggerConfig  logger.Config
	ClassifierCfg classifier.Config

	// TLS configuration
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// RequestTimeout bounds each request's context. Zero derives it from
	// WriteTimeout, keeping a quarter of it to write the response.
	RequestTimeout time.Duration

	// Registerer receives the server metrics; nil uses a private registry
	// with Go and process collectors
	Registerer prometheus.Registerer
	// Log is the operational logger; nil uses slog.Default()
	Log *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  10 * time.Second,
		IdleTimeout:   120 * time.Second,
		EnableDebug:   true,
		AuditEnabled:  true,
		LoggerConfig:  logger.DefaultConfig(),
		ClassifierCfg: classifier.DefaultConfig(),
		TLSEnabled:    false,
	}
}

// ConfigFrom maps the application configuration onto a server Config
func ConfigFrom(app *config.AppConfig) Config {
	cfg := DefaultConfig()
	cfg.Addr = app.Server.Addr
	cfg.ReadTimeout = app.Server.ReadTimeout
	cfg.WriteTimeout = app.Server.WriteTimeout
	cfg.IdleTimeout = app.Server.IdleTimeout
	cfg.EnableDebug = app.Server.EnableDebug
	cfg.LoggerConfig = app.Audit
	cfg.ClassifierCfg = app.ClassifierConfig()
	cfg.TLSEnabled = app.TLSEnabled()
	cfg.TLSCertFile = app.Server.TLSCertFile
	cfg.TLSKeyFile = app.Server.TLSKeyFile
	return cfg
}

// Server represents the HTTP server
type Server struct {
	cfg        Config
	httpServer *http.Server
	handler    *Handler
	logger     *logger.Logger
	log        *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	var l *logger.Logger
	if cfg.AuditEnabled {
		var err error
		l, err = logger.New(cfg.LoggerConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit logger: %w", err)
		}
		l.SetSimulatedLatency(cfg.ClassifierCfg.SimulatedLatency)
	}

	m := metrics.New(cfg.Registerer)
	clf := classifier.New(cfg.ClassifierCfg).WithRecorder(m)
	handler := NewHandler(clf, l, m)
	handler.SetLogger(log)
	handler.SetRequestTimeout(requestTimeout(cfg))

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.Routes(cfg.EnableDebug),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.TLSEnabled {
		httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"h2", "http/1.1"}, // Enable HTTP/2
		}
	}

	return &Server{
		cfg:        cfg,
		httpServer: httpServer,
		handler:    handler,
		logger:     l,
		log:        log,
	}, nil
}

func requestTimeout(cfg Config) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return cfg.WriteTimeout - cfg.WriteTimeout/4
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the bound listener address, or the configured one before Run
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Start starts the server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		_ = s.closeAudit()
		return fmt.Errorf("failed to create TCP listener: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	protocol := "HTTP"
	if s.cfg.TLSEnabled {
		protocol = "HTTPS"
	}
	s.log.Info("triangle classifier starting",
		"addr", ln.Addr().String(),
		"protocol", protocol,
		"debug", s.cfg.EnableDebug,
		"simulated_latency", s.cfg.ClassifierCfg.SimulatedLatency,
	)
	if s.logger != nil {
		s.log.Info("audit log", "path", s.logger.LogPath())
	}

	errCh := make(chan error, 1)
	go func() {
		if s.cfg.TLSEnabled {
			s.log.Info("tls enabled", "cert", s.cfg.TLSCertFile)
			errCh <- s.httpServer.ServeTLS(ln, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
			return
		}
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = s.closeAudit()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.log.Info("server shutting down")
	}

	if err := s.Close(); err != nil {
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// Close gracefully shuts down the server and flushes the audit log
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return s.closeAudit()
}

func (s *Server) closeAudit() error {
	if s.logger == nil {
		return nil
	}
	if err := s.logger.Close(); err != nil {
		return fmt.Errorf("closing audit log: %w", err)
	}
	return nil
}
