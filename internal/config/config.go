package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/logger"
	"github.com/muliwe/go-triangle-classifier/internal/logging"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    logging.Config   `yaml:"logging"`
	Audit      logger.Config    `yaml:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	EnableDebug  bool          `yaml:"enable_debug"`
	TLSCertFile  string        `yaml:"tls_cert"`
	TLSKeyFile   string        `yaml:"tls_key"`
}

// ClassifierConfig holds classifier settings.
type ClassifierConfig struct {
	SimulatedLatency time.Duration `yaml:"simulated_latency"`
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
			EnableDebug:  true,
		},
		Classifier: ClassifierConfig{
			SimulatedLatency: classifier.DefaultConfig().SimulatedLatency,
		},
		Logging: logging.DefaultConfig(),
		Audit:   logger.DefaultConfig(),
	}
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *AppConfig) TLSEnabled() bool {
	return c.Server.TLSCertFile != "" && c.Server.TLSKeyFile != ""
}

// ClassifierConfig converts to the classifier package configuration.
func (c *AppConfig) ClassifierConfig() classifier.Config {
	return classifier.Config{SimulatedLatency: c.Classifier.SimulatedLatency}
}

// Validate checks value ranges and enumerations.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":          c.Server.ReadTimeout,
		"server.write_timeout":         c.Server.WriteTimeout,
		"server.idle_timeout":          c.Server.IdleTimeout,
		"classifier.simulated_latency": c.Classifier.SimulatedLatency,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.tls_cert and server.tls_key must be set together"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	if c.Audit.LogDir == "" {
		errs = append(errs, errors.New("audit.dir is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
