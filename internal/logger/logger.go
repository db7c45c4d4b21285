package logger

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// LogEntry represents a single audit log entry
type LogEntry struct {
	Timestamp      time.Time      `json:"timestamp"`
	RequestID      string         `json:"request_id"`
	RemoteAddr     string         `json:"remote_addr"`
	Sides          triangle.Sides `json:"sides"`
	Classification triangle.Type  `json:"classification"`
	Valid          bool           `json:"valid"`
	Reason         string         `json:"reason"`
	LatencyMs      int64          `json:"simulated_latency_ms,omitempty"`
	ResponseTimeMs int64          `json:"response_time_ms"`
}

// Logger appends classification results to a JSON-lines file
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	latency time.Duration
}

// Config holds logger configuration
type Config struct {
	LogDir   string `yaml:"dir"`    // Directory for log files
	FileName string `yaml:"file"`   // Log file name (default: requests.jsonl)
	Stdout   bool   `yaml:"stdout"` // Also write to stdout
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	return Config{
		LogDir:   "logs",
		FileName: "requests.jsonl",
		Stdout:   false,
	}
}

// New creates a new logger instance
func New(cfg Config) (*Logger, error) {
	if cfg.FileName == "" {
		cfg.FileName = DefaultConfig().FileName
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}

	logPath := filepath.Join(cfg.LogDir, cfg.FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	var writer io.Writer = file
	if cfg.Stdout {
		writer = io.MultiWriter(file, os.Stdout)
	}

	return &Logger{
		file:    file,
		encoder: json.NewEncoder(writer),
	}, nil
}

// SetSimulatedLatency records the classifier latency on every entry
func (l *Logger) SetSimulatedLatency(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latency = d
}

// Log writes an entry to the log
func (l *Logger) Log(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.LatencyMs == 0 {
		entry.LatencyMs = l.latency.Milliseconds()
	}
	return l.encoder.Encode(entry)
}

// LogResult logs a classifier.Result with additional metadata
func (l *Logger) LogResult(result classifier.Result, remoteAddr string, responseTimeMs int64) error {
	return l.Log(LogEntry{
		Timestamp:      result.Timestamp,
		RequestID:      result.RequestID,
		RemoteAddr:     remoteAddr,
		Sides:          result.Sides,
		Classification: result.Type,
		Valid:          result.Valid,
		Reason:         result.Reason,
		ResponseTimeMs: responseTimeMs,
	})
}

// Close closes the logger
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Name()
	}
	return ""
}
