package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"

	"github.com/google/uuid"
)

// SlowLatency is the per-call delay of the deliberately slow variant
const SlowLatency = 50 * time.Millisecond

// Recorder observes completed classifications
type Recorder interface {
	ObserveClassification(t triangle.Type, d time.Duration)
}

// Result is a single classification with request metadata
type Result struct {
	RequestID string         `json:"request_id"`
	Timestamp time.Time      `json:"timestamp"`
	Sides     triangle.Sides `json:"sides"`
	Sorted    triangle.Sides `json:"sorted"`
	Type      triangle.Type  `json:"classification"`
	Valid     bool           `json:"valid"`
	Reason    string         `json:"reason"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Classifier wraps triangle.Classify with request metadata and
// an optional simulated latency
type Classifier struct {
	latency  time.Duration
	recorder Recorder
}

// Config holds classifier configuration
type Config struct {
	// SimulatedLatency is waited before every classification.
	// Zero disables it.
	SimulatedLatency time.Duration
}

// DefaultConfig returns default classifier configuration
func DefaultConfig() Config {
	return Config{
		SimulatedLatency: 0,
	}
}

// SlowConfig returns the configuration of the deliberately slow variant
func SlowConfig() Config {
	return Config{
		SimulatedLatency: SlowLatency,
	}
}

// New creates a new classifier
func New(cfg Config) *Classifier {
	latency := cfg.SimulatedLatency
	if latency < 0 {
		latency = 0
	}
	return &Classifier{
		latency: latency,
	}
}

// WithRecorder attaches a metrics recorder and returns the classifier
func (c *Classifier) WithRecorder(r Recorder) *Classifier {
	c.recorder = r
	return c
}

// Latency returns the configured simulated latency
func (c *Classifier) Latency() time.Duration {
	return c.latency
}

// Classify classifies the given sides. The only error is ctx.Err() when the
// context ends during the simulated latency.
func (c *Classifier) Classify(ctx context.Context, s triangle.Sides) (Result, error) {
	start := time.Now()

	if err := c.delay(ctx); err != nil {
		return Result{}, err
	}

	typ := s.Classify()
	sorted := s.Sorted()
	elapsed := time.Since(start)

	if c.recorder != nil {
		c.recorder.ObserveClassification(typ, elapsed)
	}

	return Result{
		RequestID: uuid.New().String(),
		Timestamp: start.UTC(),
		Sides:     s,
		Sorted:    sorted,
		Type:      typ,
		Valid:     typ != triangle.Invalid,
		Reason:    reason(sorted, typ),
		Duration:  elapsed,
	}, nil
}

// ClassifyBatch classifies every entry in order. On cancellation it returns
// the results computed so far together with the context error.
func (c *Classifier) ClassifyBatch(ctx context.Context, batch []triangle.Sides) ([]Result, error) {
	results := make([]Result, 0, len(batch))
	for _, s := range batch {
		r, err := c.Classify(ctx, s)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Classifier) delay(ctx context.Context) error {
	if c.latency == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reason explains a classification of already sorted sides
func reason(s triangle.Sides, t triangle.Type) string {
	switch t {
	case triangle.Equilateral:
		return fmt.Sprintf("all sides equal to %d", s.A)
	case triangle.Isosceles:
		if s.A == s.B {
			return fmt.Sprintf("two sides equal to %d", s.A)
		}
		return fmt.Sprintf("two sides equal to %d", s.C)
	case triangle.Scalene:
		return "all sides differ"
	}

	switch {
	case s.A <= 0:
		return fmt.Sprintf("non-positive side %d", s.A)
	case s.C-s.B == s.A:
		return fmt.Sprintf("degenerate: %d + %d = %d", s.A, s.B, s.C)
	default:
		return fmt.Sprintf("triangle inequality violated: %d + %d < %d", s.A, s.B, s.C)
	}
}
