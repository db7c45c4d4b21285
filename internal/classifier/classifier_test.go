package classifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

type recorderStub struct {
	mu    sync.Mutex
	types []triangle.Type
}

func (r *recorderStub) ObserveClassification(t triangle.Type, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, t)
}

func TestClassifierDefaultConfig(t *testing.T) {
	assert.Zero(t, DefaultConfig().SimulatedLatency)
	assert.Equal(t, 50*time.Millisecond, SlowConfig().SimulatedLatency)
}

func TestNew_NegativeLatencyDisabled(t *testing.T) {
	c := New(Config{SimulatedLatency: -time.Second})
	assert.Zero(t, c.Latency())
}

func TestClassify_Result(t *testing.T) {
	c := New(DefaultConfig())

	r, err := c.Classify(context.Background(), triangle.Sides{A: 3, B: 2, C: 2})
	require.NoError(t, err)

	assert.Equal(t, triangle.Isosceles, r.Type)
	assert.True(t, r.Valid)
	assert.Equal(t, triangle.Sides{A: 3, B: 2, C: 2}, r.Sides)
	assert.Equal(t, triangle.Sides{A: 2, B: 2, C: 3}, r.Sorted)
	assert.Equal(t, "two sides equal to 2", r.Reason)
	assert.NotEmpty(t, r.RequestID)
	assert.False(t, r.Timestamp.IsZero())
}

func TestClassify_Reasons(t *testing.T) {
	c := New(DefaultConfig())
	tests := []struct {
		sides triangle.Sides
		want  string
	}{
		{triangle.Sides{A: 1, B: 1, C: 1}, "all sides equal to 1"},
		{triangle.Sides{A: 2, B: 3, C: 3}, "two sides equal to 3"},
		{triangle.Sides{A: 3, B: 4, C: 5}, "all sides differ"},
		{triangle.Sides{A: 1, B: 1, C: -1}, "non-positive side -1"},
		{triangle.Sides{A: 0, B: 0, C: 0}, "non-positive side 0"},
		{triangle.Sides{A: 1, B: 2, C: 1}, "degenerate: 1 + 1 = 2"},
		{triangle.Sides{A: 9, B: 1, C: 2}, "triangle inequality violated: 1 + 2 < 9"},
	}

	for _, tt := range tests {
		r, err := c.Classify(context.Background(), tt.sides)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.Reason, "sides %s", tt.sides)
	}
}

func TestClassify_UniqueRequestIDs(t *testing.T) {
	c := New(DefaultConfig())
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		r, err := c.Classify(context.Background(), triangle.Sides{A: 1, B: 1, C: 1})
		require.NoError(t, err)
		require.False(t, seen[r.RequestID], "duplicate request id %s", r.RequestID)
		seen[r.RequestID] = true
	}
}

func TestClassify_SimulatedLatency(t *testing.T) {
	c := New(Config{SimulatedLatency: 20 * time.Millisecond})

	start := time.Now()
	r, err := c.Classify(context.Background(), triangle.Sides{A: 3, B: 4, C: 5})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.GreaterOrEqual(t, r.Duration, 20*time.Millisecond)
	assert.Equal(t, triangle.Scalene, r.Type)
}

func TestClassify_CancelledDuringLatency(t *testing.T) {
	c := New(Config{SimulatedLatency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Classify(ctx, triangle.Sides{A: 1, B: 1, C: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClassify_CancelledContextWithoutLatency(t *testing.T) {
	c := New(DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, triangle.Sides{A: 1, B: 1, C: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyBatch(t *testing.T) {
	rec := &recorderStub{}
	c := New(DefaultConfig()).WithRecorder(rec)

	samples := triangle.Samples()
	batch := make([]triangle.Sides, len(samples))
	for i, s := range samples {
		batch[i] = s.Sides
	}

	results, err := c.ClassifyBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, results, len(samples))

	for i, r := range results {
		assert.Equal(t, samples[i].Want, r.Type, "sample %s", samples[i].Sides)
	}
	assert.Len(t, rec.types, len(samples))
}

func TestClassifyBatch_PartialOnCancel(t *testing.T) {
	c := New(Config{SimulatedLatency: 30 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()

	batch := []triangle.Sides{{A: 1, B: 1, C: 1}, {A: 2, B: 2, C: 3}, {A: 3, B: 4, C: 5}}
	results, err := c.ClassifyBatch(ctx, batch)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, results, 1)
}

func TestClassify_Concurrent(t *testing.T) {
	c := New(DefaultConfig())
	samples := triangle.Samples()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range samples {
				r, err := c.Classify(context.Background(), s.Sides)
				if assert.NoError(t, err) {
					assert.Equal(t, s.Want, r.Type)
				}
			}
		}()
	}
	wg.Wait()
}
