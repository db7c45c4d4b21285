package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var entries []LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), "line %q", sc.Text())
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestLoggerDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "requests.jsonl", cfg.FileName)
	assert.False(t, cfg.Stdout)
}

func TestLoggerNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	l, err := New(Config{LogDir: dir, FileName: "test.jsonl"})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	assert.FileExists(t, filepath.Join(dir, "test.jsonl"))
	assert.Equal(t, filepath.Join(dir, "test.jsonl"), l.LogPath())
}

func TestLoggerNew_DefaultFileName(t *testing.T) {
	dir := t.TempDir()

	l, err := New(Config{LogDir: dir})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	assert.FileExists(t, filepath.Join(dir, "requests.jsonl"))
}

func TestLoggerLogResult(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{LogDir: dir, FileName: "test.jsonl"})
	require.NoError(t, err)

	c := classifier.New(classifier.DefaultConfig())
	result, err := c.Classify(context.Background(), triangle.Sides{A: 1, B: 2, C: 9})
	require.NoError(t, err)

	require.NoError(t, l.LogResult(result, "127.0.0.1:1234", 3))
	require.NoError(t, l.Close())

	entries := readEntries(t, filepath.Join(dir, "test.jsonl"))
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, result.RequestID, e.RequestID)
	assert.Equal(t, "127.0.0.1:1234", e.RemoteAddr)
	assert.Equal(t, triangle.Sides{A: 1, B: 2, C: 9}, e.Sides)
	assert.Equal(t, triangle.Invalid, e.Classification)
	assert.False(t, e.Valid)
	assert.Equal(t, int64(3), e.ResponseTimeMs)
	assert.Zero(t, e.LatencyMs)
}

func TestLoggerSimulatedLatency(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{LogDir: dir, FileName: "slow.jsonl"})
	require.NoError(t, err)

	l.SetSimulatedLatency(50 * time.Millisecond)
	require.NoError(t, l.Log(LogEntry{RequestID: "abc", Classification: triangle.Scalene}))
	require.NoError(t, l.Close())

	entries := readEntries(t, filepath.Join(dir, "slow.jsonl"))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(50), entries[0].LatencyMs)
}

func TestLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{LogDir: dir, FileName: "concurrent.jsonl"})
	require.NoError(t, err)

	const writers, perWriter = 10, 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				assert.NoError(t, l.Log(LogEntry{RequestID: "id", Classification: triangle.Isosceles}))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, l.Close())

	assert.Len(t, readEntries(t, filepath.Join(dir, "concurrent.jsonl")), writers*perWriter)
}

func TestLoggerCloseTwice(t *testing.T) {
	l, err := New(Config{LogDir: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, l.Close())
	assert.NoError(t, l.Close())
	assert.Empty(t, l.LogPath())
}
