package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/logger"
	"github.com/muliwe/go-triangle-classifier/internal/logging"
	"github.com/muliwe/go-triangle-classifier/internal/metrics"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// Version is reported by /health and every classification response
const Version = "0.1.0"

// MaxBatchSize bounds the number of triangles in one POST /classify
const MaxBatchSize = 1000

// ErrBadRequest marks malformed client input
var ErrBadRequest = errors.New("bad request")

// Response represents the API response
type Response struct {
	Classification triangle.Type  `json:"classification"`
	Valid          bool           `json:"valid"`
	Sides          triangle.Sides `json:"sides"`
	Message        string         `json:"message"`
	RequestID      string         `json:"request_id"`
	Timestamp      time.Time      `json:"timestamp"`
	Version        string         `json:"version"`
}

// BatchRequest is the body of POST /classify
type BatchRequest struct {
	Triangles []SidesInput `json:"triangles"`
}

// SidesInput is one triangle of a BatchRequest. Every side is required.
type SidesInput struct {
	A *int `json:"a"`
	B *int `json:"b"`
	C *int `json:"c"`
}

// NewSidesInput builds a complete SidesInput from s
func NewSidesInput(s triangle.Sides) SidesInput {
	return SidesInput{A: &s.A, B: &s.B, C: &s.C}
}

// Sides returns the sides, or ErrBadRequest when one is missing
func (in SidesInput) Sides() (triangle.Sides, error) {
	var vals [3]int
	for i, side := range []struct {
		name string
		v    *int
	}{{"a", in.A}, {"b", in.B}, {"c", in.C}} {
		if side.v == nil {
			return triangle.Sides{}, fmt.Errorf("%w: missing side %q", ErrBadRequest, side.name)
		}
		vals[i] = *side.v
	}
	return triangle.Sides{A: vals[0], B: vals[1], C: vals[2]}, nil
}

// BatchResponse is returned by POST /classify
type BatchResponse struct {
	Results []Response `json:"results"`
	Count   int        `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier *classifier.Classifier
	logger     *logger.Logger
	metrics    *metrics.Metrics
	log        *slog.Logger
	timeout    time.Duration
	quiet      bool // suppress per-request console logging (useful for tests)
}

// NewHandler creates a new handler with dependencies.
// A nil audit logger or metrics disables that feature.
func NewHandler(cl *classifier.Classifier, l *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		classifier: cl,
		logger:     l,
		metrics:    m,
		log:        slog.Default(),
	}
}

// SetQuiet enables or disables console logging
func (h *Handler) SetQuiet(quiet bool) {
	h.quiet = quiet
}

// SetLogger replaces the operational logger
func (h *Handler) SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.NewNop()
	}
	h.log = l
}

// SetRequestTimeout bounds the context of every request. Zero disables it.
func (h *Handler) SetRequestTimeout(d time.Duration) {
	h.timeout = d
}

// Routes builds the chi router. /debug is mounted only when enableDebug is set.
func (h *Handler) Routes(enableDebug bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(h.instrument)
	r.Use(h.deadline)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/classify", h.HandleClassify)
	r.Post("/classify", h.HandleClassifyBatch)
	r.Get("/health", h.HandleHealth)
	if enableDebug {
		r.Get("/debug", h.HandleDebug)
	}
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	return r
}

// HandleClassify handles GET /classify?a=&b=&c=
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	sides, err := sidesFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.classifier.Classify(r.Context(), sides)
	if err != nil {
		h.writeContextError(w, r, err)
		return
	}

	responseTime := time.Since(startTime).Milliseconds()
	h.audit(r, result, responseTime)

	if !h.quiet {
		LoggerFromContext(r.Context(), h.log).Info("classified",
			"sides", sides.String(),
			"type", result.Type.String(),
			"ms", responseTime,
		)
	}

	writeJSON(w, http.StatusOK, newResponse(result))
}

// HandleClassifyBatch handles POST /classify with a JSON BatchRequest body
func (h *Handler) HandleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var req BatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: invalid body: %v", ErrBadRequest, err))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: unexpected data after body", ErrBadRequest))
		return
	}
	if len(req.Triangles) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: no triangles given", ErrBadRequest))
		return
	}
	if len(req.Triangles) > MaxBatchSize {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("%v: %d triangles exceeds limit of %d", ErrBadRequest, len(req.Triangles), MaxBatchSize))
		return
	}

	batch := make([]triangle.Sides, len(req.Triangles))
	for i, in := range req.Triangles {
		s, err := in.Sides()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v (triangle %d)", err, i))
			return
		}
		batch[i] = s
	}

	results, err := h.classifier.ClassifyBatch(r.Context(), batch)
	if err != nil {
		h.writeContextError(w, r, err)
		return
	}

	responseTime := time.Since(startTime).Milliseconds()
	resp := BatchResponse{
		Results: make([]Response, 0, len(results)),
		Count:   len(results),
	}
	for _, res := range results {
		h.audit(r, res, responseTime)
		resp.Results = append(resp.Results, newResponse(res))
	}

	if !h.quiet {
		LoggerFromContext(r.Context(), h.log).Info("classified batch",
			"count", len(results),
			"ms", responseTime,
		)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleDebug returns the full classifier.Result for the given sides
func (h *Handler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	sides, err := sidesFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.classifier.Classify(r.Context(), sides)
	if err != nil {
		h.writeContextError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		h.log.Error("encoding debug response", "error", err)
	}
}

func (h *Handler) audit(r *http.Request, result classifier.Result, responseTimeMs int64) {
	if h.logger == nil {
		return
	}
	if err := h.logger.LogResult(result, r.RemoteAddr, responseTimeMs); err != nil {
		LoggerFromContext(r.Context(), h.log).Error("writing audit log", "error", err)
	}
}

func (h *Handler) writeContextError(w http.ResponseWriter, r *http.Request, err error) {
	LoggerFromContext(r.Context(), h.log).Warn("classification aborted", "error", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		writeError(w, http.StatusRequestTimeout, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// deadline applies the request timeout to the request context
func (h *Handler) deadline(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// instrument counts requests by chi route pattern and status code
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if h.metrics == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveRequest(route, status)
	})
}

func newResponse(result classifier.Result) Response {
	return Response{
		Classification: result.Type,
		Valid:          result.Valid,
		Sides:          result.Sides,
		Message:        message(result),
		RequestID:      result.RequestID,
		Timestamp:      result.Timestamp,
		Version:        Version,
	}
}

func message(result classifier.Result) string {
	if !result.Valid {
		return fmt.Sprintf("Sides %s do not form a triangle: %s", result.Sides, result.Reason)
	}
	return fmt.Sprintf("Sides %s form a %s triangle", result.Sides, strings.ToLower(result.Type.String()))
}

func sidesFromQuery(r *http.Request) (triangle.Sides, error) {
	q := r.URL.Query()
	var vals [3]int
	for i, name := range []string{"a", "b", "c"} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return triangle.Sides{}, fmt.Errorf("%w: missing side %q", ErrBadRequest, name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return triangle.Sides{}, fmt.Errorf("%w: side %q is not an integer: %q", ErrBadRequest, name, raw)
		}
		vals[i] = v
	}
	return triangle.Sides{A: vals[0], B: vals[1], C: vals[2]}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
