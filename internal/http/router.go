package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Danny-Devs/rocket-app/internal/domain"
	"github.com/Danny-Devs/rocket-app/internal/repository"
	"github.com/Danny-Devs/rocket-app/internal/service/auth"
	"github.com/Danny-Devs/rocket-app/internal/service/rustacean"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	auth       auth.Service
	rustaceans rustacean.Service
	limiter    RateLimiter
	dbHealth   func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitUserRead  = 120
	rateLimitUserWrite = 60
	healthCheckTimeout = 2 * time.Second
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, rustaceanSvc rustacean.Service, limiter RateLimiter, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:        http.NewServeMux(),
		logger:     logger,
		auth:       authSvc,
		rustaceans: rustaceanSvc,
		limiter:    limiter,
		dbHealth:   dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/rustaceans", r.audit(r.handleRustaceans))
	r.mux.HandleFunc("/rustaceans/", r.audit(r.handleRustaceanByID))
	// process-wide fallback: anything else is an unmatched route
	r.mux.HandleFunc("/", r.audit(func(w http.ResponseWriter, req *http.Request) {
		r.notFound(w)
	}))
}

func (r *Router) handleRustaceans(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.handlerAuthRate("/rustaceans", rateLimitUserRead, rateWindowDefault, r.handleList)(w, req)
	case http.MethodPost:
		r.handlerAuthRate("/rustaceans", rateLimitUserWrite, rateWindowDefault, r.handleCreate)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleRustaceanByID(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/rustaceans/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		r.notFound(w)
		return
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		// a non-numeric id segment is an unmatched route, not a bad request
		r.notFound(w)
		return
	}
	switch req.Method {
	case http.MethodGet:
		r.handlerAuthRate("/rustaceans/{id}", rateLimitUserRead, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
			r.handleGet(w, req, id)
		})(w, req)
	case http.MethodPut:
		r.handlerAuthRate("/rustaceans/{id}", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
			r.handleUpdate(w, req, id)
		})(w, req)
	case http.MethodDelete:
		r.handlerAuthRate("/rustaceans/{id}", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
			r.handleDelete(w, req, id)
		})(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleList(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	records, err := r.rustaceans.List(req.Context(), limit)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (r *Router) handleGet(w http.ResponseWriter, req *http.Request, id int64) {
	record, err := r.rustaceans.Get(req.Context(), id)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) {
	var payload domain.NewRustacean
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Unprocessable Entity: Invalid input data")
		return
	}
	created, err := r.rustaceans.Create(req.Context(), payload)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	// the original surface answered 200 on create, not 201; kept for clients
	writeJSON(w, http.StatusOK, created)
}

func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request, id int64) {
	// decoding into NewRustacean drops any id/created_at the client sends
	var payload domain.NewRustacean
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Unprocessable Entity: Invalid input data")
		return
	}
	updated, err := r.rustaceans.Update(req.Context(), id, payload)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request, id int64) {
	if err := r.rustaceans.Delete(req.Context(), id); err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError is the single outcome-to-status mapping shared by all
// CRUD routes: not-found becomes 404, validation 422, anything else 500.
// Storage error detail is logged, never echoed to the client.
func (r *Router) respondServiceError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Rustacean not found")
	case errors.Is(err, rustacean.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "Unprocessable Entity: Invalid input data")
	default:
		r.logger.Error("storage failure", "method", req.Method, "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not found!")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		requestID := strings.TrimSpace(req.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		recorder.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if identity, ok := identityFromContext(ctx); ok {
			actor = identity.Username
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
		r.recordRequestMetrics(req.Method, metricRoute(req.URL.Path), status, duration)
	}
}

// metricRoute collapses id segments so metrics stay low-cardinality.
func metricRoute(path string) string {
	if path == "/rustaceans" || path == "/healthz" || path == "/metrics" {
		return path
	}
	if strings.HasPrefix(path, "/rustaceans/") {
		return "/rustaceans/{id}"
	}
	return "unmatched"
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}
