package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"finpulse/internal/cache"
	"finpulse/internal/core"
	applog "finpulse/internal/log"
	"finpulse/internal/services"
)

const derivedCacheTTL = 5 * time.Minute

// Pinger reports storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	txns *services.TransactionService
	dash *services.DashboardService
	db   Pinger

	rateLimiter *rateLimiter
	metrics     *counters
	structured  *applog.StructuredLogger

	// Derived views are cached between writes. Any write purges all
	// three so readers never see stale metrics.
	dashboardCache *cache.LRUCache[services.DashboardView]
	insightsCache  *cache.LRUCache[[]core.Insight]
	forecastCache  *cache.LRUCache[[]core.ForecastPoint]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, txns *services.TransactionService, dash *services.DashboardService, db Pinger) *Server {
	mux := http.NewServeMux()
	httpLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(httpLogger)(mux),
		},
		txns:           txns,
		dash:           dash,
		db:             db,
		rateLimiter:    newRateLimiter(),
		metrics:        &counters{},
		structured:     applog.NewStructuredLogger(httpLogger),
		dashboardCache: cache.NewLRUCache[services.DashboardView](4, derivedCacheTTL),
		insightsCache:  cache.NewLRUCache[[]core.Insight](4, derivedCacheTTL),
		forecastCache:  cache.NewLRUCache[[]core.ForecastPoint](4, derivedCacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.insightsCache)
	s.cacheManager.Register(s.forecastCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.metrics.handleMetrics)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/transactions/import", s.withSecurityHeaders(s.handleImportTransactions))
	mux.HandleFunc("/insights", s.withSecurityHeaders(s.handleInsights))
	mux.HandleFunc("/forecast", s.withSecurityHeaders(s.handleForecast))
	mux.HandleFunc("/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/demo/seed", s.withSecurityHeaders(s.handleSeedDemo))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateDerived purges the derived-view caches after any write.
func (s *Server) invalidateDerived() {
	s.dashboardCache.Purge()
	s.insightsCache.Purge()
	s.forecastCache.Purge()
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.requestsTotal.Add(1)

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		s.structured.LogHTTPStart(ctx, r, clientIP)

		// Apply rate limiting to write requests
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.metrics.rateLimited.Add(1)
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		if rw.statusCode >= 400 {
			s.metrics.requestErrors.Add(1)
		}

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("storage unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
