// Package http exposes the sales ledger as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adnan1921/radnja-tracker/internal/access"
	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/catalog"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

type Server struct {
	http.Server
	ledger      *ledger.Service
	auth        *auth.Service
	catalog     *catalog.Catalog
	rateLimiter *rateLimiter
	metrics     securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures all routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledgerSvc *ledger.Service, authSvc *auth.Service, cat *catalog.Catalog) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      ledgerSvc,
		auth:        authSvc,
		catalog:     cat,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.withSecurityHeaders(s.requireAuth(s.handleLogout)))
	mux.HandleFunc("GET /api/me", s.withSecurityHeaders(s.requireAuth(s.handleMe)))

	mux.HandleFunc("GET /api/items", s.withSecurityHeaders(s.requireAuth(s.handleListItems)))

	mux.HandleFunc("POST /api/sales", s.withSecurityHeaders(s.requireAuth(s.handleCreateSale)))
	mux.HandleFunc("POST /api/sales/lump", s.withSecurityHeaders(s.requireAuth(s.handleCreateLumpTotal)))
	mux.HandleFunc("GET /api/sales", s.withSecurityHeaders(s.requireAuth(s.handleListSales)))
	mux.HandleFunc("DELETE /api/sales/{id}", s.withSecurityHeaders(s.requireAuth(s.handleDeleteSale)))

	mux.HandleFunc("GET /api/stats/daily", s.withSecurityHeaders(s.requireAuth(s.handleDailyStats)))
	mux.HandleFunc("GET /api/stats/monthly", s.withSecurityHeaders(s.requireAuth(s.handleMonthlyStats)))
	mux.HandleFunc("GET /api/reports/monthly.xlsx", s.withSecurityHeaders(s.requireAuth(s.handleMonthlyReport)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldURL, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, &s.metrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				applog.FieldRequestID, requestID,
				applog.FieldClientIP, clientIP,
				applog.FieldURL, r.URL.Path)
		}

		// Rate limit mutating requests only; reads are dashboard polling.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldURL, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(ctx, w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldURL, r.URL.Path,
			applog.FieldStatus, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// requireAuth resolves the bearer token and stores the identity in the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(r.Context(), w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := s.auth.Identify(token)
		if err != nil {
			writeError(r.Context(), w, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		ctx = context.WithValue(ctx, tokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"
	tokenKey     contextKey = "token"
)

func identityFrom(ctx context.Context) access.Identity {
	id, _ := ctx.Value(identityKey).(access.Identity)
	return id
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// SecuritySnapshot reports the counters tracked by the security middleware.
func (s *Server) SecuritySnapshot() (rateLimitHits, suspiciousRequests int64) {
	return atomic.LoadInt64(&s.metrics.rateLimitHits), atomic.LoadInt64(&s.metrics.suspiciousRequests)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
