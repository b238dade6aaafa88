package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slotjack/wheelhouse/internal/database"
	"github.com/slotjack/wheelhouse/internal/handler"
	"github.com/slotjack/wheelhouse/internal/ledger"
	"github.com/slotjack/wheelhouse/internal/logger"
	"github.com/slotjack/wheelhouse/internal/metrics"
	"github.com/slotjack/wheelhouse/internal/wheel"
)

// Config carries the server-level settings the router needs
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	ServiceName    string
	Version        string
	Environment    string
}

type Server struct {
	httpServer    *http.Server
	dbPool        database.Pool
	wheelService  wheel.Service
	ledgerService ledger.Service
}

// NewServer creates a new Server instance
func NewServer(cfg Config, dbPool database.Pool, wheelService wheel.Service, ledgerService ledger.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	healthHandler := handler.NewHealthHandler(dbPool)
	r.Get("/healthz", healthHandler.HandleHealthz)
	r.Get("/readyz", healthHandler.HandleReadyz)

	// Version endpoint (public, for deployment verification)
	versionHandler := handler.NewVersionHandler(cfg.ServiceName, cfg.Version, cfg.Environment)
	r.Get("/version", versionHandler.HandleVersion)

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		wheelHandler := handler.NewWheelHandler(wheelService, ledgerService)

		r.Route("/wheel", func(r chi.Router) {
			r.Post("/spin", wheelHandler.HandleSpin)
			r.Get("/eligibility", wheelHandler.HandleEligibility)
			r.Get("/history", wheelHandler.HandleHistory)
			r.Get("/segments", wheelHandler.HandleSegments)
			r.Post("/credits", wheelHandler.HandleGrantCredits)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/balance", wheelHandler.HandleBalance)
			r.Get("/entries", wheelHandler.HandleLedgerEntries)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/wheel/reset-cooldown", wheelHandler.HandleResetCooldown)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:        dbPool,
		wheelService:  wheelService,
		ledgerService: ledgerService,
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
