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

	"github.com/donateraid/storefront-api/internal/database"
	"github.com/donateraid/storefront-api/internal/handler"
	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/metrics"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer assembles the router and middleware stack around the handler.
func NewServer(port int, trustedProxies []string, dbPool database.Pool, h *handler.Handler) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	limiter := NewRateLimiter(1000, 5*time.Minute)

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(trustedProxies, limiter))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes. Every route runs behind the session middleware, which
	// mints the session cookie and resolves the stored session.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		// Catalog routes
		r.Get("/games", h.HandleListGames)
		r.Get("/games/{id}", h.HandleGetGame)

		// Cart routes
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.HandleGetCart)
			r.Delete("/", h.HandleClearCart)
			r.Post("/items", h.HandleAddItems)
			r.Patch("/items/{index}", h.HandleUpdateQuantity)
			r.Delete("/items/{index}", h.HandleRemoveItem)
			r.Post("/checkout", h.HandleCheckout)
		})

		// Order routes
		r.Route("/orders/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetOrder)
			r.Get("/payment-info", h.HandleGetPaymentInfo)
		})

		// Support chat routes
		r.Route("/support/messages", func(r chi.Router) {
			r.Get("/", h.HandleSupportHistory)
			r.Post("/", h.HandleSendSupportMessage)
		})

		r.Get("/notifications/count", h.HandleNotificationCount)

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/request-link", h.HandleRequestLink)
			r.Get("/verify", h.HandleVerify)
			r.Post("/logout", h.HandleLogout)
		})
		r.Get("/users/me", h.HandleMe)

		// Admin routes
		r.Route("/admin/games/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetAdminGame)
			r.Put("/", h.HandleSaveGame)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
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

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging. Cookies carry the session id and the
		// Authorization header a bearer token; neither belongs in logs.
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) || strings.EqualFold(k, HeaderCookie) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
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
