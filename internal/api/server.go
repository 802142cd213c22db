package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"braidzworld/internal/auth"
	"braidzworld/internal/availability"
	"braidzworld/internal/bookings"
	"braidzworld/internal/clock"
	"braidzworld/internal/config"
	"braidzworld/internal/gallery"
	"braidzworld/internal/metrics"
	"braidzworld/internal/news"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the admin dashboard API.
type HTTPServer struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zerolog.Logger
	clock    clock.Clock
	limiters sync.Map // map[string]*rate.Limiter

	auth         *auth.Service
	bookings     *bookings.Service
	availability *availability.Service
	news         *news.Service
	gallery      *gallery.Service
}

type Services struct {
	Auth         *auth.Service
	Bookings     *bookings.Service
	Availability *availability.Service
	News         *news.Service
	Gallery      *gallery.Service
	Clock        clock.Clock
}

func NewHTTPServer(cfg *config.Config, logger *zerolog.Logger, svc Services) *HTTPServer {
	clk := svc.Clock
	if clk == nil {
		clk = clock.New()
	}

	srv := &HTTPServer{
		cfg:          cfg,
		logger:       logger,
		clock:        clk,
		auth:         svc.Auth,
		bookings:     svc.Bookings,
		availability: svc.Availability,
		news:         svc.News,
		gallery:      svc.Gallery,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/auth/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/auth/me", srv.handleMe)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/search", srv.handleBookingSearch)
	mux.HandleFunc("/api/v1/bookings/stats", srv.handleBookingStats)
	mux.HandleFunc("/api/v1/bookings/export", srv.handleBookingExport)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingStatus)
	mux.HandleFunc("/api/v1/availability/calendar", srv.handleCalendar)
	mux.HandleFunc("/api/v1/availability/slots", srv.handleSlots)
	mux.HandleFunc("/api/v1/availability/blocked", srv.handleBlocked)
	mux.HandleFunc("/api/v1/availability/blocked/", srv.handleUnblock)
	mux.HandleFunc("/api/v1/availability/save", srv.handleSave)
	mux.HandleFunc("/api/v1/news", srv.handleNews)
	mux.HandleFunc("/api/v1/news/", srv.handleNewsItem)
	mux.HandleFunc("/api/v1/gallery", srv.handleGallery)
	mux.HandleFunc("/api/v1/gallery/", srv.handleGalleryItem)

	handler := srv.loggingMiddleware(srv.sessionMiddleware(srv.rateLimitMiddleware(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the fully wrapped handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// sessionMiddleware requires a valid bearer token on every route except login.
func (s *HTTPServer) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		user, err := s.auth.CurrentUser(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Server.RateLimit.RPS > 0 {
			lim := s.getLimiter(clientKey(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.Server.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

type userContextKey struct{}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

func clientKey(r *http.Request) string {
	if token := bearerToken(r); token != "" {
		return token
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
