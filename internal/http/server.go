package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"terapis/internal/catalog"
	"terapis/internal/core"
	applog "terapis/internal/log"
	"terapis/internal/middleware/ratelimit"
	"terapis/internal/middleware/security"
	"terapis/internal/middleware/trace"
	"terapis/internal/services"
)

// Deps are the collaborators the API serves.
type Deps struct {
	Transactions *services.TransactionService
	Catalog      *catalog.Catalog
	Locale       core.Locale
	// Ready reports whether the record store is reachable. Nil means always
	// ready.
	Ready func(ctx context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
	// RequestsPerMinute bounds mutating requests per client. Zero uses the
	// limiter default.
	RequestsPerMinute int
}

type Server struct {
	http.Server
	tx       *services.TransactionService
	catalog  *catalog.Catalog
	locale   core.Locale
	ready    func(ctx context.Context) error
	now      func() time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	logs     *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}

	logger := applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentHTTP})
	detector := security.NewDetector()
	s := &Server{
		tx:       d.Transactions,
		catalog:  d.Catalog,
		locale:   d.Locale,
		ready:    d.Ready,
		now:      d.Now,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: d.RequestsPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(detector.ExtractClientIP),
		logs:     applog.NewStructuredLogger(logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleBeginEdit)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/catalog", s.handleCatalogSearch)
	mux.HandleFunc("GET /api/catalog/{name}", s.handleCatalogOptions)
	mux.HandleFunc("POST /api/catalog/prefill", s.handleCatalogPrefill)

	mux.HandleFunc("GET /api/export.pdf", s.handleExport(pdfRenderer))
	mux.HandleFunc("GET /api/export.xlsx", s.handleExport(xlsxRenderer))
	mux.HandleFunc("POST /api/import/legacy", s.handleImportLegacy)

	var h http.Handler = mux
	h = s.limitMutations(h)
	h = s.flagSuspicious(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(h)
	h = applog.Middleware(logger)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// limitMutations rate limits POST, PUT and DELETE per client IP.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		slog.WarnContext(r.Context(), "Rate limit exceeded",
			"client_ip", s.detector.ExtractClientIP(r),
			"method", r.Method,
			"path", r.URL.Path)
		TooManyRequestsError().Write(w)
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// flagSuspicious logs requests matching known probing patterns. They are
// still served.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				"client_ip", s.detector.ExtractClientIP(r),
				"path", r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
