package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/services"
)

// Server exposes the expense service as a JSON API. The service is not
// safe for concurrent use, so every handler holds mu while touching it.
type Server struct {
	http.Server
	mu       sync.Mutex
	svc      *services.ExpenseService
	logger   *log.Logger
	currency string
	limiter  *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.ExpenseService, logger *log.Logger, currency string) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	if currency == "" {
		currency = "£"
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:      svc,
		logger:   logger.WithComponent(log.ComponentHTTP),
		currency: currency,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	// Writes are throttled per client.
	limitWrites := s.limiter.Middleware(extractClientIP, func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.Handle("POST /expenses", limitWrites(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("DELETE /expenses", limitWrites(http.HandlerFunc(s.handleClearExpenses)))
	mux.HandleFunc("GET /summary", s.handleSummary)

	s.Handler = log.Middleware(s.logger)(withSecurityHeaders(mux))
	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
