// Package http exposes the inventory dashboard API: product catalog reads
// and writes, the composite dashboard metrics read, and the expense chart
// feed. All responses are JSON; every failure collapses to a 500 with a
// generic message.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"stockroom/internal/core"
	"stockroom/internal/middleware/trace"
)

// Ports the handlers read and write through.
type (
	// ProductReader serves catalog queries.
	ProductReader interface {
		SearchProducts(ctx context.Context, search string) ([]core.Product, error)
	}

	// ProductWriter persists new catalog entries.
	ProductWriter interface {
		CreateProduct(ctx context.Context, p core.Product) error
	}

	// MetricsReader serves the five independent dashboard queries.
	MetricsReader interface {
		TopProductsByStock(ctx context.Context, limit int) ([]core.Product, error)
		RecentSalesSummaries(ctx context.Context, limit int) ([]core.SalesSummary, error)
		RecentPurchaseSummaries(ctx context.Context, limit int) ([]core.PurchaseSummary, error)
		RecentExpenseSummaries(ctx context.Context, limit int) ([]core.ExpenseSummary, error)
		RecentExpensesByCategory(ctx context.Context, limit int) ([]core.ExpenseByCategory, error)
	}

	// ExpenseReader serves the raw per-category feed behind the pie chart.
	ExpenseReader interface {
		ListExpensesByCategory(ctx context.Context) ([]core.ExpenseByCategory, error)
	}
)

type Server struct {
	http.Server
	products ProductReader
	creator  ProductWriter
	metrics  MetricsReader
	expenses ExpenseReader

	traceMiddleware *trace.Middleware
	rateLimiter     *rateLimiter

	// dashboardCache keeps the composite read off the database for a few
	// seconds between landing-page refreshes.
	dashboardCache *lruCache[dashboardResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, products ProductReader, creator ProductWriter, metrics MetricsReader, expenses ExpenseReader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		products:         products,
		creator:          creator,
		metrics:          metrics,
		expenses:         expenses,
		traceMiddleware:  trace.NewMiddleware(),
		rateLimiter:      newRateLimiter(),
		dashboardCache:   newLRUCache[dashboardResponse](16, 15*time.Second),
		stopCacheCleanup: make(chan struct{}),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.traceMiddleware.Middleware(mux),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/dashboard", s.withRateLimit(s.handleDashboard))
	mux.HandleFunc("/products", s.withRateLimit(s.handleProducts))
	mux.HandleFunc("/expenses", s.withRateLimit(s.handleExpenses))
	mux.HandleFunc("/expenses/summary", s.withRateLimit(s.handleExpenseSummary))

	return s
}

func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dashboardCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// Simple in-memory rate limiter, 60 requests per client IP per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
