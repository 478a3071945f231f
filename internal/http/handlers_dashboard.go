package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"stockroom/internal/core"
)

const (
	popularProductsLimit = 15
	summaryLimit         = 5
)

// dashboardResponse is the single composite read populating the landing
// page's cards.
type dashboardResponse struct {
	PopularProducts          []core.Product          `json:"popularProducts"`
	SalesSummary             []core.SalesSummary     `json:"salesSummary"`
	PurchaseSummary          []core.PurchaseSummary  `json:"purchaseSummary"`
	ExpenseSummary           []core.ExpenseSummary   `json:"expenseSummary"`
	ExpenseByCategorySummary []expenseByCategoryJSON `json:"expenseByCategorySummary"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if cached, ok := s.dashboardCache.Get("metrics"); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx := r.Context()
	var resp dashboardResponse

	// The five reads are independent; fan out and fail as one. Partial
	// results never leave this handler.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.metrics.TopProductsByStock(gctx, popularProductsLimit)
		if err != nil {
			return err
		}
		resp.PopularProducts = products
		return nil
	})
	g.Go(func() error {
		sales, err := s.metrics.RecentSalesSummaries(gctx, summaryLimit)
		if err != nil {
			return err
		}
		resp.SalesSummary = sales
		return nil
	})
	g.Go(func() error {
		purchases, err := s.metrics.RecentPurchaseSummaries(gctx, summaryLimit)
		if err != nil {
			return err
		}
		resp.PurchaseSummary = purchases
		return nil
	})
	g.Go(func() error {
		expenses, err := s.metrics.RecentExpenseSummaries(gctx, summaryLimit)
		if err != nil {
			return err
		}
		resp.ExpenseSummary = expenses
		return nil
	})
	g.Go(func() error {
		byCategory, err := s.metrics.RecentExpensesByCategory(gctx, summaryLimit)
		if err != nil {
			return err
		}
		resp.ExpenseByCategorySummary = toExpenseByCategoryJSON(byCategory)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Failed to assemble dashboard metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving dashboard metrics")
		return
	}

	s.dashboardCache.Set("metrics", resp)
	writeJSON(w, http.StatusOK, resp)
}
