package http

import (
	"log/slog"
	"net/http"

	"stockroom/internal/core"
)

// handleExpenses returns the full per-category feed the expense chart is
// built from, amounts stringified like the dashboard's.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()
	rows, err := s.expenses.ListExpensesByCategory(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses by category", "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving expenses by category")
		return
	}

	writeJSON(w, http.StatusOK, toExpenseByCategoryJSON(rows))
}

// handleExpenseSummary evaluates the chart aggregation server-side: group the
// feed into per-category buckets under optional category and inclusive date
// filters.
//
//	GET /expenses/summary?category=Office&start=2024-01-01&end=2024-03-31
func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()
	rows, err := s.expenses.ListExpensesByCategory(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses by category", "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving expenses by category")
		return
	}

	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = core.CategoryAll
	}
	buckets := core.AggregateExpenses(rows, category, q.Get("start"), q.Get("end"))

	writeJSON(w, http.StatusOK, buckets)
}
