package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"stockroom/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError emits the API's single error shape: {"message": "..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// expenseByCategoryJSON is the wire shape of a per-category rollup: amount
// travels as a decimal string so no precision is lost in transit.
type expenseByCategoryJSON struct {
	ExpenseByCategoryID string    `json:"expenseByCategoryId"`
	ExpenseSummaryID    string    `json:"expenseSummaryId"`
	Category            string    `json:"category"`
	Amount              string    `json:"amount"`
	Date                time.Time `json:"date"`
}

func toExpenseByCategoryJSON(rows []core.ExpenseByCategory) []expenseByCategoryJSON {
	out := make([]expenseByCategoryJSON, len(rows))
	for i, row := range rows {
		out[i] = expenseByCategoryJSON{
			ExpenseByCategoryID: row.ExpenseByCategoryID,
			ExpenseSummaryID:    row.ExpenseSummaryID,
			Category:            row.Category,
			Amount:              row.Amount.String(),
			Date:                row.Date,
		}
	}
	return out
}
