package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"stockroom/internal/core"
)

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listProducts(w, r)
	case http.MethodPost:
		s.createProduct(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// listProducts returns products whose name contains the optional ?search=
// value, case-insensitively; without it, the full catalog.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("search")

	products, err := s.products.SearchProducts(ctx, search)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to search products", "search", search, "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// createProduct accepts a flat product object and echoes the created record
// with 201. Shape problems and store failures alike collapse to a generic
// 500; the store's constraints are the only validation beyond JSON decoding.
func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var p core.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		slog.WarnContext(ctx, "Failed to decode product body", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	if err := s.creator.CreateProduct(ctx, p); err != nil {
		slog.ErrorContext(ctx, "Failed to create product", "product_id", p.ProductID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	// The creation changed the popular-products slice; next dashboard read
	// must see it.
	s.dashboardCache.Delete("metrics")

	writeJSON(w, http.StatusCreated, p)
}
