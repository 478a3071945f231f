package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockroom/internal/core"
)

var errStore = errors.New("store unavailable")

type fakeStore struct {
	products  []core.Product
	created   []core.Product
	byCat     []core.ExpenseByCategory
	sales     []core.SalesSummary
	purchases []core.PurchaseSummary
	expSum    []core.ExpenseSummary

	lastSearch string
	failReads  bool
	failWrites bool
}

func (f *fakeStore) SearchProducts(ctx context.Context, search string) ([]core.Product, error) {
	if f.failReads {
		return nil, errStore
	}
	f.lastSearch = search
	return f.products, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, p core.Product) error {
	if f.failWrites {
		return errStore
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeStore) TopProductsByStock(ctx context.Context, limit int) ([]core.Product, error) {
	if f.failReads {
		return nil, errStore
	}
	if len(f.products) > limit {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakeStore) RecentSalesSummaries(ctx context.Context, limit int) ([]core.SalesSummary, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.sales, nil
}

func (f *fakeStore) RecentPurchaseSummaries(ctx context.Context, limit int) ([]core.PurchaseSummary, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.purchases, nil
}

func (f *fakeStore) RecentExpenseSummaries(ctx context.Context, limit int) ([]core.ExpenseSummary, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.expSum, nil
}

func (f *fakeStore) RecentExpensesByCategory(ctx context.Context, limit int) ([]core.ExpenseByCategory, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.byCat, nil
}

func (f *fakeStore) ListExpensesByCategory(ctx context.Context) ([]core.ExpenseByCategory, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.byCat, nil
}

func newTestServer(t *testing.T, store *fakeStore) *Server {
	t.Helper()
	srv := NewServer(":0", store, store, store, store)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func doRequest(srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyFailsWhenStoreDown(t *testing.T) {
	srv := newTestServer(t, &fakeStore{failReads: true})
	rr := doRequest(srv, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not_ready") {
		t.Fatalf("expected not_ready in body: %s", rr.Body.String())
	}
}

func TestListProductsPassesSearch(t *testing.T) {
	store := &fakeStore{products: []core.Product{
		{ProductID: "p1", Name: "Shoe A", Price: core.Money{Cents: 2000}, StockQuantity: 500},
	}}
	srv := newTestServer(t, store)

	rr := doRequest(srv, http.MethodGet, "/products?search=shoe", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if store.lastSearch != "shoe" {
		t.Fatalf("expected search passthrough, got %q", store.lastSearch)
	}

	var got []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Shoe A" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
	if got[0]["price"] != float64(20) {
		t.Fatalf("expected price 20, got %v", got[0]["price"])
	}
	if r, present := got[0]["rating"]; !present || r != nil {
		t.Fatalf("expected explicit null rating, got %v", got[0]["rating"])
	}
}

func TestListProductsStoreError(t *testing.T) {
	srv := newTestServer(t, &fakeStore{failReads: true})
	rr := doRequest(srv, http.MethodGet, "/products", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Error retrieving products") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestCreateProduct(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(t, store)

	rr := doRequest(srv, http.MethodPost, "/products",
		`{"productId":"p9","name":"Desk Mat","price":12.5,"stockQuantity":30}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if len(store.created) != 1 || store.created[0].Price.Cents != 1250 {
		t.Fatalf("unexpected created products: %+v", store.created)
	}
	if !strings.Contains(rr.Body.String(), `"productId":"p9"`) {
		t.Fatalf("expected echo of created product: %s", rr.Body.String())
	}
}

func TestCreateProductFailures(t *testing.T) {
	srv := newTestServer(t, &fakeStore{failWrites: true})

	// Malformed body and store failure share the same generic 500.
	for _, body := range []string{"{not json", `{"productId":"p1","name":"X","price":1,"stockQuantity":1}`} {
		rr := doRequest(srv, http.MethodPost, "/products", body)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("body %q: expected 500, got %d", body, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Error creating product") {
			t.Fatalf("unexpected body: %s", rr.Body.String())
		}
	}
}

func TestProductsMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	rr := doRequest(srv, http.MethodDelete, "/products", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func dashboardStore() *fakeStore {
	date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		sales:     []core.SalesSummary{{SalesSummaryID: "s1", TotalValue: core.Money{Cents: 1000_00}, Date: date}},
		purchases: []core.PurchaseSummary{},
		expSum:    []core.ExpenseSummary{{ExpenseSummaryID: "es1", TotalExpenses: core.Money{Cents: 300_00}, Date: date}},
		byCat: []core.ExpenseByCategory{
			{ExpenseByCategoryID: "e1", ExpenseSummaryID: "es1", Category: "Office", Amount: core.Money{Cents: 15_52}, Date: date},
		},
	}
	for i := 0; i < 20; i++ {
		store.products = append(store.products, core.Product{
			ProductID:     "p" + string(rune('a'+i)),
			Name:          "Product",
			Price:         core.Money{Cents: 100},
			StockQuantity: int64(1000 - i),
		})
	}
	return store
}

func TestDashboardComposition(t *testing.T) {
	srv := newTestServer(t, dashboardStore())

	rr := doRequest(srv, http.MethodGet, "/dashboard", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var got struct {
		PopularProducts []core.Product      `json:"popularProducts"`
		SalesSummary    []core.SalesSummary `json:"salesSummary"`
		PurchaseSummary []json.RawMessage   `json:"purchaseSummary"`
		ExpenseSummary  []json.RawMessage   `json:"expenseSummary"`
		ByCategory      []map[string]any    `json:"expenseByCategorySummary"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got.PopularProducts) != 15 {
		t.Fatalf("expected popular products capped at 15, got %d", len(got.PopularProducts))
	}
	if len(got.SalesSummary) != 1 || len(got.ExpenseSummary) != 1 {
		t.Fatalf("unexpected summary slices: %s", rr.Body.String())
	}
	if got.PurchaseSummary == nil {
		t.Fatalf("expected empty non-null purchaseSummary: %s", rr.Body.String())
	}
	if len(got.ByCategory) != 1 || got.ByCategory[0]["amount"] != "15.52" {
		t.Fatalf("expected stringified amount 15.52: %s", rr.Body.String())
	}
}

func TestDashboardCollapsesOnAnyFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStore{failReads: true})
	rr := doRequest(srv, http.MethodGet, "/dashboard", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Error retrieving dashboard metrics") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestDashboardCachedAndInvalidatedOnCreate(t *testing.T) {
	store := dashboardStore()
	srv := newTestServer(t, store)

	if rr := doRequest(srv, http.MethodGet, "/dashboard", ""); rr.Code != 200 {
		t.Fatalf("first read status=%d", rr.Code)
	}

	// Store breaks, but the cached payload still serves.
	store.failReads = true
	if rr := doRequest(srv, http.MethodGet, "/dashboard", ""); rr.Code != 200 {
		t.Fatalf("cached read status=%d", rr.Code)
	}

	store.failReads = false
	rr := doRequest(srv, http.MethodPost, "/products",
		`{"productId":"pz","name":"New","price":1,"stockQuantity":5000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}

	// Creation evicted the cache, so the next read hits the store again.
	store.failReads = true
	if rr := doRequest(srv, http.MethodGet, "/dashboard", ""); rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected cache invalidation to surface store error, got %d", rr.Code)
	}
}

func TestExpensesFeedStringifiesAmounts(t *testing.T) {
	store := dashboardStore()
	srv := newTestServer(t, store)

	rr := doRequest(srv, http.MethodGet, "/expenses", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var rows []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(rows) != 1 || rows[0]["amount"] != "15.52" {
		t.Fatalf("unexpected rows: %s", rr.Body.String())
	}
}

func TestExpenseSummaryFilters(t *testing.T) {
	date := func(d string) time.Time {
		ts, _ := time.Parse(time.RFC3339, d)
		return ts
	}
	store := &fakeStore{byCat: []core.ExpenseByCategory{
		{ExpenseByCategoryID: "e1", Category: "Office", Amount: core.Money{Cents: 100_00}, Date: date("2024-01-15T00:00:00Z")},
		{ExpenseByCategoryID: "e2", Category: "Salaries", Amount: core.Money{Cents: 250_00}, Date: date("2024-02-10T00:00:00Z")},
		{ExpenseByCategoryID: "e3", Category: "Office", Amount: core.Money{Cents: 50_00}, Date: date("2024-05-01T00:00:00Z")},
	}}
	srv := newTestServer(t, store)

	rr := doRequest(srv, http.MethodGet, "/expenses/summary", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var buckets []core.CategoryBucket
	if err := json.Unmarshal(rr.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Name != "Office" || buckets[0].Amount.Cents != 150_00 {
		t.Fatalf("unexpected first bucket: %+v", buckets[0])
	}

	rr = doRequest(srv, http.MethodGet, "/expenses/summary?category=Salaries", "")
	buckets = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Name != "Salaries" {
		t.Fatalf("unexpected filtered buckets: %+v", buckets)
	}

	rr = doRequest(srv, http.MethodGet, "/expenses/summary?start=2024-01-01&end=2024-02-28", "")
	buckets = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected both categories inside window, got %+v", buckets)
	}
	for _, b := range buckets {
		if b.Name == "Office" && b.Amount.Cents != 100_00 {
			t.Fatalf("expected window to drop the May expense, got %+v", b)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request 61 should be limited")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("other clients must not share the limit")
	}
}
