// Package storage is the SQLite persistence layer. Monetary columns hold
// integer cents, dates are stored as RFC3339 UTC text so lexicographic
// ordering matches chronological ordering.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stockroom/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations and returns a
// ready repository.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func storeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func scanTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

// CreateProduct inserts a catalog entry. The primary key rejects duplicate
// product IDs.
func (r *Repository) CreateProduct(ctx context.Context, p core.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (product_id, name, price_cents, rating, stock_quantity)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ProductID, p.Name, p.Price.Cents, nullFloat(p.Rating), p.StockQuantity)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	slog.InfoContext(ctx, "Product saved",
		"product_id", p.ProductID,
		"name", p.Name,
		"price_cents", p.Price.Cents,
		"stock_quantity", p.StockQuantity)

	return nil
}

// GetProduct returns a single product by ID.
func (r *Repository) GetProduct(ctx context.Context, productID string) (*core.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT product_id, name, price_cents, rating, stock_quantity
		 FROM products WHERE product_id = ?`, productID)

	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	return &p, nil
}

// SearchProducts returns products whose name contains the search string,
// case-insensitively. An empty search returns the full catalog.
func (r *Repository) SearchProducts(ctx context.Context, search string) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, price_cents, rating, stock_quantity
		 FROM products
		 WHERE ? = '' OR instr(lower(name), lower(?)) > 0`,
		search, search)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// TopProductsByStock returns up to limit products ordered by stock quantity
// descending.
func (r *Repository) TopProductsByStock(ctx context.Context, limit int) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, price_cents, rating, stock_quantity
		 FROM products ORDER BY stock_quantity DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products by stock: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (core.Product, error) {
	var (
		p      core.Product
		rating sql.NullFloat64
	)
	if err := s.Scan(&p.ProductID, &p.Name, &p.Price.Cents, &rating, &p.StockQuantity); err != nil {
		return core.Product{}, err
	}
	p.Rating = floatPtr(rating)
	return p, nil
}

func collectProducts(rows *sql.Rows) ([]core.Product, error) {
	products := []core.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// RecentSalesSummaries returns up to limit summaries, newest first.
func (r *Repository) RecentSalesSummaries(ctx context.Context, limit int) ([]core.SalesSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sales_summary_id, total_value_cents, change_percentage, date
		 FROM sales_summary ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sales summaries: %w", err)
	}
	defer rows.Close()

	out := []core.SalesSummary{}
	for rows.Next() {
		var (
			s      core.SalesSummary
			change sql.NullFloat64
			date   string
		)
		if err := rows.Scan(&s.SalesSummaryID, &s.TotalValue.Cents, &change, &date); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		s.ChangePercentage = floatPtr(change)
		s.Date = scanTime(date)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentPurchaseSummaries returns up to limit summaries, newest first.
func (r *Repository) RecentPurchaseSummaries(ctx context.Context, limit int) ([]core.PurchaseSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purchase_summary_id, total_purchased_cents, change_percentage, date
		 FROM purchase_summary ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent purchase summaries: %w", err)
	}
	defer rows.Close()

	out := []core.PurchaseSummary{}
	for rows.Next() {
		var (
			s      core.PurchaseSummary
			change sql.NullFloat64
			date   string
		)
		if err := rows.Scan(&s.PurchaseSummaryID, &s.TotalPurchased.Cents, &change, &date); err != nil {
			return nil, fmt.Errorf("scan purchase summary: %w", err)
		}
		s.ChangePercentage = floatPtr(change)
		s.Date = scanTime(date)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentExpenseSummaries returns up to limit summaries, newest first.
func (r *Repository) RecentExpenseSummaries(ctx context.Context, limit int) ([]core.ExpenseSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT expense_summary_id, total_expenses_cents, date
		 FROM expense_summary ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent expense summaries: %w", err)
	}
	defer rows.Close()

	out := []core.ExpenseSummary{}
	for rows.Next() {
		var (
			s    core.ExpenseSummary
			date string
		)
		if err := rows.Scan(&s.ExpenseSummaryID, &s.TotalExpenses.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan expense summary: %w", err)
		}
		s.Date = scanTime(date)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentExpensesByCategory returns up to limit per-category rollups, newest
// first.
func (r *Repository) RecentExpensesByCategory(ctx context.Context, limit int) ([]core.ExpenseByCategory, error) {
	return r.expensesByCategory(ctx, limit)
}

// ListExpensesByCategory returns the full per-category feed for the chart.
func (r *Repository) ListExpensesByCategory(ctx context.Context) ([]core.ExpenseByCategory, error) {
	return r.expensesByCategory(ctx, -1)
}

func (r *Repository) expensesByCategory(ctx context.Context, limit int) ([]core.ExpenseByCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT expense_by_category_id, expense_summary_id, category, amount_cents, date
		 FROM expense_by_category ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	defer rows.Close()

	out := []core.ExpenseByCategory{}
	for rows.Next() {
		var (
			e    core.ExpenseByCategory
			date string
		)
		if err := rows.Scan(&e.ExpenseByCategoryID, &e.ExpenseSummaryID, &e.Category, &e.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan expense by category: %w", err)
		}
		e.Date = scanTime(date)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Seeding primitives. One statement per row, no surrounding transaction: the
// seeder's failure policy is abort-and-surface, not rollback.

func (r *Repository) InsertUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, name, email) VALUES (?, ?, ?)`,
		u.UserID, u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) InsertSale(ctx context.Context, s core.Sale) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (sale_id, product_id, timestamp, quantity, unit_price_cents, total_amount_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.SaleID, s.ProductID, storeTime(s.Timestamp), s.Quantity, s.UnitPrice.Cents, s.TotalAmount.Cents)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *Repository) InsertPurchase(ctx context.Context, p core.Purchase) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (purchase_id, product_id, timestamp, quantity, unit_cost_cents, total_cost_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.PurchaseID, p.ProductID, storeTime(p.Timestamp), p.Quantity, p.UnitCost.Cents, p.TotalCost.Cents)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *Repository) InsertExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (expense_id, category, amount_cents, timestamp)
		 VALUES (?, ?, ?, ?)`,
		e.ExpenseID, e.Category, e.Amount.Cents, storeTime(e.Timestamp))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *Repository) InsertSalesSummary(ctx context.Context, s core.SalesSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sales_summary (sales_summary_id, total_value_cents, change_percentage, date)
		 VALUES (?, ?, ?, ?)`,
		s.SalesSummaryID, s.TotalValue.Cents, nullFloat(s.ChangePercentage), storeTime(s.Date))
	if err != nil {
		return fmt.Errorf("insert sales summary: %w", err)
	}
	return nil
}

func (r *Repository) InsertPurchaseSummary(ctx context.Context, p core.PurchaseSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchase_summary (purchase_summary_id, total_purchased_cents, change_percentage, date)
		 VALUES (?, ?, ?, ?)`,
		p.PurchaseSummaryID, p.TotalPurchased.Cents, nullFloat(p.ChangePercentage), storeTime(p.Date))
	if err != nil {
		return fmt.Errorf("insert purchase summary: %w", err)
	}
	return nil
}

func (r *Repository) InsertExpenseSummary(ctx context.Context, e core.ExpenseSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_summary (expense_summary_id, total_expenses_cents, date)
		 VALUES (?, ?, ?)`,
		e.ExpenseSummaryID, e.TotalExpenses.Cents, storeTime(e.Date))
	if err != nil {
		return fmt.Errorf("insert expense summary: %w", err)
	}
	return nil
}

func (r *Repository) InsertExpenseByCategory(ctx context.Context, e core.ExpenseByCategory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_by_category (expense_by_category_id, expense_summary_id, category, amount_cents, date)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ExpenseByCategoryID, e.ExpenseSummaryID, e.Category, e.Amount.Cents, storeTime(e.Date))
	if err != nil {
		return fmt.Errorf("insert expense by category: %w", err)
	}
	return nil
}

func (r *Repository) deleteAll(ctx context.Context, table string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

func (r *Repository) DeleteAllProducts(ctx context.Context) error {
	return r.deleteAll(ctx, "products")
}

func (r *Repository) DeleteAllUsers(ctx context.Context) error {
	return r.deleteAll(ctx, "users")
}

func (r *Repository) DeleteAllSales(ctx context.Context) error {
	return r.deleteAll(ctx, "sales")
}

func (r *Repository) DeleteAllPurchases(ctx context.Context) error {
	return r.deleteAll(ctx, "purchases")
}

func (r *Repository) DeleteAllExpenses(ctx context.Context) error {
	return r.deleteAll(ctx, "expenses")
}

func (r *Repository) DeleteAllSalesSummaries(ctx context.Context) error {
	return r.deleteAll(ctx, "sales_summary")
}

func (r *Repository) DeleteAllPurchaseSummaries(ctx context.Context) error {
	return r.deleteAll(ctx, "purchase_summary")
}

func (r *Repository) DeleteAllExpenseSummaries(ctx context.Context) error {
	return r.deleteAll(ctx, "expense_summary")
}

func (r *Repository) DeleteAllExpensesByCategory(ctx context.Context) error {
	return r.deleteAll(ctx, "expense_by_category")
}
