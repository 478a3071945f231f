// Package seed wipes and reloads every entity table from ordered JSON
// fixture files. It is a one-shot administrative operation: deletes run in
// reverse dependency order, inserts in forward order, and the first failure
// aborts the run. Nothing here is transactional; a failed run leaves the
// store mixed and the operator reruns the seeder.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"stockroom/internal/storage"
)

type Seeder struct {
	repo *storage.Repository
	dir  string
}

// New returns a seeder reading fixture files from dir.
func New(repo *storage.Repository, dir string) *Seeder {
	return &Seeder{repo: repo, dir: dir}
}

// entity binds a fixture file name to typed clear and load operations. The
// enumerated table replaces the source's string-indexed model lookup, so an
// unknown entity name cannot slip through silently.
type entity struct {
	name  string
	file  string
	clear func(context.Context) error
	load  func(context.Context, string) (int, error)
}

// entities lists every seeded entity in insert order. The order matters:
// referenced tables (products, expense summaries) come before their
// referencing tables.
func (s *Seeder) entities() []entity {
	r := s.repo
	return []entity{
		{"Product", "products.json", r.DeleteAllProducts,
			loader(r.CreateProduct)},
		{"ExpenseSummary", "expenseSummary.json", r.DeleteAllExpenseSummaries,
			loader(r.InsertExpenseSummary)},
		{"Sale", "sales.json", r.DeleteAllSales,
			loader(r.InsertSale)},
		{"SalesSummary", "salesSummary.json", r.DeleteAllSalesSummaries,
			loader(r.InsertSalesSummary)},
		{"Purchase", "purchases.json", r.DeleteAllPurchases,
			loader(r.InsertPurchase)},
		{"PurchaseSummary", "purchaseSummary.json", r.DeleteAllPurchaseSummaries,
			loader(r.InsertPurchaseSummary)},
		{"User", "users.json", r.DeleteAllUsers,
			loader(r.InsertUser)},
		{"Expense", "expenses.json", r.DeleteAllExpenses,
			loader(r.InsertExpense)},
		{"ExpenseByCategory", "expenseByCategory.json", r.DeleteAllExpensesByCategory,
			loader(r.InsertExpenseByCategory)},
	}
}

// Run clears every entity table and reloads it from the fixture directory.
// A fixture file missing on disk is logged and skipped; any other failure
// stops the run.
func (s *Seeder) Run(ctx context.Context) error {
	entities := s.entities()

	// Clear in reverse of the insert order so referencing rows go before
	// the rows they reference.
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		if err := e.clear(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", e.name, err)
		}
		slog.InfoContext(ctx, "Cleared entity table", "entity", e.name)
	}

	for _, e := range entities {
		path := filepath.Join(s.dir, e.file)
		n, err := e.load(ctx, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.WarnContext(ctx, "No fixture file for entity, skipping",
					"entity", e.name, "file", e.file)
				continue
			}
			return fmt.Errorf("seed %s from %s: %w", e.name, e.file, err)
		}
		slog.InfoContext(ctx, "Seeded entity", "entity", e.name, "file", e.file, "records", n)
	}

	return nil
}

// loader adapts a typed insert into a file loader: decode a JSON array of T
// and insert element by element, in file order.
func loader[T any](insert func(context.Context, T) error) func(context.Context, string) (int, error) {
	return func(ctx context.Context, path string) (int, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		var records []T
		if err := json.Unmarshal(raw, &records); err != nil {
			return 0, fmt.Errorf("decode fixture: %w", err)
		}
		for i, rec := range records {
			if err := insert(ctx, rec); err != nil {
				return i, fmt.Errorf("insert record %d: %w", i, err)
			}
		}
		return len(records), nil
	}
}
