package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stockroom/internal/storage"
)

func openTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func TestRunLoadsFixtures(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "products.json", `[
		{"productId":"p1","name":"Shoe A","price":20,"stockQuantity":500},
		{"productId":"p2","name":"Boot B","price":45.5,"rating":4.1,"stockQuantity":80}
	]`)
	writeFixture(t, dir, "sales.json", `[
		{"saleId":"s1","productId":"p1","timestamp":"2024-05-03T09:15:00Z","quantity":2,"unitPrice":20,"totalAmount":40}
	]`)

	if err := New(repo, dir).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	products, err := repo.SearchProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	got, err := repo.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price.Cents != 2000 || got.Rating != nil {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestSeededCatalogSearch(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "products.json", `[{"productId":"p1","name":"Shoe A","price":20,"stockQuantity":500}]`)

	if err := New(repo, dir).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	shoes, err := repo.SearchProducts(context.Background(), "shoe")
	if err != nil {
		t.Fatalf("search shoe: %v", err)
	}
	if len(shoes) != 1 || shoes[0].ProductID != "p1" || shoes[0].Price.Cents != 2000 {
		t.Fatalf("unexpected shoe results: %+v", shoes)
	}

	boots, err := repo.SearchProducts(context.Background(), "boot")
	if err != nil {
		t.Fatalf("search boot: %v", err)
	}
	if len(boots) != 0 {
		t.Fatalf("expected no boots, got %+v", boots)
	}
}

func TestRunReplacesExistingRows(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "products.json", `[{"productId":"old","name":"Old","price":1,"stockQuantity":1}]`)

	seeder := New(repo, dir)
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	writeFixture(t, dir, "products.json", `[{"productId":"new","name":"New","price":2,"stockQuantity":2}]`)
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	products, err := repo.SearchProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(products) != 1 || products[0].ProductID != "new" {
		t.Fatalf("expected only the reseeded row, got %+v", products)
	}
}

func TestRunSkipsMissingFixtures(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "products.json", `[{"productId":"p1","name":"Shoe A","price":20,"stockQuantity":500}]`)

	// Every other fixture file is absent; the run must still succeed.
	if err := New(repo, dir).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunFailsOnBrokenFixture(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "products.json", `{"not":"an array"}`)

	if err := New(repo, dir).Run(context.Background()); err == nil {
		t.Fatal("expected decode failure to stop the run")
	}
}

func TestRunFailsOnDanglingReference(t *testing.T) {
	repo := openTestRepo(t)
	dir := t.TempDir()
	writeFixture(t, dir, "sales.json", `[
		{"saleId":"s1","productId":"ghost","timestamp":"2024-05-03T09:15:00Z","quantity":1,"unitPrice":5,"totalAmount":5}
	]`)

	if err := New(repo, dir).Run(context.Background()); err == nil {
		t.Fatal("expected foreign key violation to stop the run")
	}
}
