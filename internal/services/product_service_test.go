package services

import (
	"context"
	"path/filepath"
	"testing"

	"stockroom/internal/core"
	"stockroom/internal/storage"
)

func openTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateProductWithoutAMQP(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewProductService(repo, nil)

	err := svc.CreateProduct(context.Background(), core.Product{
		ProductID:     "p1",
		Name:          "Shoe A",
		Price:         core.Money{Cents: 2000},
		StockQuantity: 500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Shoe A" {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestCreateProductSurfacesStoreError(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewProductService(repo, nil)
	ctx := context.Background()

	p := core.Product{ProductID: "p1", Name: "Shoe A", Price: core.Money{Cents: 2000}, StockQuantity: 500}
	if err := svc.CreateProduct(ctx, p); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := svc.CreateProduct(ctx, p); err == nil {
		t.Fatal("expected duplicate insert to surface")
	}
}
