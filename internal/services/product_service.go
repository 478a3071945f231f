// Package services orchestrates writes that touch more than one backend.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"stockroom/internal/amqp"
	"stockroom/internal/core"
	"stockroom/internal/storage"
)

// ProductService saves products locally and notifies the ledger worker.
type ProductService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

// NewProductService wires the service. amqpClient may be nil, in which case
// sync publishing is skipped.
func NewProductService(storage *storage.Repository, amqpClient *amqp.Client) *ProductService {
	return &ProductService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateProduct inserts the product and publishes a best-effort sync message.
// A publish failure is logged, never surfaced: the local write already
// succeeded and the queue redelivers on the next message anyway.
func (s *ProductService) CreateProduct(ctx context.Context, p core.Product) error {
	if err := s.storage.CreateProduct(ctx, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not configured, skipping sync message",
			"product_id", p.ProductID)
		return nil
	}

	if err := s.amqpClient.PublishProductSync(ctx, p.ProductID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product sync message",
			"product_id", p.ProductID, "error", err)
	}

	return nil
}
