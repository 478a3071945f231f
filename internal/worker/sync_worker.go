// Package worker mirrors newly created products to the back-office ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"stockroom/internal/amqp"
	"stockroom/internal/sheets"
	"stockroom/internal/storage"
)

// SyncWorker consumes product sync messages and appends the referenced
// product to the ledger.
type SyncWorker struct {
	storage *storage.Repository
	ledger  sheets.LedgerAppender
}

func NewSyncWorker(storage *storage.Repository, ledger sheets.LedgerAppender) *SyncWorker {
	return &SyncWorker{
		storage: storage,
		ledger:  ledger,
	}
}

// HandleSyncMessage processes a single product sync message. Returning an
// error makes the consumer nack-and-requeue, so transient ledger failures
// retry on redelivery.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ProductSyncMessage) error {
	slog.InfoContext(ctx, "Processing product sync message",
		"product_id", msg.ProductID)

	product, err := w.storage.GetProduct(ctx, msg.ProductID)
	if err != nil {
		return fmt.Errorf("get product from storage: %w", err)
	}

	ref, err := w.ledger.AppendProduct(ctx, *product)
	if err != nil {
		return fmt.Errorf("append product to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Product synced to ledger",
		"product_id", msg.ProductID,
		"sheets_ref", ref)

	return nil
}
