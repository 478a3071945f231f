// Package sheets defines the outbound port to the back-office ledger.
package sheets

import (
	"context"

	"stockroom/internal/core"
)

// LedgerAppender mirrors a product row into an external ledger.
type LedgerAppender interface {
	AppendProduct(ctx context.Context, p core.Product) (rowRef string, err error)
}
