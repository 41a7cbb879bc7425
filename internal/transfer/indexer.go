// File: internal/transfer/indexer.go
package transfer

import (
	"context"

	"github.com/google/uuid"
)

// Indexer maintains the transfers search index. The Elasticsearch
// implementation lives in the esutil subpackage; the service only sees this
// interface so the search backend stays swappable in tests.
type Indexer interface {
	IndexTransfer(ctx context.Context, t *Transfer) error
	// SearchTransferIDs runs a free-text query scoped to one user and returns
	// matching transfer ids ranked by relevance, plus the total hit count.
	SearchTransferIDs(ctx context.Context, userID uuid.UUID, query string, page, pageSize int) ([]uuid.UUID, int64, error)
}
