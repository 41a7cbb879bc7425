// File: internal/transfer/esutil/indexer.go
package esutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wallet_backend/internal/platform/elasticsearch"
	"wallet_backend/internal/transfer"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type esIndexer struct {
	client *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

var _ transfer.Indexer = (*esIndexer)(nil)

// NewESIndexer creates an Elasticsearch-backed transfer indexer.
func NewESIndexer(client *elasticsearch.ESClientWrapper, logger *zap.Logger) transfer.Indexer {
	return &esIndexer{client: client, logger: logger.Named("transfer_indexer")}
}

// IndexTransfer writes one transfer document, replacing any previous version.
func (i *esIndexer) IndexTransfer(ctx context.Context, t *transfer.Transfer) error {
	docJSON, err := TransferToElasticsearchDoc(t)
	if err != nil {
		return fmt.Errorf("failed to convert transfer for indexing: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      elasticsearch.TransfersIndexName,
		DocumentID: t.ID.String(),
		Body:       strings.NewReader(docJSON),
	}
	res, err := req.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("failed to index transfer %s: %w", t.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index transfer %s: status %s", t.ID, res.Status())
	}
	return nil
}

// SearchTransferIDs queries description and receiver, filtered to the user.
func (i *esIndexer) SearchTransferIDs(ctx context.Context, userID uuid.UUID, query string, page, pageSize int) ([]uuid.UUID, int64, error) {
	esQuery := map[string]interface{}{
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"description", "receiver"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"user_id": userID.String()},
				},
			},
		},
	}

	body, err := json.Marshal(esQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{elasticsearch.TransfersIndexName},
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, i.client.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search request failed: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			i.logger.Warn("Skipping search hit with non-uuid id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}
