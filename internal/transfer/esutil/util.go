// File: internal/transfer/esutil/util.go
package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"wallet_backend/internal/transfer"
)

// TransferToElasticsearchDoc converts a transfer.Transfer to its Elasticsearch
// document representation.
func TransferToElasticsearchDoc(t *transfer.Transfer) (string, error) {
	if t == nil {
		return "", errors.New("transfer cannot be nil")
	}

	doc := map[string]interface{}{
		"user_id":    t.UserID.String(),
		"account_id": t.AccountID.String(),
		"direction":  string(t.Direction),
		"receiver":   t.Receiver,
		"status":     string(t.Status),
		"asset_code": t.AssetCode,
		"amount":     t.Amount,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}

	if t.Description != nil {
		doc["description"] = *t.Description
	} else {
		doc["description"] = nil
	}
	if t.ExpiresAt != nil {
		doc["expires_at"] = *t.ExpiresAt
	} else {
		doc["expires_at"] = nil
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshaling transfer to JSON for Elasticsearch: %w", err)
	}
	return string(jsonData), nil
}
