package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const TransfersIndexName = "transfers"

// defineTransfersMapping returns the JSON string for the transfers index mapping.
func defineTransfersMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"user_id":     map[string]interface{}{"type": "keyword"},
				"account_id":  map[string]interface{}{"type": "keyword"},
				"direction":   map[string]interface{}{"type": "keyword"},
				"receiver":    map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"description": map[string]interface{}{"type": "text"},
				"status":      map[string]interface{}{"type": "keyword"},
				"asset_code":  map[string]interface{}{"type": "keyword"},
				"amount":      map[string]interface{}{"type": "long"},
				"expires_at":  map[string]interface{}{"type": "date"},
				"created_at":  map[string]interface{}{"type": "date"},
				"updated_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling transfers mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateTransfersIndexIfNotExists creates the transfers index with the defined
// mapping if it does not already exist.
func CreateTransfersIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{TransfersIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if transfers index exists", zap.Error(err))
		return fmt.Errorf("error checking if transfers index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Transfers index already exists", zap.String("index_name", TransfersIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if transfers index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", TransfersIndexName),
		)
		return fmt.Errorf("error checking if transfers index exists: status %s", res.Status())
	}

	mappingJSON, err := defineTransfersMapping()
	if err != nil {
		log.Error("Failed to define transfers mapping", zap.Error(err))
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: TransfersIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating transfers index", zap.Error(err), zap.String("index_name", TransfersIndexName))
		return fmt.Errorf("error creating transfers index %s: %w", TransfersIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse transfers index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create transfers index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", TransfersIndexName),
			)
		}
		return fmt.Errorf("failed to create transfers index %s: status %s", TransfersIndexName, createRes.Status())
	}

	log.Info("Transfers index created successfully", zap.String("index_name", TransfersIndexName))
	return nil
}
