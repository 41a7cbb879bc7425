// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wallet_backend/internal/config"
	"wallet_backend/internal/platform/database"
	platformElasticsearch "wallet_backend/internal/platform/elasticsearch"
	"wallet_backend/internal/platform/logger"
	"wallet_backend/internal/transfer"
	"wallet_backend/internal/transfer/esutil"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncTransfersCmd := flag.NewFlagSet("sync-transfers", flag.ExitOnError)
	batchSize := syncTransfersCmd.Int("batch-size", 100, "Batch size for syncing transfers")
	esRefresh := syncTransfersCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-transfers" {
		syncTransfersCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		defer database.CloseGORMDB(db)

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}

		if err := platformElasticsearch.CreateTransfersIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		transferRepo := transfer.NewGORMRepository(db)

		if err := runTransferSync(transferRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Transfer synchronization failed", zap.Error(err))
		}
		appLogger.Info("Transfer synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateTransfersIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch transfers index.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runTransferSync re-indexes all transfers into Elasticsearch in batches
// using the Bulk API.
func runTransferSync(
	transferRepo transfer.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting transfer synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for {
		transfers, err := transferRepo.FindAllForSync(context.Background(), offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(transfers) == 0 {
			logger.Info("No more transfers to sync.")
			break
		}

		var bulkRequestBody strings.Builder
		docCount := 0
		for i := range transfers {
			t := &transfers[i]
			docJSON, errDoc := esutil.TransferToElasticsearchDoc(t)
			if errDoc != nil {
				logger.Error("Failed to convert transfer to Elasticsearch document",
					zap.String("transferID", t.ID.String()),
					zap.Error(errDoc),
				)
				totalFailed++
				continue
			}

			action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`, platformElasticsearch.TransfersIndexName, t.ID.String(), "\n")
			bulkRequestBody.WriteString(action)
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
			docCount++
		}

		if docCount > 0 {
			req := esapi.BulkRequest{
				Body:    strings.NewReader(bulkRequestBody.String()),
				Refresh: esRefresh,
			}
			res, errBulk := req.Do(context.Background(), esClient.Client)
			if errBulk != nil {
				return fmt.Errorf("bulk request for batch %d failed: %w", batchNumber, errBulk)
			}

			var bulkResponse struct {
				Errors bool `json:"errors"`
				Items  []struct {
					Index struct {
						ID     string                 `json:"_id"`
						Status int                    `json:"status"`
						Error  map[string]interface{} `json:"error,omitempty"`
					} `json:"index"`
				} `json:"items"`
			}
			if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
				res.Body.Close()
				return fmt.Errorf("failed to parse bulk response for batch %d: %w", batchNumber, err)
			}
			res.Body.Close()

			for _, item := range bulkResponse.Items {
				if item.Index.Error != nil {
					logger.Error("Failed to index transfer in bulk batch",
						zap.String("transferID", item.Index.ID),
						zap.Any("error", item.Index.Error),
						zap.Int("status", item.Index.Status),
					)
					totalFailed++
				} else {
					totalSynced++
				}
			}
		}

		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("synced", totalSynced),
			zap.Int("failed", totalFailed),
		)

		offset += len(transfers)
		batchNumber++
	}

	logger.Info("Transfer synchronization finished.",
		zap.Int("totalSynced", totalSynced),
		zap.Int("totalFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d transfers failed to sync", totalFailed)
	}
	return nil
}
