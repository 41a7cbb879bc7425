// File: cmd/server/providers.go
package main

import (
	"log"

	"wallet_backend/internal/account"
	"wallet_backend/internal/config"
	"wallet_backend/internal/platform/database"
	platformElasticsearch "wallet_backend/internal/platform/elasticsearch"
	platformRedis "wallet_backend/internal/platform/redis"
	"wallet_backend/internal/transfer"
	"wallet_backend/internal/transfer/esutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	return platformRedis.NewClient(cfg, logger)
}

// provideESClient treats a missing Elasticsearch URL as "search disabled"
// rather than a startup failure.
func provideESClient(cfg *config.Config, logger *zap.Logger) (*platformElasticsearch.ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Warn("ELASTICSEARCH_URL not set; transfer search will be unavailable.")
		return nil, nil
	}
	return platformElasticsearch.NewClient(cfg, logger)
}

func provideBalanceCache(client *redis.Client, cfg *config.Config, logger *zap.Logger) account.BalanceCache {
	return account.NewRedisBalanceCache(client, cfg.BalanceTTL, logger)
}

func provideTransferIndexer(esClient *platformElasticsearch.ESClientWrapper, logger *zap.Logger) transfer.Indexer {
	if esClient == nil {
		return nil
	}
	return esutil.NewESIndexer(esClient, logger)
}

func provideCleanup(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := redisClient.Close(); err != nil {
			log.Printf("ERROR: Failed to close Redis client during cleanup: %v", err)
		}
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
