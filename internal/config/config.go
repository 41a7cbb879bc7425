// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// GateHub Configuration
	GateHubEnv         string `mapstructure:"GATEHUB_ENV"`
	GateHubAPIURL      string `mapstructure:"GATEHUB_API_URL"`
	GateHubRampURL     string `mapstructure:"GATEHUB_RAMP_URL"`
	GateHubAccessKey   string `mapstructure:"GATEHUB_ACCESS_KEY"`
	GateHubSecretKey   string `mapstructure:"GATEHUB_SECRET_KEY"`
	GateHubGatewayUUID string `mapstructure:"GATEHUB_GATEWAY_UUID"`
	GateHubVaultUUID   string `mapstructure:"GATEHUB_VAULT_UUID"`

	// Wallet Address Configuration
	WalletAddressHost string `mapstructure:"WALLET_ADDRESS_HOST"`

	// Redis Configuration
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	BalanceTTL    time.Duration `mapstructure:"BALANCE_CACHE_TTL_SECONDS"`

	// Cron Jobs
	RequestExpiryJobSchedule string `mapstructure:"REQUEST_EXPIRY_JOB_SCHEDULE"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Elasticsearch Configuration
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "wallet_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("GATEHUB_ENV", "sandbox")
	v.SetDefault("GATEHUB_API_URL", "https://api.sandbox.gatehub.net")
	v.SetDefault("GATEHUB_RAMP_URL", "https://managed.sandbox.gatehub.net")
	v.SetDefault("GATEHUB_ACCESS_KEY", "")
	v.SetDefault("GATEHUB_SECRET_KEY", "")
	v.SetDefault("GATEHUB_GATEWAY_UUID", "")
	v.SetDefault("GATEHUB_VAULT_UUID", "")

	v.SetDefault("WALLET_ADDRESS_HOST", "ilp.wallet.example")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BALANCE_CACHE_TTL_SECONDS", 15)

	v.SetDefault("REQUEST_EXPIRY_JOB_SCHEDULE", "@every 1m")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("ELASTICSEARCH_URL", "http://localhost:9200")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.BalanceTTL = time.Duration(v.GetInt("BALANCE_CACHE_TTL_SECONDS")) * time.Second

	// GORM DSN built from the individual DB_* params. The DB_SOURCE env var, when
	// set, is consumed by external migration tooling straight from the
	// environment, not here.
	cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.GateHubAccessKey) == "" || strings.TrimSpace(cfg.GateHubSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: GATEHUB_ACCESS_KEY and GATEHUB_SECRET_KEY must be set")
	}
	if strings.TrimSpace(cfg.GateHubGatewayUUID) == "" {
		return nil, fmt.Errorf("FATAL: GATEHUB_GATEWAY_UUID is not set")
	}
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}

	return &cfg, nil
}
