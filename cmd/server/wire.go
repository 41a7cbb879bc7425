// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"wallet_backend/internal/account"
	"wallet_backend/internal/app"
	"wallet_backend/internal/config"
	"wallet_backend/internal/firebase"
	"wallet_backend/internal/gatehub"
	"wallet_backend/internal/jobs"
	"wallet_backend/internal/platform/database"
	"wallet_backend/internal/platform/logger"
	"wallet_backend/internal/shared"
	"wallet_backend/internal/transfer"
	"wallet_backend/internal/user"
	"wallet_backend/internal/walletaddress"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideRedisClient,
		provideESClient,
		provideCleanup,

		// Firebase Service
		firebase.NewFirebaseService,

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// GateHub provider integration
		gatehub.NewHTTPClient,
		wire.Bind(new(gatehub.Client), new(*gatehub.HTTPClient)),
		gatehub.NewService,
		gatehub.NewHandler,

		// Accounts and wallet addresses
		provideBalanceCache,
		account.NewGORMRepository,
		account.NewService,
		account.NewHandler,
		walletaddress.NewGORMRepository,
		walletaddress.NewService,
		walletaddress.NewHandler,

		// Transfers
		provideTransferIndexer,
		transfer.NewGORMRepository,
		transfer.NewService,
		transfer.NewHandler,
		jobs.NewRequestExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
