// File: internal/account/service.go
package account

import (
	"context"
	"fmt"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/gatehub"
	"wallet_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Asset scales per supported currency. GateHub reports amounts in minor
// units for all three.
const defaultAssetScale = 2

// Service defines the account business logic interface.
type Service interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error)
	GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*AccountResponse, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]AccountResponse, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error)
	// GetOwnedAccount loads an account and enforces ownership without
	// fetching balances. Other modules use it to authorize nested resources.
	GetOwnedAccount(ctx context.Context, userID, accountID uuid.UUID) (*Account, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	client   gatehub.Client
	cache    BalanceCache
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new account service.
func NewService(repo Repository, userRepo user.Repository, client gatehub.Client, cache BalanceCache, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		client:   client,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateAccount provisions a hosted wallet at GateHub and records the account
// locally. The user must already be provisioned with the provider.
func (s *service) CreateAccount(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !usr.HasGateHubUserID() {
		return nil, common.ErrForbidden.WithDetails("User must complete identity onboarding before creating accounts.")
	}

	wallet, err := s.client.CreateWallet(ctx, *usr.GateHubUserID, req.Name)
	if err != nil {
		return nil, err
	}

	acc := &Account{
		UserID:          userID,
		Name:            req.Name,
		AssetCode:       req.AssetCode,
		AssetScale:      defaultAssetScale,
		GateHubWalletID: wallet.Address,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to store account: %w", err)
	}

	s.logger.Info("Account created",
		zap.String("accountID", acc.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("assetCode", acc.AssetCode),
	)

	resp := ToAccountResponse(acc, nil)
	return &resp, nil
}

// GetAccount returns a single owned account with its current balance.
func (s *service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*AccountResponse, error) {
	acc, err := s.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.fetchBalance(ctx, usr, acc)
	if err != nil {
		return nil, err
	}

	resp := ToAccountResponse(acc, balance)
	return &resp, nil
}

// ListAccounts returns all accounts owned by the user with their balances.
func (s *service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]AccountResponse, error) {
	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		balance, err := s.fetchBalance(ctx, usr, &accounts[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, ToAccountResponse(&accounts[i], balance))
	}
	return responses, nil
}

// UpdateAccount renames an owned account. Only the display name is mutable;
// the asset and backing wallet never change after creation.
func (s *service) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	acc, err := s.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	acc.Name = req.Name
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	resp := ToAccountResponse(acc, nil)
	return &resp, nil
}

// GetOwnedAccount loads an account by id and verifies it belongs to userID.
// A foreign account is reported as NotFound rather than Forbidden so account
// ids cannot be enumerated.
func (s *service) GetOwnedAccount(ctx context.Context, userID, accountID uuid.UUID) (*Account, error) {
	acc, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, common.ErrNotFound.WithDetails("Account not found with this ID.")
	}
	return acc, nil
}

// fetchBalance returns the balance matching the account's asset, consulting
// the cache before the provider.
func (s *service) fetchBalance(ctx context.Context, usr *user.User, acc *Account) (*BalanceResponse, error) {
	if !usr.HasGateHubUserID() {
		return nil, common.ErrNotFound.WithDetails("Not Found")
	}

	balances, hit := s.cache.Get(ctx, acc.GateHubWalletID)
	if !hit {
		var err error
		balances, err = s.client.GetWalletBalance(ctx, *usr.GateHubUserID, acc.GateHubWalletID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, acc.GateHubWalletID, balances)
	}

	for _, b := range balances {
		if b.Vault.AssetCode == acc.AssetCode {
			return &BalanceResponse{
				Available: b.Available,
				Pending:   b.Pending,
				Total:     b.Total,
				AssetCode: b.Vault.AssetCode,
			}, nil
		}
	}

	// A freshly created wallet may have no balance line for the asset yet.
	return &BalanceResponse{Available: "0", Pending: "0", Total: "0", AssetCode: acc.AssetCode}, nil
}
