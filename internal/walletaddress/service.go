// File: internal/walletaddress/service.go
package walletaddress

import (
	"context"
	"fmt"
	"strings"

	"wallet_backend/internal/account"
	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/gatehub"
	"wallet_backend/internal/user"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the wallet address business logic interface.
type Service interface {
	CreateWalletAddress(ctx context.Context, userID, accountID uuid.UUID, req CreateWalletAddressRequest) (*WalletAddressResponse, error)
	ListWalletAddresses(ctx context.Context, userID, accountID uuid.UUID) ([]WalletAddressResponse, error)
	DeactivateWalletAddress(ctx context.Context, userID, accountID, addressID uuid.UUID) error
}

type service struct {
	repo       Repository
	accountSvc account.Service
	userRepo   user.Repository
	client     gatehub.Client
	cfg        *config.Config
	logger     *zap.Logger
}

// NewService creates a new wallet address service.
func NewService(repo Repository, accountSvc account.Service, userRepo user.Repository, client gatehub.Client, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		accountSvc: accountSvc,
		userRepo:   userRepo,
		client:     client,
		cfg:        cfg,
		logger:     logger,
	}
}

// DeriveURL builds the public payment pointer URL for a public name. The path
// segment is a URL-safe slug of the name.
func DeriveURL(host, publicName string) string {
	return strings.TrimSuffix(host, "/") + "/" + slug.Make(publicName)
}

// CreateWalletAddress derives a unique URL from the public name, registers it
// with the gateway and stores it locally. Registration happens before the
// local insert so a provider rejection never leaves an orphaned address.
func (s *service) CreateWalletAddress(ctx context.Context, userID, accountID uuid.UUID, req CreateWalletAddressRequest) (*WalletAddressResponse, error) {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !usr.HasGateHubUserID() {
		return nil, common.ErrNotFound.WithDetails("Not Found")
	}

	url := DeriveURL(s.cfg.WalletAddressHost, req.PublicName)
	if _, err := s.repo.FindByURL(ctx, url); err == nil {
		return nil, common.ErrConflict.WithDetails("This wallet address URL is already taken.")
	}

	if err := s.client.AddUserToGateway(ctx, *usr.GateHubUserID, url); err != nil {
		return nil, err
	}

	address := &WalletAddress{
		AccountID:  acc.ID,
		URL:        url,
		PublicName: req.PublicName,
		Active:     true,
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to store wallet address: %w", err)
	}

	s.logger.Info("Wallet address created",
		zap.String("addressID", address.ID.String()),
		zap.String("accountID", acc.ID.String()),
		zap.String("url", url),
	)

	resp := ToWalletAddressResponse(address)
	return &resp, nil
}

// ListWalletAddresses returns all wallet addresses of an owned account.
func (s *service) ListWalletAddresses(ctx context.Context, userID, accountID uuid.UUID) ([]WalletAddressResponse, error) {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	addresses, err := s.repo.FindByAccountID(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet addresses: %w", err)
	}

	responses := make([]WalletAddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, ToWalletAddressResponse(&addresses[i]))
	}
	return responses, nil
}

// DeactivateWalletAddress soft-deactivates an address. The URL stays reserved
// so it can never be re-assigned to a different account.
func (s *service) DeactivateWalletAddress(ctx context.Context, userID, accountID, addressID uuid.UUID) error {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}

	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		return err
	}
	if address.AccountID != acc.ID {
		return common.ErrNotFound.WithDetails("Wallet address not found with this ID.")
	}
	if !address.Active {
		return nil
	}

	address.Active = false
	if err := s.repo.Update(ctx, address); err != nil {
		return fmt.Errorf("failed to deactivate wallet address: %w", err)
	}

	s.logger.Info("Wallet address deactivated",
		zap.String("addressID", address.ID.String()),
		zap.String("accountID", acc.ID.String()),
	)
	return nil
}
