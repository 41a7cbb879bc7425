// File: internal/gatehub/service.go
package gatehub

import (
	"context"
	"errors"
	"fmt"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service orchestrates the GateHub identity-verification flow: it maps local
// users to their external identifiers, drives the gateway-connection sequence
// and interprets inbound webhook events.
type Service interface {
	GetIframeURL(ctx context.Context, iframeType string, userID uuid.UUID) (string, error)
	HandleWebhook(ctx context.Context, data WebhookData) error
	AddUserToGateway(ctx context.Context, userID uuid.UUID) (bool, error)
	ProvisionUser(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	client   Client
	userRepo user.Repository
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new GateHub orchestration service.
func NewService(client Client, userRepo user.Repository, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		client:   client,
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetIframeURL resolves the user's external identifier and delegates to the
// client. A missing user and a user that was never provisioned with GateHub
// both fail with the same NotFound kind so callers cannot probe provisioning
// state. The URL is never cached; every call hits the provider.
func (s *service) GetIframeURL(ctx context.Context, iframeType string, userID uuid.UUID) (string, error) {
	usr, err := s.resolveProvisionedUser(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.client.GetIframeURL(ctx, *usr.GateHubUserID, iframeType)
	if err != nil {
		return "", err
	}
	return url, nil
}

// HandleWebhook interprets a provider notification. Only the accepted
// identity-verification event type flips the user's KYC flag; any other event
// type, known or unknown, is accepted silently so new provider events never
// break delivery. Re-delivering the accepted event is a safe no-op because the
// flag is only ever set to true.
func (s *service) HandleWebhook(ctx context.Context, data WebhookData) error {
	usr, err := s.userRepo.FindByGateHubUserID(ctx, data.UserUUID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to resolve webhook user: %w", err)
		}
		s.logger.Warn("Webhook references an unknown GateHub user",
			zap.String("event_uuid", data.UUID),
			zap.String("event_type", data.EventType),
			zap.String("user_uuid", data.UserUUID),
		)
		return common.ErrNotFound.WithDetails("User not found")
	}

	if data.EventType != EventIDVerificationAccepted {
		s.logger.Debug("Ignoring webhook event type",
			zap.String("event_uuid", data.UUID),
			zap.String("event_type", data.EventType),
		)
		return nil
	}

	usr.KYCVerified = true
	if err := s.userRepo.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to persist KYC verification: %w", err)
	}

	s.logger.Info("User marked as KYC verified via webhook",
		zap.String("userID", usr.ID.String()),
		zap.String("event_uuid", data.UUID),
	)
	return nil
}

// AddUserToGateway fetches the user's verification state from the provider and
// connects the user to the configured gateway. The connect result is returned
// verbatim; only a true result marks the user KYC verified. A false result
// leaves the flag at its prior value.
func (s *service) AddUserToGateway(ctx context.Context, userID uuid.UUID) (bool, error) {
	usr, err := s.resolveProvisionedUser(ctx, userID)
	if err != nil {
		return false, err
	}

	state, err := s.client.GetUserState(ctx, *usr.GateHubUserID)
	if err != nil {
		return false, err
	}

	connected, err := s.client.ConnectUserToGateway(ctx, *usr.GateHubUserID, &state.Profile)
	if err != nil {
		return false, err
	}

	if connected {
		usr.KYCVerified = true
		if err := s.userRepo.Update(ctx, usr); err != nil {
			return false, fmt.Errorf("failed to persist KYC verification: %w", err)
		}
		s.logger.Info("User connected to gateway and marked as KYC verified",
			zap.String("userID", usr.ID.String()))
	}

	return connected, nil
}

// ProvisionUser creates a managed user at the provider for a local user that
// does not yet have an external identifier, then stores that identifier.
func (s *service) ProvisionUser(ctx context.Context, userID uuid.UUID) error {
	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithDetails("Not Found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if usr.HasGateHubUserID() {
		return common.ErrConflict.WithDetails("User is already provisioned with GateHub.")
	}
	if usr.Email == nil || *usr.Email == "" {
		return common.ErrBadRequest.WithDetails("User has no email address to provision with.")
	}

	managed, err := s.client.CreateManagedUser(ctx, *usr.Email)
	if err != nil {
		return err
	}

	usr.GateHubUserID = &managed.ID
	if err := s.userRepo.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to store GateHub user id: %w", err)
	}

	s.logger.Info("User provisioned with GateHub",
		zap.String("userID", usr.ID.String()),
		zap.String("gateHubUserID", managed.ID),
	)
	return nil
}

// resolveProvisionedUser loads a user by local id and requires a non-empty
// external identifier. Both lookup-miss modes deliberately collapse into the
// same NotFound error; infrastructure failures pass through untouched so they
// surface as 500s instead of 404s.
func (s *service) resolveProvisionedUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	usr, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("Not Found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !usr.HasGateHubUserID() {
		return nil, common.ErrNotFound.WithDetails("Not Found")
	}
	return usr, nil
}
