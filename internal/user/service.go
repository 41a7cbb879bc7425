package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// GetOrCreateUserFromFirebaseClaims resolves the local user for a verified
// Firebase ID token, creating the record on first sight of the UID.
func (s *ServiceImplementation) GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (*shared.User, bool, error) {
	if firebaseToken == nil || firebaseToken.UID == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Invalid Firebase token.")
	}

	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseToken.UID)
	if err == nil {
		now := time.Now()
		dbUser.LastLoginAt = &now
		if emailVerified, ok := firebaseToken.Claims["email_verified"].(bool); ok && emailVerified && !dbUser.IsEmailVerified {
			dbUser.IsEmailVerified = true
		}
		if err := s.repo.Update(ctx, dbUser); err != nil {
			// Not critical for auth; log and continue.
			s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		}
		return DBToShared(dbUser), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Firebase UID", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		return nil, false, fmt.Errorf("failed to look up user by Firebase UID: %w", err)
	}

	firebaseUID := firebaseToken.UID
	now := time.Now()
	newUser := &User{
		FirebaseUID: &firebaseUID,
		Role:        common.RoleUser,
		LastLoginAt: &now,
	}
	if email, ok := firebaseToken.Claims["email"].(string); ok && email != "" {
		newUser.Email = &email
	}
	if emailVerified, ok := firebaseToken.Claims["email_verified"].(bool); ok {
		newUser.IsEmailVerified = emailVerified
	}
	if name, ok := firebaseToken.Claims["name"].(string); ok && name != "" {
		first, last := splitDisplayName(name)
		if first != "" {
			newUser.FirstName = &first
		}
		if last != "" {
			newUser.LastName = &last
		}
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to create user from Firebase claims", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created from Firebase claims", zap.String("userID", newUser.ID.String()))
	return DBToShared(newUser), true, nil
}

// UpdateProfile updates the caller's first and last name.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	dbUser.FirstName = &firstName
	dbUser.LastName = &lastName

	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err), zap.String("userID", id.String()))
		return nil, err
	}

	return DBToShared(dbUser), nil
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}
