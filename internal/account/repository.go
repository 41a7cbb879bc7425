// File: internal/account/repository.go
package account

import (
	"context"
	"errors"
	"strings"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for account data operations.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Account, error)
	Update(ctx context.Context, account *Account) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM account repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new account record into the database.
func (r *gormRepository) Create(ctx context.Context, account *Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Account with this wallet already exists.")
		}
		return err
	}
	return nil
}

// FindByID retrieves an account by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var accountModel Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&accountModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Account not found with this ID.")
		}
		return nil, err
	}
	return &accountModel, nil
}

// FindByUserID retrieves all accounts belonging to a user, newest first.
func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	var accounts []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Update modifies an existing account record in the database.
func (r *gormRepository) Update(ctx context.Context, account *Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
