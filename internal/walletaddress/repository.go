// File: internal/walletaddress/repository.go
package walletaddress

import (
	"context"
	"errors"
	"strings"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for wallet address data operations.
type Repository interface {
	Create(ctx context.Context, address *WalletAddress) error
	FindByID(ctx context.Context, id uuid.UUID) (*WalletAddress, error)
	FindByURL(ctx context.Context, url string) (*WalletAddress, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]WalletAddress, error)
	Update(ctx context.Context, address *WalletAddress) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM wallet address repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new wallet address record into the database.
func (r *gormRepository) Create(ctx context.Context, address *WalletAddress) error {
	err := r.db.WithContext(ctx).Create(address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("This wallet address URL is already taken.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a wallet address by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*WalletAddress, error) {
	var addressModel WalletAddress
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&addressModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Wallet address not found with this ID.")
		}
		return nil, err
	}
	return &addressModel, nil
}

// FindByURL retrieves a wallet address by its unique URL.
func (r *gormRepository) FindByURL(ctx context.Context, url string) (*WalletAddress, error) {
	var addressModel WalletAddress
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&addressModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Wallet address not found with this URL.")
		}
		return nil, err
	}
	return &addressModel, nil
}

// FindByAccountID retrieves all wallet addresses of an account, newest first.
func (r *gormRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]WalletAddress, error) {
	var addresses []WalletAddress
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// Update modifies an existing wallet address record in the database.
func (r *gormRepository) Update(ctx context.Context, address *WalletAddress) error {
	return r.db.WithContext(ctx).Save(address).Error
}
