// File: internal/transfer/repository.go
package transfer

import (
	"context"
	"errors"
	"time"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for transfer data operations.
type Repository interface {
	Create(ctx context.Context, transfer *Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]Transfer, *common.Pagination, error)
	// ExpirePending marks all pending transfers whose expiry has passed as
	// expired and returns the ids affected.
	ExpirePending(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// FindAllForSync pages through transfers for bulk re-indexing.
	FindAllForSync(ctx context.Context, offset, limit int) ([]Transfer, error)
	// FindByIDs loads the given transfers preserving the order of ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Transfer, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM transfer repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new transfer record into the database.
func (r *gormRepository) Create(ctx context.Context, transfer *Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// FindByID retrieves a transfer by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	var transferModel Transfer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&transferModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Transfer not found with this ID.")
		}
		return nil, err
	}
	return &transferModel, nil
}

// FindByAccountID retrieves a page of transfers for an account, newest first.
func (r *gormRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]Transfer, *common.Pagination, error) {
	var transfers []Transfer
	var totalItems int64

	query := r.db.WithContext(ctx).Model(&Transfer{}).Where("account_id = ?", accountID)
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transfers).Error
	if err != nil {
		return nil, nil, err
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	return transfers, pagination, nil
}

// ExpirePending transitions overdue pending transfers to expired.
func (r *gormRepository) ExpirePending(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var overdue []Transfer
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", StatusPending, now).
		Find(&overdue).Error
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(overdue))
	for i := range overdue {
		ids = append(ids, overdue[i].ID)
	}

	err = r.db.WithContext(ctx).
		Model(&Transfer{}).
		Where("id IN ?", ids).
		Update("status", StatusExpired).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindByIDs loads transfers by id and returns them in the order requested.
// Ids with no matching row are silently skipped.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Transfer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var transfers []Transfer
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&transfers).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*Transfer, len(transfers))
	for i := range transfers {
		byID[transfers[i].ID] = &transfers[i]
	}

	ordered := make([]Transfer, 0, len(transfers))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, *t)
		}
	}
	return ordered, nil
}

// FindAllForSync retrieves a stable page of transfers ordered by creation time.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Transfer, error) {
	var transfers []Transfer
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
