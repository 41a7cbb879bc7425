// File: internal/account/model.go
package account

import (
	"time"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
)

// Account is the GORM model for a user's asset account. Each account is
// backed by a hosted GateHub wallet created at provisioning time.
type Account struct {
	common.BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(255);not null"`
	AssetCode       string    `gorm:"type:varchar(12);not null"`
	AssetScale      int       `gorm:"not null"`
	GateHubWalletID string    `gorm:"column:gatehub_wallet_id;type:varchar(255);uniqueIndex;not null"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// CreateAccountRequest defines the structure for creating a new account.
type CreateAccountRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=255"`
	AssetCode string `json:"assetCode" binding:"required,oneof=EUR USD GBP"`
}

// UpdateAccountRequest defines the structure for renaming an account. The
// asset and backing wallet are fixed at creation time.
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// AccountResponse is the account representation returned by the API.
type AccountResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	AssetCode  string           `json:"assetCode"`
	AssetScale int              `json:"assetScale"`
	Balance    *BalanceResponse `json:"balance,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// BalanceResponse is the wallet balance snapshot attached to an account.
type BalanceResponse struct {
	Available string `json:"available"`
	Pending   string `json:"pending"`
	Total     string `json:"total"`
	AssetCode string `json:"assetCode"`
}

// ToAccountResponse converts an Account model to its API representation.
func ToAccountResponse(acc *Account, balance *BalanceResponse) AccountResponse {
	return AccountResponse{
		ID:         acc.ID,
		Name:       acc.Name,
		AssetCode:  acc.AssetCode,
		AssetScale: acc.AssetScale,
		Balance:    balance,
		CreatedAt:  acc.CreatedAt,
	}
}
