// File: internal/walletaddress/model.go
package walletaddress

import (
	"time"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
)

// WalletAddress is the GORM model for a payment pointer attached to an
// account. The URL is derived from the public name and is globally unique.
type WalletAddress struct {
	common.BaseModel
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PublicName string    `gorm:"type:varchar(255);not null"`
	Active     bool      `gorm:"not null;default:true"`
}

// TableName specifies the table name for the WalletAddress model.
func (WalletAddress) TableName() string {
	return "wallet_addresses"
}

// CreateWalletAddressRequest defines the structure for creating a wallet address.
type CreateWalletAddressRequest struct {
	PublicName string `json:"publicName" binding:"required,min=1,max=255"`
}

// WalletAddressResponse is the API representation of a wallet address.
type WalletAddressResponse struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	PublicName string    `json:"publicName"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToWalletAddressResponse converts a WalletAddress model to its API representation.
func ToWalletAddressResponse(wa *WalletAddress) WalletAddressResponse {
	return WalletAddressResponse{
		ID:         wa.ID,
		URL:        wa.URL,
		PublicName: wa.PublicName,
		Active:     wa.Active,
		CreatedAt:  wa.CreatedAt,
	}
}
