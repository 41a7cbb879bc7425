// File: internal/transfer/model.go
package transfer

import (
	"time"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
)

// Direction discriminates money leaving an account from money requested into it.
type Direction string

// Status is the lifecycle state of a transfer.
type Status string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"

	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// DefaultRequestExpiry is how long an incoming money request stays payable
// when the creator does not pick an expiry.
const DefaultRequestExpiry = 30 * 24 * time.Hour

// Transfer is the GORM model for a payment sent from or requested into an
// account. Amounts are kept in minor units alongside the asset scale.
type Transfer struct {
	common.BaseModel
	AccountID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Direction   Direction  `gorm:"type:varchar(16);not null"`
	Receiver    string     `gorm:"type:varchar(255);not null"`
	Description *string    `gorm:"type:text"`
	Amount      int64      `gorm:"not null"`
	AssetCode   string     `gorm:"type:varchar(12);not null"`
	AssetScale  int        `gorm:"not null"`
	Status      Status     `gorm:"type:varchar(16);not null;index"`
	ExpiresAt   *time.Time `gorm:"index"`
}

// TableName specifies the table name for the Transfer model.
func (Transfer) TableName() string {
	return "transfers"
}

// SendTransferRequest defines the payload for sending money to a wallet address.
type SendTransferRequest struct {
	Receiver    string  `json:"receiver" binding:"required,url"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// RequestTransferRequest defines the payload for requesting money from a payer.
type RequestTransferRequest struct {
	Payer       string     `json:"payer" binding:"required,url"`
	Amount      int64      `json:"amount" binding:"required,gt=0"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	ExpiresAt   *time.Time `json:"expiresAt" binding:"omitempty"`
}

// SearchTransfersQuery captures the free-text search parameters.
type SearchTransfersQuery struct {
	Query    string `form:"q" binding:"required,min=1"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
}

// TransferResponse is the API representation of a transfer.
type TransferResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"accountId"`
	Direction   Direction  `json:"direction"`
	Receiver    string     `json:"receiver"`
	Description *string    `json:"description,omitempty"`
	Amount      int64      `json:"amount"`
	AssetCode   string     `json:"assetCode"`
	AssetScale  int        `json:"assetScale"`
	Status      Status     `json:"status"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToTransferResponse converts a Transfer model to its API representation.
func ToTransferResponse(tr *Transfer) TransferResponse {
	return TransferResponse{
		ID:          tr.ID,
		AccountID:   tr.AccountID,
		Direction:   tr.Direction,
		Receiver:    tr.Receiver,
		Description: tr.Description,
		Amount:      tr.Amount,
		AssetCode:   tr.AssetCode,
		AssetScale:  tr.AssetScale,
		Status:      tr.Status,
		ExpiresAt:   tr.ExpiresAt,
		CreatedAt:   tr.CreatedAt,
	}
}
