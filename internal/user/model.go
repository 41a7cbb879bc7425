// File: internal/user/model.go
package user

import (
	"time"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the wallet user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Email            *string `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	FirstName        *string `gorm:"type:varchar(100)"`
	LastName         *string `gorm:"type:varchar(100)"`
	FirebaseUID      *string `gorm:"type:varchar(255);uniqueIndex"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'"`
	IsEmailVerified  bool    `gorm:"not null;default:false"`
	// KYCVerified is set only by the GateHub orchestration service: either an
	// accepted verification webhook or a successful gateway connection. It never
	// transitions back to false.
	KYCVerified   bool    `gorm:"column:kyc_verified;not null;default:false"`
	GateHubUserID *string `gorm:"column:gatehub_user_id;type:varchar(255);index"`
	LastLoginAt   *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// HasGateHubUserID reports whether the user has been provisioned with GateHub.
func (u *User) HasGateHubUserID() bool {
	return u.GateHubUserID != nil && *u.GateHubUserID != ""
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UpdateProfileRequest defines the structure for updating the caller's profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           *string    `json:"email,omitempty"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	Role            string     `json:"role"`
	IsEmailVerified bool       `json:"is_email_verified"`
	KYCVerified     bool       `json:"kyc_verified"`
	NeedsIDProof    bool       `json:"needs_id_proof"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}
