package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// User represents a wallet user in the system.
type User struct {
	ID              uuid.UUID
	Email           *string
	FirstName       *string
	LastName        *string
	Role            string
	IsEmailVerified bool
	KYCVerified     bool
	GateHubUserID   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
}

// HasGateHubUserID reports whether the user has been provisioned with the
// external provider. An absent or empty identifier means "not provisioned".
func (u *User) HasGateHubUserID() bool {
	return u.GateHubUserID != nil && *u.GateHubUserID != ""
}

// Service defines the interface for user-related business logic.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (usr *User, wasCreated bool, err error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*User, error)
}
