package user

import (
	"wallet_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:              dbUser.ID,
		Email:           dbUser.Email,
		FirstName:       dbUser.FirstName,
		LastName:        dbUser.LastName,
		Role:            dbUser.Role,
		IsEmailVerified: dbUser.IsEmailVerified,
		KYCVerified:     dbUser.KYCVerified,
		GateHubUserID:   dbUser.GateHubUserID,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
		LastLoginAt:     dbUser.LastLoginAt,
	}
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(usr *shared.User) UserResponse {
	return UserResponse{
		ID:              usr.ID,
		Email:           usr.Email,
		FirstName:       usr.FirstName,
		LastName:        usr.LastName,
		Role:            usr.Role,
		IsEmailVerified: usr.IsEmailVerified,
		KYCVerified:     usr.KYCVerified,
		NeedsIDProof:    !usr.KYCVerified,
		CreatedAt:       usr.CreatedAt,
		UpdatedAt:       usr.UpdatedAt,
		LastLoginAt:     usr.LastLoginAt,
	}
}
