package user

import (
	"context"
	"testing"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByGateHubUserID(ctx context.Context, gateHubUserID string) (*User, error) {
	args := m.Called(ctx, gateHubUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestService(repo Repository) *ServiceImplementation {
	return NewService(repo, &config.Config{}, zap.NewNop())
}

func firebaseToken(uid string, claims map[string]interface{}) *firebaseauth.Token {
	return &firebaseauth.Token{UID: uid, Claims: claims}
}

func TestGetOrCreateUserFromFirebaseClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user on first login", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByFirebaseUID", ctx, "fb-uid-1").Return(nil, common.ErrNotFound.WithDetails("User not found with this Firebase UID."))
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.FirebaseUID != nil && *u.FirebaseUID == "fb-uid-1" &&
				u.Email != nil && *u.Email == "jane@example.com" &&
				u.FirstName != nil && *u.FirstName == "Jane" &&
				u.LastName != nil && *u.LastName == "van der Doe" &&
				u.IsEmailVerified &&
				u.Role == common.RoleUser
		})).Return(nil)

		usr, created, err := svc.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken("fb-uid-1", map[string]interface{}{
			"email":          "jane@example.com",
			"email_verified": true,
			"name":           "Jane van der Doe",
		}))
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, usr.Email)
		assert.Equal(t, "jane@example.com", *usr.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("returns the existing user and updates last login", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		fbUID := "fb-uid-1"
		existing := &User{FirebaseUID: &fbUID, Role: common.RoleUser}
		existing.ID = uuid.New()
		mockRepo.On("FindByFirebaseUID", ctx, "fb-uid-1").Return(existing, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
			return u.ID == existing.ID && u.LastLoginAt != nil
		})).Return(nil)

		usr, created, err := svc.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken("fb-uid-1", map[string]interface{}{}))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, usr.ID)
	})

	t.Run("promotes email verification from the token", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		fbUID := "fb-uid-1"
		existing := &User{FirebaseUID: &fbUID, IsEmailVerified: false}
		existing.ID = uuid.New()
		mockRepo.On("FindByFirebaseUID", ctx, "fb-uid-1").Return(existing, nil)
		mockRepo.On("Update", ctx, mock.Anything).Return(nil)

		usr, _, err := svc.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken("fb-uid-1", map[string]interface{}{
			"email_verified": true,
		}))
		require.NoError(t, err)
		assert.True(t, usr.IsEmailVerified)
	})

	t.Run("rejects a token without a UID", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		_, _, err := svc.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken("", nil))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores the new names", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		existing := &User{}
		existing.ID = uuid.New()
		mockRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
			return *u.FirstName == "Jane" && *u.LastName == "Doe"
		})).Return(nil)

		usr, err := svc.UpdateProfile(ctx, existing.ID, "  Jane ", " Doe ")
		require.NoError(t, err)
		assert.Equal(t, "Jane", *usr.FirstName)
	})

	t.Run("propagates not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		id := uuid.New()
		mockRepo.On("FindByID", ctx, id).Return(nil, common.ErrNotFound.WithDetails("User not found with this ID."))

		_, err := svc.UpdateProfile(ctx, id, "Jane", "Doe")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestSplitDisplayName(t *testing.T) {
	first, last := splitDisplayName("Jane van der Doe")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "van der Doe", last)

	first, last = splitDisplayName("Mononym")
	assert.Equal(t, "Mononym", first)
	assert.Empty(t, last)

	first, last = splitDisplayName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
