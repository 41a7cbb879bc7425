package gatehub

import (
	"context"
	"errors"
	"testing"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*user.User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByGateHubUserID(ctx context.Context, gateHubUserID string) (*user.User, error) {
	args := m.Called(ctx, gateHubUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockGateHubClient is a mock type for gatehub.Client
type MockGateHubClient struct {
	mock.Mock
}

func (m *MockGateHubClient) GetIframeURL(ctx context.Context, externalUserID, iframeType string) (string, error) {
	args := m.Called(ctx, externalUserID, iframeType)
	return args.String(0), args.Error(1)
}

func (m *MockGateHubClient) CreateManagedUser(ctx context.Context, email string) (*ManagedUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ManagedUser), args.Error(1)
}

func (m *MockGateHubClient) GetUserState(ctx context.Context, externalUserID string) (*UserState, error) {
	args := m.Called(ctx, externalUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserState), args.Error(1)
}

func (m *MockGateHubClient) CreateWallet(ctx context.Context, externalUserID, name string) (*Wallet, error) {
	args := m.Called(ctx, externalUserID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockGateHubClient) ConnectUserToGateway(ctx context.Context, externalUserID string, profile *Profile) (bool, error) {
	args := m.Called(ctx, externalUserID, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateHubClient) AddUserToGateway(ctx context.Context, externalUserID, walletAddress string) error {
	args := m.Called(ctx, externalUserID, walletAddress)
	return args.Error(0)
}

func (m *MockGateHubClient) GetWalletBalance(ctx context.Context, externalUserID, walletAddress string) ([]Balance, error) {
	args := m.Called(ctx, externalUserID, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Balance), args.Error(1)
}

func (m *MockGateHubClient) ValidateWebhookSignature(body []byte, signature string) error {
	args := m.Called(body, signature)
	return args.Error(0)
}

func newTestService(client Client, repo user.Repository) Service {
	logger := zap.NewNop()
	cfg := &config.Config{GateHubGatewayUUID: "gateway-uuid"}
	return NewService(client, repo, cfg, logger)
}

func testUser(gateHubUserID string, kycVerified bool) *user.User {
	first := "Jane"
	last := "Doe"
	u := &user.User{
		FirstName:   &first,
		LastName:    &last,
		KYCVerified: kycVerified,
	}
	u.ID = uuid.New()
	if gateHubUserID != "" {
		u.GateHubUserID = &gateHubUserID
	}
	return u
}

func TestGetIframeURL(t *testing.T) {
	ctx := context.Background()

	t.Run("returns iframe URL", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("GetIframeURL", ctx, "mocked", IframeTypeWithdrawal).Return("URL", nil)

		url, err := svc.GetIframeURL(ctx, IframeTypeWithdrawal, usr.ID)
		assert.NoError(t, err)
		assert.Equal(t, "URL", url)
		mockClient.AssertExpectations(t)
	})

	t.Run("returns NotFound if no user found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		unknownID := uuid.New()
		mockRepo.On("FindByID", ctx, unknownID).Return(nil, common.ErrNotFound.WithDetails("User not found with this ID."))

		_, err := svc.GetIframeURL(ctx, IframeTypeWithdrawal, unknownID)
		assert.ErrorIs(t, err, common.ErrNotFound)
		mockClient.AssertNotCalled(t, "GetIframeURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository outage surfaces as the original error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		dbErr := errors.New("connection refused")
		mockRepo.On("FindByID", ctx, mock.Anything).Return(nil, dbErr)

		_, err := svc.GetIframeURL(ctx, IframeTypeWithdrawal, uuid.New())
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, common.ErrNotFound)
		mockClient.AssertNotCalled(t, "GetIframeURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns NotFound if gateHubUserID not set", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)

		_, err := svc.GetIframeURL(ctx, IframeTypeWithdrawal, usr.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
		mockClient.AssertNotCalled(t, "GetIframeURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns NotFound if gateHubUserID is empty string", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		empty := ""
		usr := testUser("mocked", false)
		usr.GateHubUserID = &empty
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)

		_, err := svc.GetIframeURL(ctx, IframeTypeWithdrawal, usr.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	webhook := func(eventType, userUUID string) WebhookData {
		return WebhookData{
			UUID:        uuid.NewString(),
			Timestamp:   "1700000000000",
			EventType:   eventType,
			UserUUID:    userUUID,
			Environment: "sandbox",
		}
	}

	t.Run("accepted event marks user as verified", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByGateHubUserID", ctx, "mocked").Return(usr, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.ID == usr.ID && u.KYCVerified
		})).Return(nil)

		err := svc.HandleWebhook(ctx, webhook(EventIDVerificationAccepted, "mocked"))
		assert.NoError(t, err)
		assert.True(t, usr.KYCVerified)
		mockRepo.AssertExpectations(t)
	})

	t.Run("other verification event does not mark user as verified", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByGateHubUserID", ctx, "mocked").Return(usr, nil)

		err := svc.HandleWebhook(ctx, webhook(EventIDVerificationError, "mocked"))
		assert.NoError(t, err)
		assert.False(t, usr.KYCVerified)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown event type is a silent no-op", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByGateHubUserID", ctx, "mocked").Return(usr, nil)

		err := svc.HandleWebhook(ctx, webhook("id.verification.something_new", "mocked"))
		assert.NoError(t, err)
		assert.False(t, usr.KYCVerified)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown gateHubUserID fails with user not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		mockRepo.On("FindByGateHubUserID", ctx, mock.Anything).Return(nil, common.ErrNotFound.WithDetails("User not found"))

		err := svc.HandleWebhook(ctx, webhook(EventIDVerificationAccepted, uuid.NewString()))
		assert.ErrorIs(t, err, common.ErrNotFound)
		apiErr, ok := common.IsAPIError(err)
		assert.True(t, ok)
		assert.Equal(t, "User not found", apiErr.Details)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("repository outage surfaces as the original error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		dbErr := errors.New("connection refused")
		mockRepo.On("FindByGateHubUserID", ctx, mock.Anything).Return(nil, dbErr)

		err := svc.HandleWebhook(ctx, webhook(EventIDVerificationAccepted, "mocked"))
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("re-delivering the accepted event is idempotent", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByGateHubUserID", ctx, "mocked").Return(usr, nil)
		mockRepo.On("Update", ctx, mock.Anything).Return(nil)

		event := webhook(EventIDVerificationAccepted, "mocked")
		assert.NoError(t, svc.HandleWebhook(ctx, event))
		assert.NoError(t, svc.HandleWebhook(ctx, event))
		assert.True(t, usr.KYCVerified)
	})
}

func TestAddUserToGateway(t *testing.T) {
	ctx := context.Background()

	userState := func(usr *user.User) *UserState {
		return &UserState{
			ID: "mocked",
			Profile: Profile{
				FirstName: *usr.FirstName,
				LastName:  *usr.LastName,
			},
		}
	}

	t.Run("sets user as KYC verified when gateway connects", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("GetUserState", ctx, "mocked").Return(userState(usr), nil)
		mockClient.On("ConnectUserToGateway", ctx, "mocked", mock.Anything).Return(true, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.ID == usr.ID && u.KYCVerified
		})).Return(nil)

		connected, err := svc.AddUserToGateway(ctx, usr.ID)
		assert.NoError(t, err)
		assert.True(t, connected)
		assert.True(t, usr.KYCVerified)
		mockRepo.AssertExpectations(t)
		mockClient.AssertExpectations(t)
	})

	t.Run("does not set KYC verified when gateway declines", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("GetUserState", ctx, "mocked").Return(userState(usr), nil)
		mockClient.On("ConnectUserToGateway", ctx, "mocked", mock.Anything).Return(false, nil)

		connected, err := svc.AddUserToGateway(ctx, usr.ID)
		assert.NoError(t, err)
		assert.False(t, connected)
		assert.False(t, usr.KYCVerified)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("a declined connect never clears an existing verified flag", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", true)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("GetUserState", ctx, "mocked").Return(userState(usr), nil)
		mockClient.On("ConnectUserToGateway", ctx, "mocked", mock.Anything).Return(false, nil)

		connected, err := svc.AddUserToGateway(ctx, usr.ID)
		assert.NoError(t, err)
		assert.False(t, connected)
		assert.True(t, usr.KYCVerified)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("returns NotFound if user not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		unknownID := uuid.New()
		mockRepo.On("FindByID", ctx, unknownID).Return(nil, common.ErrNotFound.WithDetails("User not found with this ID."))

		_, err := svc.AddUserToGateway(ctx, unknownID)
		assert.ErrorIs(t, err, common.ErrNotFound)
		mockClient.AssertNotCalled(t, "GetUserState", mock.Anything, mock.Anything)
	})

	t.Run("returns NotFound if user has no gateHubUserID", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)

		_, err := svc.AddUserToGateway(ctx, usr.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
		mockClient.AssertNotCalled(t, "GetUserState", mock.Anything, mock.Anything)
	})

	t.Run("propagates upstream failures unmodified", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("GetUserState", ctx, "mocked").Return(nil, common.ErrBadGateway.WithDetails("GateHub responded with status 503."))

		_, err := svc.AddUserToGateway(ctx, usr.ID)
		assert.ErrorIs(t, err, common.ErrBadGateway)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProvisionUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a managed user and stores the external id", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		email := "jane@example.com"
		usr := testUser("", false)
		usr.Email = &email
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)
		mockClient.On("CreateManagedUser", ctx, email).Return(&ManagedUser{ID: "gh-uuid", Email: email}, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.GateHubUserID != nil && *u.GateHubUserID == "gh-uuid"
		})).Return(nil)

		err := svc.ProvisionUser(ctx, usr.ID)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("conflict when already provisioned", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockClient := new(MockGateHubClient)
		svc := newTestService(mockClient, mockRepo)

		usr := testUser("mocked", false)
		mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil)

		err := svc.ProvisionUser(ctx, usr.ID)
		assert.ErrorIs(t, err, common.ErrConflict)
		mockClient.AssertNotCalled(t, "CreateManagedUser", mock.Anything, mock.Anything)
	})
}
