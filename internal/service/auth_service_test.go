package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"skillhub/internal/auth"
	apperrors "skillhub/internal/errors"
	"skillhub/internal/metrics"
	"skillhub/internal/model"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*model.Profile) error) (*model.Profile, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(repo *MockProfileRepository, tokens *MockTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, jwtService, tokens, metrics.NewNop(), discardLogger()), jwtService
}

func hashedProfile(t *testing.T, email, password string) *model.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	p := model.NewProfile("Test User", email)
	p.ID = uuid.New()
	p.PasswordHash = string(hash)
	return p
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockProfileRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockProfileRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
			},
		},
		{
			name:      "profile already exists",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(m *MockProfileRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.Profile{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:      "duplicate detected by the store",
			email:     "race@example.com",
			password:  "password123",
			nameField: "Racer",
			setupMock: func(m *MockProfileRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProfileRepository)
			tt.setupMock(mockRepo)

			service, _ := newTestAuthService(mockRepo, new(MockTokenStore))
			profile, err := service.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, profile.Email)
				assert.Equal(t, tt.nameField, profile.Name)
				assert.Equal(t, model.RoleStandard, profile.Role)
				assert.False(t, profile.Banned)
				assert.True(t, profile.IsPublic)
				assert.Equal(t, model.DefaultAvailability, profile.Availability)
				assert.Equal(t, model.DefaultInterests, profile.Interests)
				assert.Empty(t, profile.SkillsOffered)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	active := hashedProfile(t, "test@example.com", "password123")
	banned := hashedProfile(t, "banned@example.com", "password123")
	banned.Banned = true

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockProfileRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockProfileRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(active, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, active.ID.String(), auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials - profile not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockProfileRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockProfileRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(active, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "banned profile",
			email:    "banned@example.com",
			password: "password123",
			setupMock: func(mRepo *MockProfileRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "banned@example.com").Return(banned, nil)
			},
			expectedError: ErrAccountSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProfileRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service, jwtService := newTestAuthService(mockRepo, mockTokenStore)
			accessToken, refreshToken, profile, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, profile.Email)

				claims, err := jwtService.ValidateToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
				assert.Equal(t, profile.ID.String(), claims.UserID)

				_, err = jwtService.ValidateRefreshToken(refreshToken)
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	profile := hashedProfile(t, "test@example.com", "password123")

	t.Run("issues access token with current role", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockTokenStore := new(MockTokenStore)
		service, jwtService := newTestAuthService(mockRepo, mockTokenStore)

		tokenID, refresh, err := jwtService.GenerateRefreshToken(profile)
		require.NoError(t, err)

		promoted := profile.Clone()
		promoted.Role = model.RoleAdmin
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(profile.ID.String(), nil)
		mockRepo.On("FindByID", mock.Anything, profile.ID).Return(promoted, nil)

		access, err := service.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, claims.Role)

		// The refresh token stays valid until logout or expiry.
		mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
		mockTokenStore.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockTokenStore := new(MockTokenStore)
		service, jwtService := newTestAuthService(mockRepo, mockTokenStore)

		tokenID, refresh, err := jwtService.GenerateRefreshToken(profile)
		require.NoError(t, err)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return("", auth.ErrRefreshTokenNotFound)

		_, err = service.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		service, jwtService := newTestAuthService(new(MockProfileRepository), new(MockTokenStore))

		access, err := jwtService.GenerateAccessToken(profile)
		require.NoError(t, err)

		_, err = service.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("banned since login", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockTokenStore := new(MockTokenStore)
		service, jwtService := newTestAuthService(mockRepo, mockTokenStore)

		tokenID, refresh, err := jwtService.GenerateRefreshToken(profile)
		require.NoError(t, err)

		bannedNow := profile.Clone()
		bannedNow.Banned = true
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(profile.ID.String(), nil)
		mockRepo.On("FindByID", mock.Anything, profile.ID).Return(bannedNow, nil)

		_, err = service.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestAuthService_Logout(t *testing.T) {
	profile := hashedProfile(t, "test@example.com", "password123")
	mockTokenStore := new(MockTokenStore)
	service, jwtService := newTestAuthService(new(MockProfileRepository), mockTokenStore)

	tokenID, refresh, err := jwtService.GenerateRefreshToken(profile)
	require.NoError(t, err)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	assert.NoError(t, service.Logout(context.Background(), refresh))
	assert.ErrorIs(t, service.Logout(context.Background(), "not-a-token"), ErrInvalidRefreshToken)
	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_ResolveActor(t *testing.T) {
	profile := hashedProfile(t, "test@example.com", "password123")
	profile.Banned = true
	missing := uuid.New()

	mockRepo := new(MockProfileRepository)
	mockRepo.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)
	mockRepo.On("FindByID", mock.Anything, missing).Return(nil, nil)
	mockRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	service, _ := newTestAuthService(mockRepo, new(MockTokenStore))

	actor, err := service.ResolveActor(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{UserID: profile.ID, Role: model.RoleStandard, Banned: true}, actor)

	_, err = service.ResolveActor(context.Background(), missing)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	_, err = service.ResolveActor(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "connection refused")
}
