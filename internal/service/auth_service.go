package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillhub/internal/auth"
	apperrors "skillhub/internal/errors"
	"skillhub/internal/metrics"
	"skillhub/internal/model"
	"skillhub/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountSuspended is returned when a banned profile tries to sign in.
	ErrAccountSuspended = errors.New("account is suspended")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, profile *model.Profile, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ResolveActor(ctx context.Context, userID uuid.UUID) (model.Actor, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	metrics     *metrics.Recorder
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	profileRepo repository.ProfileRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		metrics:     recorder,
		logger:      logger.With("component", "auth_service"),
	}
}

// Register creates a new profile with signup defaults and a hashed password.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.Profile, error) {
	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := model.NewProfile(name, email)
	profile.PasswordHash = string(hashedPassword)

	// The store still rejects a duplicate that raced past the lookup.
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ProfileCreated()
	}
	s.logger.InfoContext(ctx, "profile registered", "profile_id", profile.ID)
	return profile, nil
}

// Login authenticates a profile and returns access and refresh tokens.
// Banned profiles are refused even with the right password.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, profile *model.Profile, err error) {
	profile, err = s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil || profile.PasswordHash == "" {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if profile.Banned {
		s.logger.WarnContext(ctx, "suspended profile refused", "profile_id", profile.ID)
		return "", "", nil, ErrAccountSuspended
	}

	accessToken, err = s.jwtService.GenerateAccessToken(profile)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID.String(), auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, profile, nil
}

// RefreshToken validates a refresh token and returns a new access token
// reflecting the profile's current role.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", ErrInvalidRefreshToken
	}

	userID, err := claims.ProfileID()
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return "", ErrInvalidRefreshToken
	}
	if profile.Banned {
		return "", ErrAccountSuspended
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// ResolveActor loads the acting profile so role and banned status are current.
func (s *authService) ResolveActor(ctx context.Context, userID uuid.UUID) (model.Actor, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return model.Actor{}, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return model.Actor{}, apperrors.ErrProfileNotFound
	}
	return model.ActorFromProfile(profile), nil
}
