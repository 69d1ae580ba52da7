package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

// ProfileRepository is the directory of user profiles. It performs no
// authorization: callers decide who may write which fields.
type ProfileRepository interface {
	// Create stores a new profile, assigning its ID when unset. It fails with
	// ErrDuplicateEmail when the email is taken, compared case-insensitively.
	Create(ctx context.Context, profile *model.Profile) error
	// FindByID returns nil, nil when no profile has the ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// FindByEmail returns nil, nil when no profile has the email.
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	// Update merges patch into the stored profile and returns the result.
	Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error)
	// Mutate runs fn on the stored profile while holding its write lock and
	// saves the result. When fn fails nothing is written and its error is
	// returned.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*model.Profile) error) (*model.Profile, error)
	// List returns every profile in creation order.
	List(ctx context.Context) ([]model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a GORM-backed profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// FindByID finds a profile by ID.
func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail finds a profile by email, ignoring case.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return r.first(r.db.WithContext(ctx).Where("email_key = ?", model.EmailKey(email)))
}

func (r *profileRepository) first(q *gorm.DB) (*model.Profile, error) {
	var profile model.Profile
	err := q.First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &profile, nil
}

// Update applies a partial update under a row lock.
func (r *profileRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	return r.Mutate(ctx, id, func(profile *model.Profile) error {
		patch.Apply(profile)
		return nil
	})
}

// Mutate reads the profile with SELECT ... FOR UPDATE, applies fn and saves
// it in the same transaction.
func (r *profileRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*model.Profile) error) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		if err := fn(&profile); err != nil {
			return err
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile %s: %w", id, err)
	}
	return &profile, nil
}

// List lists all profiles in creation order.
func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}
