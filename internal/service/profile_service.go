package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillhub/internal/cache"
	apperrors "skillhub/internal/errors"
	"skillhub/internal/metrics"
	"skillhub/internal/model"
	"skillhub/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ProfileService applies authorization rules on top of the profile store.
type ProfileService interface {
	GetProfile(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error)
	AddSkill(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList, name string, category model.SkillCategory) (*model.Profile, error)
	RemoveSkill(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList, skillID string) (*model.Profile, error)
	SetBanned(ctx context.Context, actor model.Actor, id uuid.UUID, banned bool) (*model.Profile, error)
	Browse(ctx context.Context, actor model.Actor, term string) ([]model.Profile, error)
	ListAll(ctx context.Context, actor model.Actor) ([]model.Profile, error)
}

type profileService struct {
	repo    repository.ProfileRepository
	cache   *cache.Client
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(repo repository.ProfileRepository, cache *cache.Client, recorder *metrics.Recorder, logger *slog.Logger) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
		logger:  logger.With("component", "profile_service"),
	}
}

func (s *profileService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

// GetProfile returns a profile the actor may view.
func (s *profileService) GetProfile(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanViewProfile(actor, profile) {
		return nil, apperrors.ErrForbidden
	}
	return profile, nil
}

func (s *profileService) load(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var cached model.Profile
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), profile, profileCacheTTL)
	return profile, nil
}

// UpdateProfile merges patch into the target profile. Owner fields may only
// be changed by the owner and the banned flag only by an admin.
func (s *profileService) UpdateProfile(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	if actor.Banned {
		return nil, apperrors.ErrActorBanned
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if target == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	if patch.TouchesOwnerFields() && !CanEditProfile(actor.UserID, target.ID) {
		return nil, apperrors.ErrForbidden
	}
	if patch.Banned != nil && !CanBan(actor, target) {
		return nil, apperrors.ErrForbidden
	}
	if patch.Empty() {
		return target, nil
	}

	if patch.SkillsOffered != nil {
		skills, err := normalizeSkills(*patch.SkillsOffered)
		if err != nil {
			return nil, err
		}
		patch.SkillsOffered = &skills
	}
	if patch.SkillsWanted != nil {
		skills, err := normalizeSkills(*patch.SkillsWanted)
		if err != nil {
			return nil, err
		}
		patch.SkillsWanted = &skills
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if patch.Banned != nil {
		if s.metrics != nil {
			s.metrics.Moderation(*patch.Banned)
		}
		s.logger.InfoContext(ctx, "profile moderation",
			"admin_id", actor.UserID,
			"profile_id", id,
			"banned", *patch.Banned,
		)
	}
	return updated, nil
}

// errSkillsUnchanged stops a skill edit that would not change the list.
var errSkillsUnchanged = errors.New("skills unchanged")

// AddSkill appends a new skill to one of the profile's lists. Adding a skill
// that is already listed (same name ignoring case, same category) is a no-op.
func (s *profileService) AddSkill(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList, name string, category model.SkillCategory) (*model.Profile, error) {
	name = strings.TrimSpace(name)
	if !list.Valid() || !category.Valid() || name == "" {
		return nil, apperrors.ErrInvalidSkill
	}

	candidate := model.Skill{ID: uuid.NewString(), Name: name, Category: category}
	return s.editSkills(ctx, actor, id, list, func(current []model.Skill) ([]model.Skill, bool) {
		for _, existing := range current {
			if existing.SameAs(candidate) {
				return nil, false
			}
		}
		return append(current, candidate), true
	})
}

// RemoveSkill drops a skill from one of the profile's lists. Swap requests
// that already reference the skill keep their copy.
func (s *profileService) RemoveSkill(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList, skillID string) (*model.Profile, error) {
	if !list.Valid() {
		return nil, apperrors.ErrInvalidSkill
	}

	return s.editSkills(ctx, actor, id, list, func(current []model.Skill) ([]model.Skill, bool) {
		skills := make([]model.Skill, 0, len(current))
		for _, sk := range current {
			if sk.ID != skillID {
				skills = append(skills, sk)
			}
		}
		return skills, len(skills) != len(current)
	})
}

// editSkills rewrites one skill list while the store holds the profile's
// write lock.
func (s *profileService) editSkills(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList, edit func([]model.Skill) ([]model.Skill, bool)) (*model.Profile, error) {
	if actor.Banned {
		return nil, apperrors.ErrActorBanned
	}
	if !CanEditProfile(actor.UserID, id) {
		return nil, apperrors.ErrForbidden
	}

	var unchanged *model.Profile
	updated, err := s.repo.Mutate(ctx, id, func(profile *model.Profile) error {
		current := append([]model.Skill(nil), profile.Skills(list)...)
		skills, changed := edit(current)
		if !changed {
			unchanged = profile.Clone()
			return errSkillsUnchanged
		}
		model.WithSkills(list, skills).Apply(profile)
		return nil
	})
	if errors.Is(err, errSkillsUnchanged) {
		return unchanged, nil
	}
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

// SetBanned bans or unbans a profile.
func (s *profileService) SetBanned(ctx context.Context, actor model.Actor, id uuid.UUID, banned bool) (*model.Profile, error) {
	return s.UpdateProfile(ctx, actor, id, model.ProfilePatch{Banned: &banned})
}

// Browse lists the profiles the actor can discover whose skills or name
// match term.
func (s *profileService) Browse(ctx context.Context, actor model.Actor, term string) ([]model.Profile, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	visible := BrowsableProfiles(actor.UserID, all)
	matches := make([]model.Profile, 0, len(visible))
	for i := range visible {
		if MatchSkill(&visible[i], term) || MatchName(&visible[i], term) {
			matches = append(matches, visible[i])
		}
	}
	return matches, nil
}

// ListAll returns every profile, including private and banned ones. Admin only.
func (s *profileService) ListAll(ctx context.Context, actor model.Actor) ([]model.Profile, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.List(ctx)
}

// normalizeSkills validates a replacement skill list, assigns IDs to new
// entries and drops duplicates.
func normalizeSkills(skills []model.Skill) ([]model.Skill, error) {
	out := make([]model.Skill, 0, len(skills))
	for _, sk := range skills {
		sk.Name = strings.TrimSpace(sk.Name)
		if sk.Name == "" || !sk.Category.Valid() {
			return nil, apperrors.ErrInvalidSkill
		}
		if sk.ID == "" {
			sk.ID = uuid.NewString()
		}
		duplicate := false
		for _, kept := range out {
			if kept.SameAs(sk) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, sk)
		}
	}
	return out, nil
}
