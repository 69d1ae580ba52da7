package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/metrics"
	"skillhub/internal/model"
	"skillhub/internal/repository"
	"skillhub/internal/suggest"
)

// SuggestionService proposes new skills for a profile using the external
// text-generation service.
type SuggestionService interface {
	Suggest(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList) ([]string, error)
}

type suggestionService struct {
	repo      repository.ProfileRepository
	suggester suggest.Suggester
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewSuggestionService creates a suggestion service. A nil suggester makes
// every call fail with ErrSuggestionsUnavailable.
func NewSuggestionService(repo repository.ProfileRepository, suggester suggest.Suggester, recorder *metrics.Recorder, logger *slog.Logger) SuggestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &suggestionService{
		repo:      repo,
		suggester: suggester,
		metrics:   recorder,
		logger:    logger.With("component", "suggestion_service"),
	}
}

// Suggest asks for skills to add to the owner's list, based on the skills
// already listed and the profile's interests. Suggestions the list already
// holds are dropped.
func (s *suggestionService) Suggest(ctx context.Context, actor model.Actor, id uuid.UUID, list model.SkillList) (suggestions []string, err error) {
	if !list.Valid() {
		return nil, apperrors.ErrInvalidSkill
	}
	if !CanEditProfile(actor.UserID, id) {
		return nil, apperrors.ErrForbidden
	}
	if s.suggester == nil {
		return nil, apperrors.ErrSuggestionsUnavailable
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	defer func() {
		if s.metrics != nil {
			s.metrics.Suggestion(err)
		}
	}()

	existing := model.SkillNames(profile.Skills(list))
	resp, err := s.suggester.Suggest(ctx, suggest.Request{
		ExistingSkills: existing,
		Interests:      profile.Interests,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "skill suggestion failed", "profile_id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestionFailed, err)
	}

	return freshSuggestions(existing, resp.SuggestedSkills), nil
}

func freshSuggestions(existing, suggested []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(suggested))
	for _, name := range existing {
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	out := make([]string, 0, len(suggested))
	for _, name := range suggested {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
