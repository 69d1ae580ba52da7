package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillhub/internal/model"
	"skillhub/internal/service"
)

// ProfileHandler serves profile, skill and browse endpoints.
type ProfileHandler struct {
	profiles    service.ProfileService
	swaps       service.SwapService
	suggestions service.SuggestionService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles service.ProfileService, swaps service.SwapService, suggestions service.SuggestionService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, swaps: swaps, suggestions: suggestions}
}

// UpdateProfileRequest is a partial profile update. Omitted fields are left
// unchanged. Banned may only be set by admins.
type UpdateProfileRequest struct {
	Name          *string        `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Location      *string        `json:"location,omitempty" validate:"omitempty,max=255"`
	AvatarURL     *string        `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Availability  *string        `json:"availability,omitempty" validate:"omitempty,max=255"`
	Interests     *string        `json:"interests,omitempty" validate:"omitempty,max=2000"`
	IsPublic      *bool          `json:"is_public,omitempty"`
	SkillsOffered *[]model.Skill `json:"skills_offered,omitempty"`
	SkillsWanted  *[]model.Skill `json:"skills_wanted,omitempty"`
	Banned        *bool          `json:"banned,omitempty"`
}

func (r UpdateProfileRequest) patch() model.ProfilePatch {
	return model.ProfilePatch{
		Name:          r.Name,
		Location:      r.Location,
		AvatarURL:     r.AvatarURL,
		Availability:  r.Availability,
		Interests:     r.Interests,
		IsPublic:      r.IsPublic,
		SkillsOffered: r.SkillsOffered,
		SkillsWanted:  r.SkillsWanted,
		Banned:        r.Banned,
	}
}

// AddSkillRequest adds a skill to one of the profile's lists.
type AddSkillRequest struct {
	List     string `json:"list" validate:"required,oneof=offered wanted"`
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,oneof=Tech Creative Business Lifestyle Other"`
}

// SuggestRequest asks for skill suggestions for one list.
type SuggestRequest struct {
	List string `json:"list" validate:"required,oneof=offered wanted"`
}

// SuggestResponse carries skill suggestions.
type SuggestResponse struct {
	SuggestedSkills []string `json:"suggested_skills"`
}

// Me godoc
// @Summary Current profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), actor, actor.UserID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Browse godoc
// @Summary Browse public profiles
// @Description Lists public, non-banned profiles other than the caller whose skills or name match q.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Success 200 {array} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) Browse(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	profiles, err := h.profiles.Browse(c.Request().Context(), actor, c.QueryParam("q"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetProfile godoc
// @Summary Get profile by id
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), actor, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profiles/{id} [patch]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), actor, id, req.patch())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// AddSkill godoc
// @Summary Add a skill
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body AddSkillRequest true "Skill"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /profiles/{id}/skills [post]
func (h *ProfileHandler) AddSkill(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	var req AddSkillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.AddSkill(c.Request().Context(), actor, id,
		model.SkillList(req.List), req.Name, model.SkillCategory(req.Category))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveSkill godoc
// @Summary Remove a skill
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param list path string true "offered or wanted"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /profiles/{id}/skills/{list}/{skillId} [delete]
func (h *ProfileHandler) RemoveSkill(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.RemoveSkill(c.Request().Context(), actor, id,
		model.SkillList(c.Param("list")), c.Param("skillId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Suggest godoc
// @Summary Suggest skills
// @Description Asks the text-generation service for skills to add, based on the list and the profile's interests.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body SuggestRequest true "Target list"
// @Success 200 {object} SuggestResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /profiles/{id}/suggestions [post]
func (h *ProfileHandler) Suggest(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	var req SuggestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	skills, err := h.suggestions.Suggest(c.Request().Context(), actor, id, model.SkillList(req.List))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, SuggestResponse{SuggestedSkills: skills})
}

// Rating godoc
// @Summary Profile rating
// @Description Average rating the profile received across completed swaps.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} service.RatingSummary
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profiles/{id}/rating [get]
func (h *ProfileHandler) Rating(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.profiles.GetProfile(ctx, actor, id); err != nil {
		return mapError(err)
	}
	summary, err := h.swaps.RatingSummary(ctx, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
