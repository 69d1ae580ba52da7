package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillhub/internal/service"
)

// AdminHandler serves moderation endpoints.
type AdminHandler struct {
	profiles service.ProfileService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(profiles service.ProfileService) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// ListProfiles godoc
// @Summary List all profiles
// @Description Includes private and banned profiles. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/profiles [get]
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	profiles, err := h.profiles.ListAll(c.Request().Context(), actor)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// Ban godoc
// @Summary Ban a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/profiles/{id}/ban [post]
func (h *AdminHandler) Ban(c echo.Context) error {
	return h.setBanned(c, true)
}

// Unban godoc
// @Summary Unban a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/profiles/{id}/unban [post]
func (h *AdminHandler) Unban(c echo.Context) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c echo.Context, banned bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.SetBanned(c.Request().Context(), actor, id, banned)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
