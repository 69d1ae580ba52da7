package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillhub/internal/model"
	"skillhub/internal/service"
)

// SwapHandler serves swap request endpoints.
type SwapHandler struct {
	swaps service.SwapService
}

// NewSwapHandler creates a new swap handler.
func NewSwapHandler(swaps service.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

// CreateSwapRequest proposes a swap to another profile.
type CreateSwapRequest struct {
	ToUserID       string `json:"to_user_id" validate:"required,uuid"`
	OfferedSkillID string `json:"offered_skill_id" validate:"required"`
	WantedSkillID  string `json:"wanted_skill_id" validate:"required"`
	Message        string `json:"message" validate:"max=1000"`
}

// RateSwapRequest rates the other participant of a completed swap.
type RateSwapRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// CreateSwap godoc
// @Summary Create a swap request
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSwapRequest true "Swap request"
// @Success 201 {object} model.SwapRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /swaps [post]
func (h *SwapHandler) CreateSwap(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateSwapRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		return badRequest("invalid to_user_id", "INVALID_UUID")
	}

	swap, err := h.swaps.CreateRequest(c.Request().Context(), actor, service.CreateSwapInput{
		ToUserID:       toUserID,
		OfferedSkillID: req.OfferedSkillID,
		WantedSkillID:  req.WantedSkillID,
		Message:        req.Message,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, swap)
}

// ListSwaps godoc
// @Summary List my swap requests
// @Description Newest first. status takes a comma-separated list of statuses.
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {array} model.SwapRequest
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps [get]
func (h *SwapHandler) ListSwaps(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var statuses []model.SwapStatus
	for _, s := range strings.Split(c.QueryParam("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, model.SwapStatus(s))
		}
	}

	swaps, err := h.swaps.List(c.Request().Context(), actor, statuses...)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, swaps)
}

// Inbox godoc
// @Summary My swap requests grouped by state
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Inbox
// @Router /swaps/inbox [get]
func (h *SwapHandler) Inbox(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	inbox, err := h.swaps.Inbox(c.Request().Context(), actor)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inbox)
}

// GetSwap godoc
// @Summary Get a swap request
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} model.SwapRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /swaps/{id} [get]
func (h *SwapHandler) GetSwap(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := swapIDParam(c)
	if err != nil {
		return err
	}
	swap, err := h.swaps.Get(c.Request().Context(), actor, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, swap)
}

type transitionFunc func(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)

func (h *SwapHandler) transition(c echo.Context, fn transitionFunc) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := swapIDParam(c)
	if err != nil {
		return err
	}
	swap, err := fn(c.Request().Context(), actor, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, swap)
}

// Accept godoc
// @Summary Accept a pending swap request
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} model.SwapRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps/{id}/accept [post]
func (h *SwapHandler) Accept(c echo.Context) error {
	return h.transition(c, h.swaps.Accept)
}

// Reject godoc
// @Summary Reject a pending swap request
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} model.SwapRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps/{id}/reject [post]
func (h *SwapHandler) Reject(c echo.Context) error {
	return h.transition(c, h.swaps.Reject)
}

// Cancel godoc
// @Summary Cancel a pending swap request
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} model.SwapRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps/{id}/cancel [post]
func (h *SwapHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.swaps.Cancel)
}

// Complete godoc
// @Summary Mark an accepted swap as completed
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} model.SwapRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps/{id}/complete [post]
func (h *SwapHandler) Complete(c echo.Context) error {
	return h.transition(c, h.swaps.Complete)
}

// Rate godoc
// @Summary Rate a completed swap
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Param request body RateSwapRequest true "Rating from 1 to 5"
// @Success 200 {object} model.SwapRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps/{id}/rating [post]
func (h *SwapHandler) Rate(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := swapIDParam(c)
	if err != nil {
		return err
	}
	var req RateSwapRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	swap, err := h.swaps.Rate(c.Request().Context(), actor, id, req.Rating, strings.TrimSpace(req.Feedback))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, swap)
}
