package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillhub/internal/auth"
	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

const actorContextKey = "actor"

// ActorResolver turns an authenticated profile ID into the current actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (model.Actor, error)
}

// RequireActor runs after the JWT middleware. It rejects refresh tokens and
// loads the acting profile for the handlers behind it.
func RequireActor(resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unauthorized("missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.TokenType != auth.TokenTypeAccess {
				return unauthorized("invalid token")
			}
			userID, err := claims.ProfileID()
			if err != nil {
				return unauthorized("invalid token")
			}

			actor, err := resolver.ResolveActor(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, apperrors.ErrProfileNotFound) {
					return unauthorized("unknown profile")
				}
				return mapError(err)
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// actorFrom returns the actor placed in the context by RequireActor.
func actorFrom(c echo.Context) (model.Actor, error) {
	actor, ok := c.Get(actorContextKey).(model.Actor)
	if !ok {
		return model.Actor{}, unauthorized("not authenticated")
	}
	return actor, nil
}

func mapError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}
	return nil
}

func profileIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid profile id", "INVALID_UUID")
	}
	return id, nil
}

func swapIDParam(c echo.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		return 0, badRequest("invalid swap request id", "INVALID_ID")
	}
	return id, nil
}
