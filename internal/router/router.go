package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"skillhub/internal/auth"
	"skillhub/internal/handler"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Admin   *handler.AdminHandler
	Swap    *handler.SwapHandler
}

// Options carries the dependencies the middleware needs.
type Options struct {
	// SigningKey verifies access tokens.
	SigningKey []byte
	// Actors resolves the profile behind a verified token.
	Actors handler.ActorResolver
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	// Secured routes (require an access token)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  opts.SigningKey,
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}),
		handler.RequireActor(opts.Actors),
	)

	secured.GET("/me", h.Profile.Me)

	// Profile routes
	secured.GET("/profiles", h.Profile.Browse)
	secured.GET("/profiles/:id", h.Profile.GetProfile)
	secured.PATCH("/profiles/:id", h.Profile.UpdateProfile)
	secured.POST("/profiles/:id/skills", h.Profile.AddSkill)
	secured.DELETE("/profiles/:id/skills/:list/:skillId", h.Profile.RemoveSkill)
	secured.POST("/profiles/:id/suggestions", h.Profile.Suggest)
	secured.GET("/profiles/:id/rating", h.Profile.Rating)

	// Admin routes
	secured.GET("/admin/profiles", h.Admin.ListProfiles)
	secured.POST("/admin/profiles/:id/ban", h.Admin.Ban)
	secured.POST("/admin/profiles/:id/unban", h.Admin.Unban)

	// Swap routes
	secured.POST("/swaps", h.Swap.CreateSwap)
	secured.GET("/swaps", h.Swap.ListSwaps)
	secured.GET("/swaps/inbox", h.Swap.Inbox)
	secured.GET("/swaps/:id", h.Swap.GetSwap)
	secured.POST("/swaps/:id/accept", h.Swap.Accept)
	secured.POST("/swaps/:id/reject", h.Swap.Reject)
	secured.POST("/swaps/:id/cancel", h.Swap.Cancel)
	secured.POST("/swaps/:id/complete", h.Swap.Complete)
	secured.POST("/swaps/:id/rating", h.Swap.Rate)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
