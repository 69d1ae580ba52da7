package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "skillhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"skillhub/internal/auth"
	"skillhub/internal/cache"
	"skillhub/internal/config"
	"skillhub/internal/db"
	"skillhub/internal/handler"
	"skillhub/internal/metrics"
	"skillhub/internal/repository"
	"skillhub/internal/router"
	"skillhub/internal/service"
	"skillhub/internal/suggest"
)

// @title SkillHub API
// @version 1.0
// @description Skill-swap marketplace: profiles, skill listings, swap requests and moderation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ids, err := repository.NewIDGenerator(cfg.SnowflakeNode)
	if err != nil {
		log.Fatalf("id generator: %v", err)
	}

	var (
		profileRepo repository.ProfileRepository
		swapRepo    repository.SwapRepository
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Println("Using in-memory store; data is lost on restart")
		profileRepo = repository.NewMemoryProfileRepository()
		swapRepo = repository.NewMemorySwapRepository(ids)
	case config.StoreMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("database init: %v", err)
		}
		if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		profileRepo = repository.NewProfileRepository(gormDB)
		swapRepo = repository.NewSwapRepository(gormDB, ids)
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "skillhub:")
	defer cacheClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	var suggester suggest.Suggester
	if cfg.SuggestURL != "" {
		suggester = suggest.NewClient(cfg.SuggestURL, cfg.SuggestAPIKey, cfg.SuggestTimeout)
	} else {
		log.Println("SUGGEST_URL not set; skill suggestions disabled")
	}

	// Initialize services
	authService := service.NewAuthService(profileRepo, jwtService, tokenStore, recorder, logger)
	profileService := service.NewProfileService(profileRepo, cacheClient, recorder, logger)
	swapService := service.NewSwapService(profileRepo, swapRepo, recorder, logger)
	suggestionService := service.NewSuggestionService(profileRepo, suggester, recorder, logger)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Options{
		SigningKey: jwtService.Secret(),
		Actors:     authService,
		Gatherer:   registry,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService, swapService, suggestionService),
		Admin:   handler.NewAdminHandler(profileService),
		Swap:    handler.NewSwapHandler(swapService),
	})

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func swaggerURL(host, port string) string {
	if host == "" {
		host = "localhost:" + port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
