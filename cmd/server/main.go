package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/salvo/internal/auth"
	"github.com/freeeve/salvo/internal/config"
	"github.com/freeeve/salvo/internal/handler"
	"github.com/freeeve/salvo/internal/logger"
	"github.com/freeeve/salvo/internal/middleware"
	"github.com/freeeve/salvo/internal/repository/postgres"
	redisrepo "github.com/freeeve/salvo/internal/repository/redis"
	"github.com/freeeve/salvo/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.DevMode)
	log.Info().
		Str("port", cfg.Port).
		Dur("estimateCacheTTL", cfg.EstimateCacheTTL).
		Int("plannerWorkers", cfg.PlannerWorkers).
		Bool("devMode", cfg.DevMode).
		Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	if cfg.MigrationsDir != "" {
		if err := postgres.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.MigrationsDir).Msg("Migrations failed")
		}
	}

	// Redis
	redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Repos
	weaponRepo := postgres.NewWeaponRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	catalogSvc := service.NewCatalogService(weaponRepo)
	boardSvc := service.NewBoardService(redisClient)
	estimateSvc := service.NewEstimateService(catalogSvc, redisClient, redisClient, wsHub, service.EstimateOptions{
		CacheTTL:        cfg.EstimateCacheTTL,
		PlannerWorkers:  cfg.PlannerWorkers,
		UseExtremeRange: cfg.UseExtremeRange,
		UseLOSRange:     cfg.UseLOSRange,
	})

	// Handlers
	authHandler := handler.NewAuthHandler(jwtMgr, cfg.ClientSecrets, cfg.DevMode)
	if len(cfg.ClientSecrets) == 0 && !cfg.DevMode {
		log.Warn().Msg("No CLIENT_SECRETS configured; no client can obtain a token")
	}
	estimateHandler := handler.NewEstimateHandler(estimateSvc)
	weaponHandler := handler.NewWeaponHandler(catalogSvc)
	boardHandler := handler.NewBoardHandler(boardSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)
	healthHandler := handler.NewHealthHandler(map[string]handler.CheckFunc{
		"postgres": db.PingContext,
		"redis":    redisClient.Ping,
	})

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.Handle("GET /healthz", healthHandler)

	// Auth (public)
	mux.HandleFunc("POST /auth/token", authHandler.Token)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("POST /estimates", estimateHandler.Estimate)
	api.HandleFunc("POST /plans", estimateHandler.Plan)
	api.HandleFunc("GET /weapons", weaponHandler.ListWeapons)
	api.HandleFunc("GET /weapons/{name}", weaponHandler.GetWeapon)
	api.HandleFunc("PUT /games/{id}/board", boardHandler.PutBoard)
	api.HandleFunc("GET /games/{id}/board", boardHandler.GetBoard)
	api.HandleFunc("DELETE /games/{id}/board", boardHandler.DeleteBoard)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
