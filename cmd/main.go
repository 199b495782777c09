package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/nnminh-sam/watch-store-backend/internal/app"
	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/controllers"
	"github.com/nnminh-sam/watch-store-backend/internal/middleware"
	"github.com/nnminh-sam/watch-store-backend/internal/repositories"
	"github.com/nnminh-sam/watch-store-backend/internal/services"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

const appName = "watch-store-backend"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig(appName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	cartRepo := repositories.NewCartRepository(application.DB)
	loginRepo := repositories.NewLoginAttemptsRepository(application.DB)
	kvStore := repositories.NewRedisKVStore(application.Redis)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	tokenCodec := services.NewTokenCodec(cfg)
	tokenDenylist := services.NewTokenDenylist(kvStore)
	tokenManager := services.NewTokenManager(cfg, tokenCodec, tokenDenylist)
	mailService := services.NewMailService(cfg)
	cartService := services.NewCartService(cartRepo)

	authService := services.NewAuthService(
		userRepo,
		loginRepo,
		cartService,
		mailService,
		tokenDenylist,
		tokenManager,
		cfg,
	)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService, cfg)
	healthController := controllers.NewHealthController(application)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	// Health
	router.HandleFunc("/health", healthController.HealthCheckHandler).Methods("GET")

	authRouter := router.PathPrefix("/auth").Subrouter()

	// Public endpoints
	authRouter.HandleFunc("/sign-in", authController.SignIn).Methods("POST")
	authRouter.HandleFunc("/sign-up", authController.SignUp).Methods("POST")
	authRouter.HandleFunc("/forgot-password", authController.ForgotPassword).Methods("POST")

	// Protected endpoints require a valid bearer token
	authMW := middleware.AuthMiddleware(tokenManager)

	signOut := authRouter.Path("/sign-out").Subrouter()
	signOut.Use(authMW, middleware.RequireRoles(middleware.OpSignOut))
	signOut.HandleFunc("", authController.SignOut).Methods("GET")

	revoke := authRouter.Path("/revoke-tokens").Subrouter()
	revoke.Use(authMW, middleware.RequireRoles(middleware.OpRevokeTokens))
	revoke.HandleFunc("", authController.RevokeTokens).Methods("POST")

	updatePassword := authRouter.Path("/update-password").Subrouter()
	updatePassword.Use(authMW, middleware.RequireRoles(middleware.OpUpdatePassword))
	updatePassword.HandleFunc("", authController.UpdatePassword).Methods("PATCH")

	//----------------------------------------------------------------------
	// Setup daily cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()

	// stale login-attempt counters
	_, schErr := c.AddFunc("0 3 * * *", func() {
		if e := loginRepo.CleanupStale(context.Background(), 24*time.Hour); e != nil {
			utils.Logger.WithError(e).Error("Scheduled login-attempts cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule login-attempts cleanup job")
	}

	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
