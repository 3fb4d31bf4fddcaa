package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ehs-honor/honor-site-api/api/swagger"
	"github.com/ehs-honor/honor-site-api/internal/handler"
	"github.com/ehs-honor/honor-site-api/internal/middleware"
	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/repository"
	"github.com/ehs-honor/honor-site-api/internal/service"
	"github.com/ehs-honor/honor-site-api/pkg/cache"
	"github.com/ehs-honor/honor-site-api/pkg/config"
	"github.com/ehs-honor/honor-site-api/pkg/database"
	"github.com/ehs-honor/honor-site-api/pkg/logger"
	corsmiddleware "github.com/ehs-honor/honor-site-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ehs-honor/honor-site-api/pkg/middleware/requestid"
)

// @title Honor Site API
// @version 1.0.0
// @description Backend for the school honor code community portal
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API stays up without Redis; role lookups just skip the cache.
		logr.Sugar().Warnw("redis unavailable, role cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	helpRepo := repository.NewHelpRequestRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Background workers.
	metricsService := service.NewMetricsService()
	auditRecorder := service.NewAuditRecorder(userRepo, cfg.Audit, logr)
	auditRecorder.Start(ctx)
	defer auditRecorder.Stop()

	janitor := service.NewSessionJanitor(userRepo, metricsService, cfg.Sessions.JanitorInterval, logr)
	janitor.Start(ctx)
	defer janitor.Stop()

	// Services.
	roleResolver := service.NewRoleResolver(userRepo, cacheRepo, metricsService, logr, cfg.Roles.CacheTTL)
	oauthProvider := service.NewHTTPOAuthProvider(service.OAuthProviderConfig{
		TokenURL:     cfg.Auth.OAuthTokenURL,
		UserInfoURL:  cfg.Auth.OAuthUserInfoURL,
		ClientID:     cfg.Auth.OAuthClientID,
		ClientSecret: cfg.Auth.OAuthClientSecret,
		RedirectURL:  cfg.Auth.OAuthRedirectURL,
	})
	authService := service.NewAuthService(userRepo, oauthProvider, roleResolver, auditRecorder, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		AllowedEmailDomain: cfg.Auth.AllowedEmailDomain,
		SingleSession:      cfg.Auth.SingleSession,
	})
	questionService := service.NewQuestionService(questionRepo, answerRepo, auditRecorder, nil, logr)
	feedbackService := service.NewFeedbackService(feedbackRepo, nil, logr)
	helpService := service.NewHelpService(helpRepo, auditRecorder, nil, logr)
	reportService := service.NewReportService(reportRepo, auditRecorder, nil, logr)
	exportService := service.NewExportService(questionService, feedbackService, helpService, reportService, cfg.Exports.Enabled, logr)
	contentService := service.NewContentService()

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, cfg.Auth.AppHomeURL, cfg.Auth.AppLoginURL)
	questionHandler := handler.NewQuestionHandler(questionService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	helpHandler := handler.NewHelpHandler(helpService)
	reportHandler := handler.NewReportHandler(reportService)
	committeeHandler := handler.NewCommitteeHandler(questionService, feedbackService, helpService, reportService, exportService)
	contentHandler := handler.NewContentHandler(contentService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/callback", authHandler.Callback)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	auth.GET("/session", middleware.JWT(authService), authHandler.Session)

	api.GET("/pages/:id", middleware.OptionalJWT(authService), contentHandler.Page)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.GET("/questions", questionHandler.List)
	authed.POST("/questions", questionHandler.Create)
	authed.GET("/feedback", feedbackHandler.List)
	authed.POST("/feedback", feedbackHandler.Create)
	authed.GET("/help-requests", helpHandler.List)
	authed.POST("/help-requests", helpHandler.Create)
	authed.GET("/reports", reportHandler.List)
	authed.POST("/reports", reportHandler.Create)

	committee := authed.Group("/committee")
	committee.Use(middleware.RequireRoles(roleResolver, models.RoleCommittee, models.RoleAdmin))

	committee.GET("/questions", committeeHandler.Questions)
	committee.GET("/feedback", committeeHandler.Feedback)
	committee.GET("/help-requests", committeeHandler.HelpRequests)
	committee.GET("/reports", committeeHandler.Reports)
	committee.POST("/questions/:id/publish", committeeHandler.PublishQuestion)
	committee.POST("/questions/:id/unpublish", committeeHandler.UnpublishQuestion)
	committee.POST("/questions/:id/answers", committeeHandler.AddAnswer)
	committee.DELETE("/answers/:id", committeeHandler.DeleteAnswer)
	committee.PATCH("/help-requests/:id/status", committeeHandler.UpdateHelpStatus)
	committee.PATCH("/reports/:id/status", committeeHandler.UpdateReportStatus)
	committee.GET("/export/:tab", committeeHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
