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
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/repository"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	"github.com/noah-isme/admissions-crm-api/pkg/cache"
	"github.com/noah-isme/admissions-crm-api/pkg/config"
	"github.com/noah-isme/admissions-crm-api/pkg/database"
	"github.com/noah-isme/admissions-crm-api/pkg/jobs"
	"github.com/noah-isme/admissions-crm-api/pkg/logger"
)

// @title Admissions CRM API
// @version 1.0.0
// @description Roster, survey and coverage analytics API for the admissions CRM
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	shutdownTimeout   = 15 * time.Second
	tokenPurgeEvery   = time.Hour
	readHeaderTimeout = 10 * time.Second
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	service.RegisterValidators(validate)

	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	enrollmentRepo := repository.NewEnrollmentTotalRepository(db)
	breakdownRepo := repository.NewBreakdownRepository(db)
	intakeRepo := repository.NewIntakeRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "crm", logr)

	auditSvc := service.NewAuditService(auditRepo, nil, logr)
	auditQueue := jobs.NewQueue("audit", auditSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		Logger:     logr,
	})
	auditSvc.AttachQueue(auditQueue)
	auditQueue.Start(ctx)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled && redisClient != nil)
	catalogSvc := service.NewCatalogService(catalogRepo, cacheSvc, logr)
	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	rosterSvc := service.NewRosterService(rosterRepo, catalogSvc, auditSvc, metricsSvc, validate, logr, cfg.Analytics.DefaultCampaign)
	surveySvc := service.NewSurveyService(surveyRepo, rosterRepo, catalogSvc, auditSvc, metricsSvc, validate, logr, cfg.Analytics.DefaultCampaign)
	enrollmentSvc := service.NewEnrollmentTotalService(enrollmentRepo, catalogSvc, auditSvc, validate, logr, cfg.Analytics.DefaultCampaign)
	intakeSvc := service.NewIntakeService(intakeRepo, catalogSvc, auditSvc, metricsSvc, validate, logr)
	coverageSvc := service.NewCoverageService(surveyRepo, rosterRepo, enrollmentRepo, metricsSvc, logr, cfg.Analytics.DefaultCampaign)
	exportSvc := service.NewExportService(coverageSvc, logr, nil, nil)
	breakdownSvc := service.NewBreakdownService(breakdownRepo, metricsSvc, logr)

	router := newRouter(cfg, logr, routerDeps{
		auth:        authSvc,
		catalog:     catalogSvc,
		roster:      rosterSvc,
		surveys:     surveySvc,
		intake:      intakeSvc,
		enrollments: enrollmentSvc,
		coverage:    coverageSvc,
		exporter:    exportSvc,
		breakdowns:  breakdownSvc,
		metrics:     metricsSvc,
		db:          db,
	})

	go purgeRevokedTokens(ctx, authSvc, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown", zap.Error(err))
	}
	if err := auditQueue.Stop(shutdownCtx); err != nil {
		logr.Warn("audit queue did not drain", zap.Error(err))
	}
}

func purgeRevokedTokens(ctx context.Context, auth *service.AuthService, logr *zap.Logger) {
	ticker := time.NewTicker(tokenPurgeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.PurgeRevokedTokens(ctx); err != nil {
				logr.Warn("revoked token purge failed", zap.Error(err))
			}
		}
	}
}
