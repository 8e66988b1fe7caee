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

	_ "github.com/noah-isme/naac-sar-api/api/swagger"
	"github.com/noah-isme/naac-sar-api/internal/handler"
	"github.com/noah-isme/naac-sar-api/internal/repository"
	"github.com/noah-isme/naac-sar-api/internal/service"
	"github.com/noah-isme/naac-sar-api/pkg/cache"
	"github.com/noah-isme/naac-sar-api/pkg/config"
	"github.com/noah-isme/naac-sar-api/pkg/database"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

// @title NAAC SAR API
// @version 1.0.0
// @description Self-assessment report submissions, metric scoring and accreditation grade rollups
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
		logr.Info("schema applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	criteriaRepo := repository.NewCriteriaMasterRepository(db)
	iiqaRepo := repository.NewIIQARepository(db)
	profileRepo := repository.NewExtendedProfileRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)
	iiqaSvc := service.NewIIQAService(iiqaRepo, cacheSvc, validate, logr, service.IIQAConfig{
		SubmissionSpan: cfg.Assessment.SubmissionSpan,
		ScoringSpan:    cfg.Assessment.ScoringSpan,
	})
	profileSvc := service.NewExtendedProfileService(profileRepo, iiqaSvc, cacheSvc, validate, logr)
	criteriaSvc := service.NewCriteriaMasterService(criteriaRepo, validate, logr)
	responseSvc := service.NewResponseService(responseRepo, criteriaRepo, iiqaSvc, metrics, logr, service.ResponseConfig{
		MinYear: cfg.Assessment.MinYear,
	})
	scoreSvc := service.NewScoreService(scoreRepo, criteriaRepo, metricRepo, iiqaSvc, cacheSvc, metrics, logr)
	rollupSvc := service.NewRollupService(scoreRepo, iiqaSvc, cacheSvc, logr)
	recomputeSvc := service.NewRecomputeService(scoreSvc, rollupSvc, validate, metrics, logr, service.RecomputeConfig{
		Workers:    cfg.Recompute.Workers,
		BufferSize: cfg.Recompute.BufferSize,
		MaxRetries: cfg.Recompute.MaxRetries,
		RetryDelay: cfg.Recompute.RetryDelay,
		JobTimeout: cfg.Recompute.JobTimeout,
	})
	reportSvc := service.NewScoreReportService(scoreSvc)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	checks := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error { return database.Ready(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	if !cfg.Metrics.Enabled {
		metrics = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recomputeSvc.Start(ctx)
	defer recomputeSvc.Stop()

	r := newRouter(cfg, logr, routeDeps{
		tokens:    tokenSvc,
		metrics:   metrics,
		responses: handler.NewCriteriaResponseHandler(responseSvc, scoreSvc),
		iiqa:      handler.NewIIQAHandler(iiqaSvc),
		profiles:  handler.NewExtendedProfileHandler(profileSvc),
		criteria:  handler.NewCriteriaMasterHandler(criteriaSvc),
		scores:    handler.NewScoreHandler(scoreSvc, rollupSvc, recomputeSvc, reportSvc),
		ops:       handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
