package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/handler"
	"github.com/noah-isme/naac-sar-api/internal/middleware"
	"github.com/noah-isme/naac-sar-api/internal/service"
	"github.com/noah-isme/naac-sar-api/pkg/config"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/naac-sar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/naac-sar-api/pkg/middleware/requestid"
)

type routeDeps struct {
	tokens    middleware.TokenValidator
	metrics   *service.MetricsService
	responses *handler.CriteriaResponseHandler
	iiqa      *handler.IIQAHandler
	profiles  *handler.ExtendedProfileHandler
	criteria  *handler.CriteriaMasterHandler
	scores    *handler.ScoreHandler
	ops       *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if deps.metrics != nil {
		r.Use(middleware.Metrics(deps.metrics))
	}

	r.GET("/health", deps.ops.Health)
	r.GET("/ready", deps.ops.Ready)
	if deps.metrics != nil {
		r.GET("/metrics", deps.ops.Prometheus)
		r.GET("/metrics/system", deps.ops.System)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.Use(middleware.ProtectWrites(deps.tokens, cfg.JWT.AuthRequired))

	deps.responses.Register(api)

	iiqa := api.Group("/iiqa")
	iiqa.POST("/createIIQAForm", deps.iiqa.Create)
	iiqa.GET("/sessions", deps.iiqa.Sessions)
	iiqa.GET("/latest", deps.iiqa.Latest)

	profiles := api.Group("/extendedprofile")
	profiles.POST("/createExtendedProfile", deps.profiles.Create)
	profiles.GET("", deps.profiles.List)

	criteria := api.Group("/criteria")
	criteria.GET("", deps.criteria.List)
	criteria.GET("/:code", deps.criteria.Get)
	criteria.POST("", deps.criteria.Create)
	criteria.PUT("/:id", deps.criteria.Update)
	criteria.DELETE("/:id", deps.criteria.Delete)

	scores := api.Group("/scores")
	scores.GET("", deps.scores.List)
	scores.GET("/subcriteria/:code", deps.scores.SubCriterion)
	scores.GET("/criteria/:id", deps.scores.Criterion)
	scores.GET("/total", deps.scores.Total)
	scores.GET("/summary", deps.scores.Summary)
	scores.GET("/radar", deps.scores.Radar)
	scores.POST("/recompute", deps.scores.Recompute)
	scores.GET("/recompute/:id", deps.scores.RecomputeStatus)
	scores.GET("/export", deps.scores.Export)

	return r
}
