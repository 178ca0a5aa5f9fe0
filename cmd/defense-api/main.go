package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/thesisdesk/defense-api/api/swagger"
	"github.com/thesisdesk/defense-api/internal/handler"
	"github.com/thesisdesk/defense-api/internal/middleware"
	"github.com/thesisdesk/defense-api/internal/models"
	"github.com/thesisdesk/defense-api/internal/repository"
	"github.com/thesisdesk/defense-api/internal/service"
	"github.com/thesisdesk/defense-api/pkg/cache"
	"github.com/thesisdesk/defense-api/pkg/config"
	"github.com/thesisdesk/defense-api/pkg/database"
	"github.com/thesisdesk/defense-api/pkg/logger"
	corsmiddleware "github.com/thesisdesk/defense-api/pkg/middleware/cors"
	reqidmiddleware "github.com/thesisdesk/defense-api/pkg/middleware/requestid"
)

// @title Thesis Defense API
// @version 1.0.0
// @description Evaluation aggregation and access control for thesis defenses
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Scores.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, score cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scores.CacheTTL, logr, cfg.Scores.CacheEnabled)

	evaluationRepo := repository.NewEvaluationRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	qnaRepo := repository.NewQnARepository(db)
	committeeRepo := repository.NewCommitteeRepository(db)

	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})
	accessSvc := service.NewAccessService(committeeRepo, logr)
	scoreSvc := service.NewScoreService(evaluationRepo, cacheSvc, logr)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, accessSvc, scoreSvc, nil, logr)
	summarySvc := service.NewSummaryService(summaryRepo, accessSvc, logr)
	qnaSvc := service.NewQnAService(qnaRepo, committeeRepo, accessSvc, nil, logr)
	taskSvc := service.NewTaskService(committeeRepo, evaluationRepo, logr)
	exportSvc := service.NewExportService(evaluationRepo, committeeRepo, nil, nil, logr)

	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc, scoreSvc, taskSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc)
	qnaHandler := handler.NewQnAHandler(qnaSvc, accessSvc)
	committeeHandler := handler.NewCommitteeHandler(committeeRepo)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.POST("/evaluations", evaluationHandler.Submit)
		api.GET("/evaluations", evaluationHandler.ListByTopic)
		api.GET("/evaluators/:id/tasks", evaluationHandler.Tasks)

		api.GET("/topics/:topicId/final-score", evaluationHandler.FinalScore)
		api.GET("/topics/:topicId/summaries/:role", summaryHandler.Get)
		api.PUT("/topics/:topicId/summaries/:role", summaryHandler.Upsert)
		api.POST("/summaries/migrate-legacy", middleware.RequireRoles(models.RoleAdmin), summaryHandler.MigrateLegacy)

		api.GET("/topics/:topicId/qna", qnaHandler.List)
		api.POST("/topics/:topicId/qna", qnaHandler.AddQuestion)
		api.PUT("/qna/:id/answer", qnaHandler.SetAnswer)
		api.GET("/topics/:topicId/secretary-access", qnaHandler.SecretaryAccess)

		api.GET("/topics/:topicId/committee", committeeHandler.Members)
		api.GET("/topics/:topicId/session", committeeHandler.Session)

		if cfg.Export.Enabled {
			api.GET("/topics/:topicId/score-sheet", exportHandler.ScoreSheet)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
