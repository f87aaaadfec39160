package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bomino/newgrader/api/swagger"
	"github.com/bomino/newgrader/internal/handler"
	"github.com/bomino/newgrader/internal/middleware"
	"github.com/bomino/newgrader/internal/repository"
	"github.com/bomino/newgrader/internal/service"
	"github.com/bomino/newgrader/pkg/cache"
	"github.com/bomino/newgrader/pkg/config"
	"github.com/bomino/newgrader/pkg/database"
	"github.com/bomino/newgrader/pkg/export"
	"github.com/bomino/newgrader/pkg/logger"
	corsmiddleware "github.com/bomino/newgrader/pkg/middleware/cors"
	reqidmiddleware "github.com/bomino/newgrader/pkg/middleware/requestid"
)

// @title Gradebook API
// @version 1.0.0
// @description Single-teacher gradebook with spreadsheet auto-grading
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	answerKeyRepo := repository.NewAnswerKeyRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	classSvc := service.NewClassService(classRepo, cacheSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, classRepo, cacheSvc, validate, logr)
	answerKeySvc := service.NewAnswerKeyService(answerKeyRepo, assignmentRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, assignmentRepo, validate, logr)
	autoGradeSvc := service.NewAutoGradeService(assignmentRepo, answerKeyRepo, studentRepo, gradeRepo, metricsSvc, validate, logr)
	settingsSvc := service.NewSettingsService(settingRepo, validate, logr)
	gradebookSvc := service.NewGradebookService(classRepo, studentRepo, assignmentRepo, gradeRepo,
		export.NewCSVExporter(), export.NewXLSXExporter(), export.NewPDFExporter(), logr)
	dashboardSvc := service.NewDashboardService(classRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	answerKeyHandler := handler.NewAnswerKeyHandler(answerKeySvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	autoGradeHandler := handler.NewAutoGradeHandler(autoGradeSvc, cfg.Uploads.MaxFileSizeBytes)
	gradebookHandler := handler.NewGradebookHandler(gradebookSvc, settingsSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

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
	{
		api.GET("/classes", classHandler.List)
		api.POST("/classes", classHandler.Create)
		api.GET("/classes/:id", classHandler.Get)
		api.PUT("/classes/:id", classHandler.Update)
		api.DELETE("/classes/:id", classHandler.Delete)
		api.GET("/classes/:id/gradebook", gradebookHandler.Get)
		api.GET("/classes/:id/gradebook/export", gradebookHandler.Export)
		api.GET("/classes/:id/summary", gradebookHandler.Summary)
		api.POST("/classes/:id/students/import", studentHandler.Import)
		api.GET("/classes/:id/students", studentHandler.ListByClass)
		api.GET("/classes/:id/assignments", assignmentHandler.ListByClass)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)

		api.GET("/assignments", assignmentHandler.List)
		api.POST("/assignments", assignmentHandler.Create)
		api.GET("/assignments/:id", assignmentHandler.Get)
		api.PUT("/assignments/:id", assignmentHandler.Update)
		api.DELETE("/assignments/:id", assignmentHandler.Delete)
		api.GET("/assignments/:id/answer-key", answerKeyHandler.Get)
		api.PUT("/assignments/:id/answer-key", answerKeyHandler.Replace)
		api.DELETE("/assignments/:id/answer-key", answerKeyHandler.Delete)
		api.POST("/assignments/:id/autograde", autoGradeHandler.Grade)
		api.POST("/assignments/:id/autograde/save", autoGradeHandler.Save)

		api.GET("/grades", gradeHandler.List)
		api.POST("/grades", gradeHandler.Upsert)
		api.POST("/grades/bulk", gradeHandler.BulkUpsert)
		api.DELETE("/grades", gradeHandler.Delete)

		api.GET("/settings/grade-scale", settingsHandler.GetGradeScale)
		api.PUT("/settings/grade-scale", settingsHandler.UpdateGradeScale)

		api.GET("/dashboard/counts", dashboardHandler.Counts)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
