package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/molisezx/luct-reporting/api/swagger"
	"github.com/molisezx/luct-reporting/internal/handler"
	"github.com/molisezx/luct-reporting/internal/middleware"
	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/repository"
	"github.com/molisezx/luct-reporting/internal/service"
	"github.com/molisezx/luct-reporting/internal/session"
	"github.com/molisezx/luct-reporting/pkg/config"
	"github.com/molisezx/luct-reporting/pkg/database"
	"github.com/molisezx/luct-reporting/pkg/logger"
	corsmiddleware "github.com/molisezx/luct-reporting/pkg/middleware/cors"
	reqidmiddleware "github.com/molisezx/luct-reporting/pkg/middleware/requestid"
	"github.com/molisezx/luct-reporting/pkg/storage"
)

// @title LUCT Reporting API
// @version 1.0.0
// @description Role-scoped lecture reporting service
// @BasePath /api
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

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Bootstrap(bootCtx, db); err != nil {
		logr.Sugar().Fatalw("failed to bootstrap schema", "error", err)
	}

	sessions, err := newSessionRegistry(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init session registry", "error", err)
	}

	exportStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, sessions, auditRepo, metricsSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, facultyRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, logr)
	reportSvc := service.NewReportService(reportRepo, classRepo, validate, logr)
	ratingSvc := service.NewRatingService(ratingRepo, reportRepo, enrollmentRepo, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, reportRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, userRepo, validate, logr)
	exportSvc := service.NewExportService(reportRepo, exportStore, cfg.Export, metricsSvc, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	classHandler := handler.NewClassHandler(classSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.SessionAuth(sessions, userRepo, logr))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/faculties", courseHandler.ListFaculties)
	protected.GET("/courses", courseHandler.List)
	protected.POST("/courses",
		middleware.Audit(auditRepo, models.AuditActionCreate, "courses"),
		courseHandler.Create)
	protected.GET("/principal/courses", courseHandler.Summaries)
	protected.GET("/classes", classHandler.List)

	protected.GET("/reports", reportHandler.List)
	protected.POST("/reports",
		middleware.Audit(auditRepo, models.AuditActionCreate, "reports"),
		reportHandler.Create)
	// Legacy alias kept for the student dashboard.
	protected.GET("/student/reports", reportHandler.List)
	protected.GET("/search", reportHandler.Search)
	protected.GET("/monitoring", reportHandler.Monitoring)

	protected.POST("/reports/export", exportHandler.Export)
	protected.GET("/reports/export/download", exportHandler.Download)

	protected.POST("/ratings",
		middleware.Audit(auditRepo, models.AuditActionCreate, "ratings"),
		ratingHandler.Submit)
	protected.GET("/reports/:id/ratings", ratingHandler.ListByReport)

	protected.POST("/feedback",
		middleware.Audit(auditRepo, models.AuditActionCreate, "feedback"),
		feedbackHandler.Submit)
	protected.GET("/reports/:id/feedback", feedbackHandler.ListByReport)

	protected.POST("/assignments",
		middleware.Audit(auditRepo, models.AuditActionCreate, "course_assignments"),
		assignmentHandler.Assign)
	protected.GET("/program/lecturers", assignmentHandler.ListLecturers)

	if cfg.Export.CleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Export.CleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				exportSvc.Cleanup()
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "session_store", cfg.Session.Store)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newSessionRegistry(cfg *config.Config) (session.Registry, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return session.NewRedisRegistry(client, cfg.Session.TTL), nil
	case config.SessionStoreMemory, "":
		return session.NewMemoryRegistry(cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
