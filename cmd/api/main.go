package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	_ "github.com/noah-isme/faculty-directory-api/api/swagger"
	"github.com/noah-isme/faculty-directory-api/internal/handler"
	"github.com/noah-isme/faculty-directory-api/internal/repository"
	"github.com/noah-isme/faculty-directory-api/internal/service"
	"github.com/noah-isme/faculty-directory-api/pkg/cache"
	"github.com/noah-isme/faculty-directory-api/pkg/config"
	"github.com/noah-isme/faculty-directory-api/pkg/database"
	"github.com/noah-isme/faculty-directory-api/pkg/jobs"
	"github.com/noah-isme/faculty-directory-api/pkg/logger"
	"github.com/noah-isme/faculty-directory-api/pkg/storage"
)

// @title Faculty Directory API
// @version 1.0.0
// @description University faculty directory: departments, professors, courses, and teaching schedules
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

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logr.Sugar().Fatalw("failed to migrate database", "error", err)
	}

	if cfg.Seed.Enabled {
		if err := database.Seed(db, service.Sha256Hex("admin123")); err != nil {
			logr.Sugar().Fatalw("failed to seed database", "error", err)
		}
	}

	photos, err := storage.NewPhotoStore(cfg.Photos.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init photo store", "error", err)
	}
	cleanupQueue := jobs.New("photo-cleanup", 1, storage.CleanupHandler(photos), logr)
	defer cleanupQueue.Stop()
	photoStore := storage.NewAsyncCleanup(photos, cleanupQueue)

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	departmentSvc := service.NewDepartmentService(departmentRepo, validate, logr, cfg.Departments.DeleteCascade)
	professorSvc := service.NewProfessorService(professorRepo, departmentRepo, photoStore, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, professorRepo, courseRepo, validate, logr)
	authSvc := service.NewAuthService(adminRepo, cfg.JWT, validate, logr)
	exportSvc := service.NewExportService(professorRepo, scheduleRepo, logr)
	metricsSvc := service.NewMetricsService()

	r := handler.NewRouter(handler.RouterConfig{
		Cfg:         cfg,
		Logger:      logr,
		Departments: handler.NewDepartmentHandler(departmentSvc),
		Professors:  handler.NewProfessorHandler(professorSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Schedules:   handler.NewScheduleHandler(scheduleSvc),
		Auth:        handler.NewAuthHandler(authSvc),
		Exports:     handler.NewExportHandler(exportSvc),
		AuthService: authSvc,
		Metrics:     metricsSvc,
		Redis:       redisClient,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
