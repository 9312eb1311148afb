package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusgrid/campusgrid-api/api/swagger"
	"github.com/campusgrid/campusgrid-api/internal/handler"
	"github.com/campusgrid/campusgrid-api/internal/middleware"
	"github.com/campusgrid/campusgrid-api/internal/repository"
	"github.com/campusgrid/campusgrid-api/internal/scheduling"
	"github.com/campusgrid/campusgrid-api/internal/service"
	"github.com/campusgrid/campusgrid-api/pkg/cache"
	"github.com/campusgrid/campusgrid-api/pkg/config"
	"github.com/campusgrid/campusgrid-api/pkg/database"
	"github.com/campusgrid/campusgrid-api/pkg/logger"
	corsmiddleware "github.com/campusgrid/campusgrid-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgrid/campusgrid-api/pkg/middleware/requestid"
)

// @title CampusGrid API
// @version 1.0.0
// @description Timetable slot allocation and faculty absence management
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: without it the grid and dashboard reads just skip
	// the cache.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	timetableRepo := repository.NewTimetableRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	reallocationRepo := repository.NewReallocationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metricsSvc,
		cfg.Timetable.GridCacheTTL,
		logr,
		redisClient != nil,
	)

	allocator := scheduling.NewAllocator(scheduling.SessionWindows{
		Morning:   scheduling.Window{Start: cfg.Sessions.MorningStart, End: cfg.Sessions.MorningEnd},
		Afternoon: scheduling.Window{Start: cfg.Sessions.AfternoonStart, End: cfg.Sessions.AfternoonEnd},
	})

	timetableSvc := service.NewTimetableService(
		timetableRepo, timeSlotRepo, sectionRepo, courseRepo, facultyRepo, classroomRepo,
		allocator, db, cacheSvc, metricsSvc, nil, logr,
	)
	absenceSvc := service.NewAbsenceService(
		absenceRepo, reallocationRepo, facultyRepo, timetableRepo, db, metricsSvc, nil, logr,
	)
	facultySvc := service.NewFacultyService(facultyRepo, nil, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, nil, logr)
	sectionSvc := service.NewSectionService(sectionRepo, nil, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(sectionRepo, timetableRepo, timeSlotRepo, logr)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

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
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/timetable", timetableHandler.List)
		api.POST("/timetable", timetableHandler.Create)
		api.DELETE("/timetable/:id", timetableHandler.Delete)
		api.GET("/timetable/grid", timetableHandler.Grid)
		api.GET("/timetable/slots", timetableHandler.ListSlots)
		api.GET("/timetable/faculty/:id", timetableHandler.ListByFaculty)

		api.GET("/absences", absenceHandler.List)
		api.POST("/absences", absenceHandler.Report)
		api.GET("/absences/:id/impact", absenceHandler.Impact)
		api.POST("/absences/:id/process", absenceHandler.Process)

		api.GET("/faculty", facultyHandler.List)
		api.POST("/faculty", facultyHandler.Create)
		api.GET("/faculty/:id", facultyHandler.Get)
		api.PUT("/faculty/:id", facultyHandler.Update)
		api.DELETE("/faculty/:id", facultyHandler.Delete)

		api.GET("/classrooms", classroomHandler.List)
		api.POST("/classrooms", classroomHandler.Create)
		api.PUT("/classrooms/:id", classroomHandler.Update)
		api.DELETE("/classrooms/:id", classroomHandler.Delete)

		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/sections", sectionHandler.List)
		api.POST("/sections", sectionHandler.Create)
		api.GET("/sections/:id", sectionHandler.Get)
		api.PUT("/sections/:id", sectionHandler.Update)
		api.DELETE("/sections/:id", sectionHandler.Delete)

		api.GET("/departments", departmentHandler.List)
		api.POST("/departments", departmentHandler.Create)
		api.PUT("/departments/:id", departmentHandler.Update)
		api.DELETE("/departments/:id", departmentHandler.Delete)

		if cfg.Dashboard.Enabled {
			api.GET("/dashboard/stats", dashboardHandler.Stats)
		}
		if cfg.Exports.Enabled {
			api.GET("/exports/timetable/:id", exportHandler.SectionTimetable)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
