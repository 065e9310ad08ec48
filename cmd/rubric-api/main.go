package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/behavior-rubric/api/swagger"
	"github.com/noah-isme/behavior-rubric/internal/handler"
	"github.com/noah-isme/behavior-rubric/internal/middleware"
	"github.com/noah-isme/behavior-rubric/internal/service"
	"github.com/noah-isme/behavior-rubric/internal/store"
	"github.com/noah-isme/behavior-rubric/pkg/config"
	"github.com/noah-isme/behavior-rubric/pkg/export"
	"github.com/noah-isme/behavior-rubric/pkg/logger"
	corsmiddleware "github.com/noah-isme/behavior-rubric/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/behavior-rubric/pkg/middleware/requestid"
	"github.com/noah-isme/behavior-rubric/pkg/storage"
)

// @title Behavior Rubric API
// @version 0.1.0
// @description Local single-user daily behavior scoring
// @BasePath /
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

	snapshots := store.New(cfg.Snapshot.Path, logr)
	metricsSvc := service.NewMetricsService(snapshots.Counts)
	snapshots.SetSaveObserver(metricsSvc.ObserveSnapshotSave)

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare exports directory", "error", err)
	}
	if err := exportStorage.Prune(cfg.Exports.Keep); err != nil {
		logr.Sugar().Warnw("failed to prune old exports", "error", err)
	}

	validate := validator.New()
	settingsSvc := service.NewSettingsService(snapshots, validate, logr)
	rosterSvc := service.NewRosterService(snapshots, validate, logr)
	recordSvc := service.NewRecordService(snapshots, validate, logr)
	exportSvc := service.NewExportService(snapshots, exportStorage, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	recordHandler := handler.NewRecordHandler(recordSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/settings", settingsHandler.Get)
		api.POST("/settings/import", settingsHandler.Import)
		api.POST("/settings/categories", settingsHandler.AddCategory)
		api.PATCH("/settings/categories/:id", settingsHandler.RenameCategory)
		api.DELETE("/settings/categories/:id", settingsHandler.RemoveCategory)
		api.POST("/settings/periods", settingsHandler.AddPeriod)
		api.PATCH("/settings/periods/:id", settingsHandler.RenamePeriod)
		api.DELETE("/settings/periods/:id", settingsHandler.RemovePeriod)
		api.PUT("/settings/scale", settingsHandler.SetScale)
		api.PUT("/settings/scale/labels/:level", settingsHandler.SetScaleLabel)
		api.PUT("/settings/goal", settingsHandler.SetGoal)

		api.GET("/students", rosterHandler.List)
		api.POST("/students", rosterHandler.Create)
		api.PATCH("/students/:id", rosterHandler.Rename)
		api.DELETE("/students/:id", rosterHandler.Delete)

		api.GET("/records/:date/:studentId", recordHandler.Get)
		api.PATCH("/records/:date/:studentId", recordHandler.Update)
		api.GET("/records/:date/:studentId/summary", recordHandler.Summary)
		api.GET("/selection", recordHandler.GetSelection)
		api.PUT("/selection", recordHandler.SetSelection)

		api.GET("/exports/record.csv", exportHandler.RecordCSV)
		api.GET("/exports/settings.json", exportHandler.SettingsJSON)
		api.GET("/print", exportHandler.PrintPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
