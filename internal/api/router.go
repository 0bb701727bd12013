package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/majawitosz/tab-backend/internal/api/v1"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/rest/middleware"
)

type Handlers struct {
	Report *v1.ReportHandler
	Health *v1.HealthHandler
}

type RouterOptions struct {
	// MediaDir is served under /media when set. Only the local blob store
	// needs it.
	MediaDir string
	Mode     string
}

func NewRouter(handlers Handlers, opts RouterOptions, log *logger.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	gin.DefaultWriter = log.GetGinLogger()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log),
	)

	router.GET("/health", handlers.Health.Health)

	if opts.MediaDir != "" {
		router.Static("/media", opts.MediaDir)
	}

	reports := router.Group("/api/reports")
	{
		reports.GET("", handlers.Report.ListReports)
		reports.POST("/generate", handlers.Report.GenerateReport)
		reports.GET("/:id", handlers.Report.GetReport)
		reports.GET("/:id/data", handlers.Report.GetReportData)
		reports.GET("/:id/document", handlers.Report.GetReportDocument)
	}

	return router
}
