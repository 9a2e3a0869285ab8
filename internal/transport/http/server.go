package http

import (
	"github.com/gin-gonic/gin"

	"docrag/internal/bootstrap"
	"docrag/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app.Config, app.StartedAt)
	router.GET("/healthz", healthHandler.Check)

	ragHandler := handler.NewRAGHandler(app.Service, app.Fetcher)
	router.POST("/ingest", ragHandler.Ingest)
	router.POST("/ingest/pdf", ragHandler.UploadPDF)
	router.POST("/ingest/urls", ragHandler.IngestURLs)
	router.POST("/query", ragHandler.Query)

	return router
}
