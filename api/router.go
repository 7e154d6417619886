package api

import (
	"net/http"

	"api_ledger/internal/ledger"
	"api_ledger/internal/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitRoutes registers the ledger and upload endpoints on the given Gin
// engine.
func InitRoutes(e *gin.Engine, ledgerService *ledger.Service, uploadService *uploads.Service, logger *zap.Logger) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	ledgerHandler := NewLedgerHandler(ledgerService, logger)
	uploadHandler := NewUploadHandler(uploadService, logger)

	sot := e.Group("/api/sot")
	sot.GET("", ledgerHandler.handleList)
	sot.GET("/summary", ledgerHandler.handleSummary)
	sot.GET("/export", ledgerHandler.handleExport)
	sot.POST("/rows", ledgerHandler.handleAddRow)
	sot.GET("/rows/:id", ledgerHandler.handleGetRow)
	sot.PATCH("/rows/:id", ledgerHandler.handleUpdateRow)
	sot.POST("/import", ledgerHandler.handleImport)
	sot.POST("/save", ledgerHandler.handleSave)
	sot.POST("/reload", ledgerHandler.handleReload)

	e.POST("/api/upload", uploadHandler.handleUpload)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
