package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"api_ledger/internal/ledger"
	"api_ledger/internal/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportBaseName is the file name, without extension, of exported tables.
const ExportBaseName = "vista-sot-master-export"

// ledgerHandler implements the HTTP handlers of the working set.
type ledgerHandler struct {
	ledgerService *ledger.Service
	logger        *zap.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledgerService *ledger.Service, logger *zap.Logger) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// handleList handles GET /api/sot.
func (h *ledgerHandler) handleList(ctx *gin.Context) {
	rows := h.ledgerService.List(ctx.Query("q"))
	ctx.JSON(http.StatusOK, gin.H{"rows": rows})
}

// handleAddRow handles POST /api/sot/rows.
func (h *ledgerHandler) handleAddRow(ctx *gin.Context) {
	ctx.JSON(http.StatusCreated, h.ledgerService.AddBlank())
}

// handleGetRow handles GET /api/sot/rows/:id.
func (h *ledgerHandler) handleGetRow(ctx *gin.Context) {
	e, err := h.ledgerService.Get(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
		return
	}
	ctx.JSON(http.StatusOK, e)
}

// handleUpdateRow handles PATCH /api/sot/rows/:id.
func (h *ledgerHandler) handleUpdateRow(ctx *gin.Context) {
	id := ctx.Param("id")
	var req struct {
		Field string `json:"field" binding:"required"`
		Value any    `json:"value"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	updated, err := h.ledgerService.UpdateField(id, req.Field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
		case errors.Is(err, ledger.ErrUnknownField):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrReadOnlyField):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// handleImport handles POST /api/sot/import with a multipart "file".
func (h *ledgerHandler) handleImport(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	format, err := ledger.FormatFromName(header.Filename)
	if err != nil {
		ctx.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open import", zap.String("file", header.Filename), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	defer f.Close()

	n, err := h.ledgerService.Import(f, format)
	if err != nil {
		h.logger.Warn("import rejected", zap.String("file", header.Filename), zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Import failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"imported": n,
		"status":   fmt.Sprintf("Imported %d rows from %s", n, header.Filename),
	})
}

// handleExport handles GET /api/sot/export?format=csv|xlsx.
func (h *ledgerHandler) handleExport(ctx *gin.Context) {
	format, err := ledger.FormatFromName(ctx.DefaultQuery("format", string(ledger.FormatCSV)))
	if err != nil {
		ctx.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.ledgerService.Export(&buf, format); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unable to write table"})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, ExportBaseName, format))
	ctx.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// handleSave handles POST /api/sot/save.
func (h *ledgerHandler) handleSave(ctx *gin.Context) {
	if err := h.ledgerService.Save(ctx.Request.Context()); err != nil {
		h.logger.Error("save failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ledger.ErrUnwritable.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "lines": len(h.ledgerService.List(""))})
}

// handleReload handles POST /api/sot/reload.
func (h *ledgerHandler) handleReload(ctx *gin.Context) {
	n, err := h.ledgerService.Load(ctx.Request.Context())
	if err != nil {
		h.logger.Error("reload failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ledger.ErrUnreadable.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"lines": n})
}

// handleSummary handles GET /api/sot/summary.
func (h *ledgerHandler) handleSummary(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.ledgerService.Summary(ctx.Query("q")))
}

// uploadHandler implements the attachment upload endpoint.
type uploadHandler struct {
	uploadService *uploads.Service
	logger        *zap.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService *uploads.Service, logger *zap.Logger) *uploadHandler {
	return &uploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// handleUpload handles POST /api/upload with a multipart "file".
func (h *uploadHandler) handleUpload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.String("file", header.Filename), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer f.Close()

	up, err := h.uploadService.Store(ctx.Request.Context(), header.Filename, f)
	if err != nil {
		if errors.Is(err, uploads.ErrEmptyName) || errors.Is(err, uploads.ErrNoFile) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	ctx.JSON(http.StatusOK, up)
}
