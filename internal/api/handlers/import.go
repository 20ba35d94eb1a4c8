package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/services"
)

// Importer loads card data into the store
type Importer interface {
	Import(ctx context.Context, download bool) (*services.ImportResult, error)
}

type ImportHandler struct {
	importer Importer
	logger   *zap.Logger
}

func NewImportHandler(importer Importer, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{
		importer: importer,
		logger:   logger,
	}
}

// ImportCards re-reads the local card data. ?download=true fetches the
// data archive when it is missing.
func (h *ImportHandler) ImportCards(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card import is not configured"})
		return
	}

	download := c.Query("download") == "true"
	result, err := h.importer.Import(c.Request.Context(), download)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("card import finished",
		zap.Int("cards", result.Cards),
		zap.Int("files", result.Files),
		zap.Int("skipped", result.SkippedFile))

	c.JSON(http.StatusOK, result)
}
