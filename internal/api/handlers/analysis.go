package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/analysis"
	"github.com/codyseavey/tcg-analyzer/internal/models"
	"github.com/codyseavey/tcg-analyzer/internal/store"
)

// maxDeckBodyBytes bounds decklist request bodies
const maxDeckBodyBytes = 1 << 20

type AnalysisHandler struct {
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

func NewAnalysisHandler(analyzer *analysis.Analyzer, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// ListFeatures returns the features of every card in the store
func (h *AnalysisHandler) ListFeatures(c *gin.Context) {
	features, err := h.analyzer.ExtractFeatures(c.Request.Context(), "")
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"features": features,
		"count":    len(features),
	})
}

// GetFeatures returns the features of a single card
func (h *AnalysisHandler) GetFeatures(c *gin.Context) {
	id := c.Param("id")

	features, err := h.analyzer.ExtractFeatures(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, features[0])
}

// DetectSynergy scores a decklist posted as JSON or YAML
func (h *AnalysisHandler) DetectSynergy(c *gin.Context) {
	deck, ok := h.bindDecklist(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	features, err := h.analyzer.ExtractFeatures(ctx, "")
	if err != nil {
		h.writeError(c, err)
		return
	}

	synergy, err := h.analyzer.DetectSynergies(ctx, deck, features)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, synergy)
}

// DeckReport builds a report over the deck's cards with the synergy analysis attached
func (h *AnalysisHandler) DeckReport(c *gin.Context) {
	deck, ok := h.bindDecklist(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	features, err := h.analyzer.ExtractFeatures(ctx, "")
	if err != nil {
		h.writeError(c, err)
		return
	}

	synergy, err := h.analyzer.DetectSynergies(ctx, deck, features)
	if err != nil {
		h.writeError(c, err)
		return
	}

	report, err := h.analyzer.GenerateReport(deck.FilterFeatures(features), synergy)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// FullReport builds a report over every card without synergy
func (h *AnalysisHandler) FullReport(c *gin.Context) {
	features, err := h.analyzer.ExtractFeatures(c.Request.Context(), "")
	if err != nil {
		h.writeError(c, err)
		return
	}

	report, err := h.analyzer.GenerateReport(features, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) bindDecklist(c *gin.Context) (models.Decklist, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDeckBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}

	deck, err := models.ParseDecklist(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return deck, true
}

func (h *AnalysisHandler) writeError(c *gin.Context, err error) {
	writeError(c, h.logger, err)
}

// writeError maps engine and store errors onto HTTP statuses
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var storeErr *store.StoreError

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &storeErr):
		logger.Error("card store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card store unavailable"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request canceled", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled"})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
