package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/analysis"
	"github.com/codyseavey/tcg-analyzer/internal/api/handlers"
	"github.com/codyseavey/tcg-analyzer/internal/config"
)

// SetupRouter wires the analysis and import handlers. importer may be nil
// when no card data directory is configured.
func SetupRouter(analyzer *analysis.Analyzer, importer handlers.Importer, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	router.Use(metricsMiddleware())

	// Health and metrics are not rate limited
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analysisHandler := handlers.NewAnalysisHandler(analyzer, logger)
	importHandler := handlers.NewImportHandler(importer, logger)

	api := router.Group("/api")
	api.Use(rateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		cards := api.Group("/cards")
		{
			cards.GET("/features", analysisHandler.ListFeatures)
			cards.GET("/:id/features", analysisHandler.GetFeatures)
			cards.POST("/import", importHandler.ImportCards)
		}

		decks := api.Group("/decks")
		{
			decks.POST("/synergy", analysisHandler.DetectSynergy)
			decks.POST("/report", analysisHandler.DeckReport)
		}

		api.GET("/report", analysisHandler.FullReport)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
