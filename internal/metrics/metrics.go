// Package metrics provides Prometheus metrics for the card analyzer.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tcg_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Feature Extraction Metrics
	CardsAnalyzedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_analysis_cards_total",
			Help: "Total number of cards run through feature extraction",
		},
	)

	DegradedStagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_analysis_degraded_total",
			Help: "Analysis stages that failed for a card and were recovered",
		},
		[]string{"stage"}, // "parse", "augment", "roles", "pros_cons", "synergy_tags", "recommendations"
	)

	FeatureExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_analysis_extraction_duration_seconds",
			Help:    "Time taken to extract features for one request",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Synergy Metrics
	SynergyDetectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_synergy_detection_duration_seconds",
			Help:    "Time taken to analyze one decklist",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SynergyDeckSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_synergy_deck_size",
			Help:    "Matched physical cards per analyzed decklist",
			Buckets: []float64{0, 10, 20, 40, 60, 80},
		},
	)

	// Keyword Cache Metrics
	KeywordCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_keyword_cache_hits_total",
			Help: "Semantic keyword cache hit count",
		},
	)

	KeywordCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_keyword_cache_misses_total",
			Help: "Semantic keyword cache miss count",
		},
	)

	// Card Database Metrics
	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tcg_card_database_size",
			Help: "Number of cards in the card store",
		},
	)

	CardsImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_cards_imported_total",
			Help: "Total number of cards written by the importer",
		},
	)
)
