package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/codyseavey/tcg-analyzer/internal/analysis"
	"github.com/codyseavey/tcg-analyzer/internal/config"
	"github.com/codyseavey/tcg-analyzer/internal/database"
	"github.com/codyseavey/tcg-analyzer/internal/models"
	"github.com/codyseavey/tcg-analyzer/internal/store"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	dbPath     string
	dataDir    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "cardanalyzer",
		Short:         "Pokémon TCG card feature and deck synergy analysis",
		Long:          "cardanalyzer imports card data into a local SQLite store, extracts per-card features (roles, pros and cons, synergy tags) and scores decklists for synergy and archetype fit.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("ANALYZER_CONFIG"), "Path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite card store path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "pokemon-tcg-data directory (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine activity to stderr")

	cmd.AddCommand(
		newImportCmd(opts),
		newFeaturesCmd(opts),
		newSynergyCmd(opts),
		newReportCmd(opts),
	)
	return cmd
}

// engine bundles what a subcommand needs to talk to the card store
type engine struct {
	cfg      *config.Config
	db       *gorm.DB
	store    *store.GormStore
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

func (o *rootOptions) openEngine(errOut io.Writer) (*engine, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.dataDir != "" {
		cfg.Database.DataDir = o.dataDir
	}

	logger := zap.NewNop()
	if o.verbose || cfg.Debug() {
		logger = newCLILogger(errOut)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card store: %w", err)
	}
	cardStore := store.NewGormStore(db, logger.Named("store"))

	analysisCfg := analysis.DefaultConfig()
	analysisCfg.Workers = cfg.Analysis.Workers
	analysisCfg.KeywordCacheSize = cfg.Analysis.KeywordCacheSize
	analysisCfg.Logger = logger.Named("analysis")
	if cfg.Analysis.DisableAugmenter {
		analysisCfg.Augmenter = nil
	}
	analyzer, err := analysis.NewAnalyzer(cardStore, analysisCfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return &engine{
		cfg:      cfg,
		db:       db,
		store:    cardStore,
		analyzer: analyzer,
		logger:   logger,
	}, nil
}

func (e *engine) Close() {
	_ = e.logger.Sync()
	_ = database.Close(e.db)
}

// newCLILogger writes human readable logs to errOut
func newCLILogger(errOut io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(errOut),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// readDeckFile loads a YAML or JSON decklist
func readDeckFile(path string) (models.Decklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file %s: %w", path, err)
	}
	deck, err := models.ParseDecklist(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck file %s: %w", path, err)
	}
	return deck, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
