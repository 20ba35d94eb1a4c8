package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codyseavey/tcg-analyzer/internal/models"
	"github.com/codyseavey/tcg-analyzer/internal/services"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var download bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pokemon-tcg-data card files into the card store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			importer := services.NewCardImporter(eng.cfg.Database.DataDir, eng.store)
			result, err := importer.Import(cmd.Context(), download)
			if err != nil {
				return fmt.Errorf("failed to import cards: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&download, "download", false, "Download the data archive when the data directory is missing")
	return cmd
}

func newFeaturesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "features [card-id]",
		Short: "Extract features for one card, or every card when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.openEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			cardID := ""
			if len(args) == 1 {
				cardID = args[0]
			}
			features, err := eng.analyzer.ExtractFeatures(cmd.Context(), cardID)
			if err != nil {
				return err
			}
			if cardID != "" {
				return writeJSON(cmd.OutOrStdout(), features[0])
			}
			return writeJSON(cmd.OutOrStdout(), features)
		},
	}
}

func newSynergyCmd(opts *rootOptions) *cobra.Command {
	var deckPath string

	cmd := &cobra.Command{
		Use:   "synergy",
		Short: "Score a decklist for card synergy and archetype fit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deck, err := readDeckFile(deckPath)
			if err != nil {
				return err
			}

			eng, err := opts.openEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			features, err := eng.analyzer.ExtractFeatures(cmd.Context(), "")
			if err != nil {
				return err
			}
			synergy, err := eng.analyzer.DetectSynergies(cmd.Context(), deck, features)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), synergy)
		},
	}

	cmd.Flags().StringVarP(&deckPath, "deck", "d", "", "Path to a YAML or JSON decklist (required)")
	if err := cmd.MarkFlagRequired("deck"); err != nil {
		panic(fmt.Sprintf("failed to mark deck flag as required: %v", err))
	}
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var deckPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build an analysis report over every card, or over a deck with --deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var deck models.Decklist
			if deckPath != "" {
				var err error
				if deck, err = readDeckFile(deckPath); err != nil {
					return err
				}
			}

			eng, err := opts.openEngine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			features, err := eng.analyzer.ExtractFeatures(cmd.Context(), "")
			if err != nil {
				return err
			}

			var synergy *models.SynergyAnalysis
			if deck != nil {
				synergy, err = eng.analyzer.DetectSynergies(cmd.Context(), deck, features)
				if err != nil {
					return err
				}
				features = deck.FilterFeatures(features)
			}

			report, err := eng.analyzer.GenerateReport(features, synergy)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&deckPath, "deck", "d", "", "Path to a YAML or JSON decklist")
	return cmd
}
