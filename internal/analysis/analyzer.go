package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/tcg-analyzer/internal/metrics"
	"github.com/codyseavey/tcg-analyzer/internal/models"
	"github.com/codyseavey/tcg-analyzer/internal/store"
)

// Analysis stages that can degrade independently for a single card
const (
	StageParse           = "parse"
	StageAugment         = "augment"
	StageEffects         = "effects"
	StageRoles           = "roles"
	StageProsCons        = "pros_cons"
	StageSynergyTags     = "synergy_tags"
	StageRecommendations = "recommendations"
)

// Analyzer runs the feature pipeline over cards from a CardStore and scores
// decklists. It is safe for concurrent use.
type Analyzer struct {
	store   store.CardStore
	tagger  *Tagger
	workers int
	logger  *zap.Logger
}

// NewAnalyzer creates an analyzer reading cards from cardStore
func NewAnalyzer(cardStore store.CardStore, cfg Config) (*Analyzer, error) {
	if cardStore == nil {
		return nil, errors.New("card store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tagger, err := NewTagger(cfg.Augmenter, cfg.KeywordCacheSize, logger)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		store:   cardStore,
		tagger:  tagger,
		workers: cfg.workers(),
		logger:  logger,
	}, nil
}

// ExtractFeatures analyzes one card, or every card in the store when cardID
// is empty. A missing card yields an error matching store.ErrNotFound. A bad
// record degrades that card's features and never fails the batch.
func (a *Analyzer) ExtractFeatures(ctx context.Context, cardID string) ([]models.CardFeatures, error) {
	start := time.Now()

	var records []models.CardRecord
	if cardID != "" {
		rec, err := a.store.GetCard(ctx, cardID)
		if err != nil {
			return nil, fmt.Errorf("failed to get card %s: %w", cardID, err)
		}
		records = []models.CardRecord{*rec}
	} else {
		all, err := a.store.ListCards(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list cards: %w", err)
		}
		records = all
	}

	features := make([]models.CardFeatures, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			features[i] = a.Analyze(gctx, records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.CardsAnalyzedTotal.Add(float64(len(features)))
	metrics.FeatureExtractionDuration.Observe(elapsed.Seconds())
	a.logger.Info("extracted card features",
		zap.Int("cards", len(features)),
		zap.Duration("elapsed", elapsed))

	return features, nil
}

// Analyze runs every per-card stage on rec. Stage failures are recorded in
// CardFeatures.Degraded and leave that stage's output empty.
func (a *Analyzer) Analyze(ctx context.Context, rec models.CardRecord) models.CardFeatures {
	f := models.CardFeatures{
		CardID:           rec.CardID,
		Name:             rec.Name,
		Supertype:        rec.Supertype,
		Subtype:          rec.Subtype,
		HP:               rec.HP,
		RetreatCost:      rec.RetreatCost,
		Expansion:        rec.Expansion,
		Rarity:           rec.Rarity,
		Types:            []string{},
		Attacks:          []models.Attack{},
		Abilities:        []models.Ability{},
		Rules:            []string{},
		SemanticKeywords: []string{},
		NumericalEffects: map[models.EffectKind]int{},
		Conditions:       []string{},
		Roles:            map[models.Role]float64{},
		Pros:             []string{},
		Cons:             []string{},
		SynergyTags:      []string{},
	}

	var text string
	a.runStage(&f, StageParse, func() error {
		parsed, errs := normalizeRecord(&rec)
		f.Types = parsed.types
		f.Attacks = parsed.attacks
		f.Abilities = parsed.abilities
		f.Rules = parsed.rules
		text = parsed.text
		return errors.Join(errs...)
	})

	a.runStage(&f, StageAugment, func() error {
		keywords, err := a.tagger.Keywords(ctx, text)
		f.SemanticKeywords = keywords
		return err
	})

	a.runStage(&f, StageEffects, func() error {
		effects := ExtractNumericalEffects(text)
		conditions := ExtractConditions(text)
		f.NumericalEffects = effects
		f.Conditions = conditions
		return nil
	})

	traits := newCardTraits(&rec, f.SemanticKeywords, f.NumericalEffects, f.Conditions)

	a.runStage(&f, StageRoles, func() error {
		f.Roles = classifyRoles(traits)
		return nil
	})

	a.runStage(&f, StageProsCons, func() error {
		pros, cons := evaluateProsCons(traits)
		f.Pros, f.Cons = pros, cons
		return nil
	})

	a.runStage(&f, StageSynergyTags, func() error {
		f.SynergyTags = generateSynergyTags(f.SemanticKeywords, rec.Supertype, f.Types)
		return nil
	})

	return f
}

// runStage calls fn and records stage as degraded when fn returns an error or
// panics. A panicking stage keeps whatever defaults f already held.
func (a *Analyzer) runStage(f *models.CardFeatures, stage string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.degrade(f, stage, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		a.degrade(f, stage, err)
	}
}

func (a *Analyzer) degrade(f *models.CardFeatures, stage string, err error) {
	for _, s := range f.Degraded {
		if s == stage {
			return
		}
	}
	f.Degraded = append(f.Degraded, stage)
	metrics.DegradedStagesTotal.WithLabelValues(stage).Inc()
	a.logger.Warn("card analysis stage degraded",
		zap.String("card_id", f.CardID),
		zap.String("stage", stage),
		zap.Error(err))
}
