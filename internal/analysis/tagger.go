package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/metrics"
)

// ErrAugmentationUnavailable is wrapped by Tagger.Keywords when the augmenter
// is missing a resource or fails. The category keywords are still returned.
var ErrAugmentationUnavailable = errors.New("text augmentation unavailable")

// Augmenter extracts lexical tokens (lemmatized verbs and nouns, named
// quantities) from card text. Implementations must be deterministic and safe
// for concurrent use.
type Augmenter interface {
	ExtractTokens(ctx context.Context, text string) ([]string, error)
}

// semanticCategory is a keyword emitted when any of its patterns occurs in the text
type semanticCategory struct {
	name     string
	patterns []string
}

var semanticCategories = []semanticCategory{
	{name: "draw", patterns: []string{"draw", "reveal", "look at", "search", "put into hand"}},
	{name: "damage", patterns: []string{"damage", "knock out", "destroy", "discard", "put damage"}},
	{name: "energy", patterns: []string{"energy", "attach", "accelerate", "basic energy", "special energy"}},
	{name: "heal", patterns: []string{"heal", "remove damage", "restore", "recover"}},
	{name: "disrupt", patterns: []string{"discard", "shuffle", "prevent", "block", "switch"}},
	{name: "setup", patterns: []string{"bench", "play", "put into play", "evolve", "search"}},
	{name: "protection", patterns: []string{"prevent", "immune", "resist", "protect", "cannot be"}},
	{name: "movement", patterns: []string{"switch", "retreat", "return", "move", "swap"}},
}

// Tagger extracts semantic keywords from card text, memoizing per distinct text
type Tagger struct {
	augmenter Augmenter
	cache     *lru.Cache[string, []string]
	logger    *zap.Logger
}

// NewTagger creates a tagger. A nil augmenter restricts output to the
// eight semantic categories; cacheSize 0 disables memoization.
func NewTagger(augmenter Augmenter, cacheSize int, logger *zap.Logger) (*Tagger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tagger{
		augmenter: augmenter,
		logger:    logger,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, []string](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create keyword cache: %w", err)
		}
		t.cache = cache
	}
	return t, nil
}

// Keywords returns the sorted, deduplicated keyword set for text. A non-nil
// error always wraps ErrAugmentationUnavailable and accompanies a usable
// category-only result.
func (t *Tagger) Keywords(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}

	if t.cache != nil {
		if cached, ok := t.cache.Get(text); ok {
			metrics.KeywordCacheHits.Inc()
			return cloneStrings(cached), nil
		}
		metrics.KeywordCacheMisses.Inc()
	}

	keywords := make(map[string]struct{})
	for _, category := range matchCategories(text) {
		keywords[category] = struct{}{}
	}

	var augErr error
	if t.augmenter != nil {
		tokens, err := t.augmenter.ExtractTokens(ctx, text)
		if err != nil {
			augErr = fmt.Errorf("%w: %v", ErrAugmentationUnavailable, err)
			t.logger.Warn("text augmentation failed, using category keywords only", zap.Error(err))
		} else {
			for _, token := range tokens {
				keywords[token] = struct{}{}
			}
		}
	}

	result := sortedKeys(keywords)
	// Degraded results are not cached so a recovered augmenter is picked up
	if t.cache != nil && augErr == nil {
		t.cache.Add(text, cloneStrings(result))
	}
	return result, augErr
}

// matchCategories returns the semantic categories whose patterns occur in
// text, in category order
func matchCategories(text string) []string {
	lower := foldText(text)
	var matched []string
	for _, category := range semanticCategories {
		for _, pattern := range category.patterns {
			if strings.Contains(lower, pattern) {
				matched = append(matched, category.name)
				break
			}
		}
	}
	return matched
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
