// Package analysis turns card records into feature sets (roles, pros and
// cons, synergy tags) and scores decklists for synergy and archetype fit.
package analysis

import (
	"runtime"

	"go.uber.org/zap"
)

const defaultKeywordCacheSize = 4096

// Config is passed to NewAnalyzer once; nothing in the engine is initialized
// lazily or globally.
type Config struct {
	// Workers bounds the per-card and pairwise fan-out. Values below 1 mean
	// one worker per CPU.
	Workers int
	// KeywordCacheSize is the number of distinct texts whose semantic
	// keywords are memoized. 0 disables the cache.
	KeywordCacheSize int
	// Augmenter adds lexical tokens to the category keywords. Nil means
	// category matching only.
	Augmenter Augmenter
	Logger    *zap.Logger
}

// DefaultConfig returns a config using the built-in lexical augmenter
func DefaultConfig() Config {
	return Config{
		Workers:          runtime.NumCPU(),
		KeywordCacheSize: defaultKeywordCacheSize,
		Augmenter:        NewLexicalAugmenter(),
		Logger:           zap.NewNop(),
	}
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return runtime.NumCPU()
	}
	return c.Workers
}
