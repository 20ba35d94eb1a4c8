package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

type effectPattern struct {
	kind    models.EffectKind
	pattern *regexp.Regexp
}

// Patterns run against lowercased text
var effectPatterns = []effectPattern{
	{kind: models.EffectDrawAmount, pattern: regexp.MustCompile(`draw (\d+)`)},
	{kind: models.EffectDamageAmount, pattern: regexp.MustCompile(`(\d+) damage`)},
	{kind: models.EffectDiscardAmount, pattern: regexp.MustCompile(`discard (\d+)`)},
	{kind: models.EffectSearchAmount, pattern: regexp.MustCompile(`search.*?(\d+)`)},
	{kind: models.EffectEnergyCost, pattern: regexp.MustCompile(`(\d+).*?energy`)},
	{kind: models.EffectHealAmount, pattern: regexp.MustCompile(`heal (\d+)`)},
}

var conditionPhrases = []string{
	"if ", "when ", "once during", "only if", "before you",
	"after you", "during your turn", "flip a coin", "discard",
}

// ExtractNumericalEffects returns the magnitude of each effect kind stated in
// text. When a pattern matches more than once the largest value wins.
// Kinds that never match are absent from the map.
func ExtractNumericalEffects(text string) map[models.EffectKind]int {
	effects := make(map[models.EffectKind]int)
	if text == "" {
		return effects
	}

	lower := strings.ToLower(text)
	for _, ep := range effectPatterns {
		for _, match := range ep.pattern.FindAllStringSubmatch(lower, -1) {
			value, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if current, ok := effects[ep.kind]; !ok || value > current {
				effects[ep.kind] = value
			}
		}
	}
	return effects
}

// ExtractConditions returns the trigger phrases present in text, trimmed and sorted
func ExtractConditions(text string) []string {
	conditions := []string{}
	if text == "" {
		return conditions
	}

	lower := strings.ToLower(text)
	for _, phrase := range conditionPhrases {
		if strings.Contains(lower, phrase) {
			conditions = append(conditions, strings.TrimSpace(phrase))
		}
	}
	sort.Strings(conditions)
	return conditions
}

func hasCondition(conditions []string, phrase string) bool {
	for _, c := range conditions {
		if c == phrase {
			return true
		}
	}
	return false
}
