package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/metrics"
	"github.com/codyseavey/tcg-analyzer/internal/models"
)

const maxExclusionNames = 3

// recommend applies the archetype rule table and the universal rules. A
// failing rule stops generation and the recommendations gathered so far are
// returned.
func (a *Analyzer) recommend(cards []*models.CardFeatures, analysis *models.SynergyAnalysis) (recs []models.Recommendation) {
	recs = []models.Recommendation{}
	defer func() {
		if r := recover(); r != nil {
			metrics.DegradedStagesTotal.WithLabelValues(StageRecommendations).Inc()
			a.logger.Warn("recommendation generation failed",
				zap.Int("generated", len(recs)),
				zap.Any("panic", r))
		}
	}()

	if len(cards) == 0 {
		return recs
	}

	counts := countRoles(cards)
	total := len(cards)
	include := func(suggestion, reason string, priority models.Priority) {
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationInclusion,
			Suggestion: suggestion,
			Reason:     reason,
			Priority:   priority,
		})
	}

	switch analysis.PrimaryArchetype() {
	case models.ArchetypeAggro:
		if float64(counts[models.RoleMainAttacker]) < float64(total)*0.3 {
			include("Add more main attackers", "Aggro decks need consistent attacking threats", models.PriorityHigh)
		}
		if counts[models.RoleEnergyAcceleration] < 2 {
			include("Include energy acceleration", "Speed up setup for aggressive plays", models.PriorityMedium)
		}
	case models.ArchetypeControl:
		if counts[models.RoleDrawEngine] < 4 {
			include("Add more draw power", "Control decks need card advantage", models.PriorityHigh)
		}
		if counts[models.RoleDisruptor] < 2 {
			include("Include disruption cards", "Disrupt opponent strategy and buy time", models.PriorityHigh)
		}
	case models.ArchetypeEngine:
		if counts[models.RoleSetupPokemon] < 2 {
			include("Add setup Pokémon", "Engine decks need consistent setup", models.PriorityHigh)
		}
	}

	if counts[models.RolePivot] == 0 {
		include("Consider pivot Pokémon", "Improve board positioning and retreat options", models.PriorityLow)
	}

	if names := lowSynergyNames(cards); len(names) > 0 {
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationExclusion,
			Suggestion: fmt.Sprintf("Consider removing: %s", strings.Join(names, ", ")),
			Reason:     "These cards have limited synergy with the deck",
			Priority:   models.PriorityMedium,
		})
	}

	return recs
}

// lowSynergyNames returns up to three distinct names, in deck order, of cards
// with fewer than two synergy tags
func lowSynergyNames(cards []*models.CardFeatures) []string {
	seen := make(map[string]bool)
	var names []string
	for _, card := range cards {
		if len(card.SynergyTags) >= 2 || seen[card.Name] {
			continue
		}
		seen[card.Name] = true
		names = append(names, card.Name)
		if len(names) == maxExclusionNames {
			break
		}
	}
	return names
}
