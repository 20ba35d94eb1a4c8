package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

const (
	reportTopRoles    = 3
	reportTopPros     = 3
	reportTopCons     = 3
	reportTopKeywords = 5
	reportTopPairs    = 5
)

// GenerateReport aggregates card features and an optional synergy analysis.
// The synergy section is nil when synergy is nil. Malformed input, such as a
// card without an id or a NaN score, is returned as an error.
func (a *Analyzer) GenerateReport(features []models.CardFeatures, synergy *models.SynergyAnalysis) (*models.Report, error) {
	report := &models.Report{
		ID:               uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		CardAnalysis:     make([]models.CardSummary, 0, len(features)),
		RoleDistribution: make(map[models.Role]int),
		Recommendations:  []models.Recommendation{},
	}
	report.Summary.TotalCardsAnalyzed = len(features)

	for i := range features {
		card := &features[i]
		if card.CardID == "" {
			return nil, fmt.Errorf("malformed card features at index %d: missing card id", i)
		}
		for role, confidence := range card.Roles {
			if math.IsNaN(confidence) {
				return nil, fmt.Errorf("malformed card features for %s: NaN confidence for role %s", card.CardID, role)
			}
			report.RoleDistribution[role]++
		}
		if len(card.Degraded) > 0 {
			report.Summary.DegradedCards++
		}
		report.CardAnalysis = append(report.CardAnalysis, summarizeCard(card))
	}

	if synergy != nil {
		sr, err := buildSynergyReport(synergy)
		if err != nil {
			return nil, err
		}
		report.SynergyReport = sr
		report.ArchetypeAnalysis = copyFit(synergy.ArchetypeFit)
		report.Recommendations = append(report.Recommendations, synergy.Recommendations...)
	}

	a.logger.Info("generated report",
		zap.String("report_id", report.ID),
		zap.Int("cards", len(features)),
		zap.Bool("with_synergy", synergy != nil))

	return report, nil
}

func summarizeCard(card *models.CardFeatures) models.CardSummary {
	return models.CardSummary{
		CardID:           card.CardID,
		Name:             card.Name,
		Type:             fmt.Sprintf("%s - %s", card.Supertype, card.Subtype),
		PrimaryRoles:     topRoles(card.Roles, reportTopRoles),
		TopPros:          head(card.Pros, reportTopPros),
		MainCons:         head(card.Cons, reportTopCons),
		SynergyPotential: len(card.SynergyTags),
		SemanticKeywords: head(card.SemanticKeywords, reportTopKeywords),
	}
}

// topRoles returns up to n roles by descending confidence, ties by name
func topRoles(roles map[models.Role]float64, n int) []models.Role {
	ordered := make([]models.Role, 0, len(roles))
	for role := range roles {
		ordered = append(ordered, role)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := roles[ordered[i]], roles[ordered[j]]
		if ci != cj {
			return ci > cj
		}
		return ordered[i] < ordered[j]
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

func buildSynergyReport(synergy *models.SynergyAnalysis) (*models.SynergyReport, error) {
	if math.IsNaN(synergy.IntraCardScore) {
		return nil, fmt.Errorf("malformed synergy analysis: NaN intra-card score")
	}

	sr := &models.SynergyReport{
		IntraCardSynergyScore: round3(synergy.IntraCardScore),
		TopSynergies:          make([]models.SynergyPair, 0, reportTopPairs),
		ArchetypeFit:          make(map[models.Archetype]float64, len(synergy.ArchetypeFit)),
		PrimaryArchetype:      synergy.PrimaryArchetype(),
		Recommendations:       append([]models.Recommendation{}, synergy.Recommendations...),
	}

	for i, pair := range synergy.InterCardSynergies {
		if math.IsNaN(pair.Score) {
			return nil, fmt.Errorf("malformed synergy analysis: NaN score for %s / %s", pair.Card1, pair.Card2)
		}
		if i < reportTopPairs {
			pair.Score = round3(pair.Score)
			sr.TopSynergies = append(sr.TopSynergies, pair)
		}
	}

	for arch, score := range synergy.ArchetypeFit {
		if math.IsNaN(score) {
			return nil, fmt.Errorf("malformed synergy analysis: NaN fit for archetype %s", arch)
		}
		sr.ArchetypeFit[arch] = round3(score)
	}

	return sr, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func head(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return append([]string{}, s...)
}

func copyFit(fit map[models.Archetype]float64) map[models.Archetype]float64 {
	out := make(map[models.Archetype]float64, len(fit))
	for arch, score := range fit {
		out[arch] = score
	}
	return out
}
