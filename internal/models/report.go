package models

import (
	"time"
)

// Report aggregates per-card analyses and an optional synergy analysis
// into a single structure for presentation
type Report struct {
	ID                string                `json:"id"`
	GeneratedAt       time.Time             `json:"generated_at"`
	Summary           ReportSummary         `json:"summary"`
	CardAnalysis      []CardSummary         `json:"card_analysis"`
	RoleDistribution  map[Role]int          `json:"role_distribution"`
	ArchetypeAnalysis map[Archetype]float64 `json:"archetype_analysis"`
	SynergyReport     *SynergyReport        `json:"synergy_report"`
	Recommendations   []Recommendation      `json:"recommendations"`
}

type ReportSummary struct {
	TotalCardsAnalyzed int `json:"total_cards_analyzed"`
	DegradedCards      int `json:"degraded_cards"`
}

// CardSummary is the condensed view of one card's features
type CardSummary struct {
	CardID           string   `json:"card_id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"` // "Supertype - Subtype"
	PrimaryRoles     []Role   `json:"primary_roles"`
	TopPros          []string `json:"top_pros"`
	MainCons         []string `json:"main_cons"`
	SynergyPotential int      `json:"synergy_potential"`
	SemanticKeywords []string `json:"semantic_keywords"`
}

type SynergyReport struct {
	IntraCardSynergyScore float64               `json:"intra_card_synergy_score"`
	TopSynergies          []SynergyPair         `json:"top_synergies"`
	ArchetypeFit          map[Archetype]float64 `json:"archetype_fit"`
	PrimaryArchetype      Archetype             `json:"primary_archetype"`
	Recommendations       []Recommendation      `json:"recommendations"`
}
