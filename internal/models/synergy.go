package models

// Decklist maps card names (not ids) to the number of copies in the deck
type Decklist map[string]int

// TotalCards returns the number of physical cards with a positive quantity
func (d Decklist) TotalCards() int {
	total := 0
	for _, qty := range d {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// Archetype is a named overall deck strategy
type Archetype string

const (
	ArchetypeAggro    Archetype = "aggro"
	ArchetypeControl  Archetype = "control"
	ArchetypeToolbox  Archetype = "toolbox"
	ArchetypeEngine   Archetype = "engine"
	ArchetypeMidrange Archetype = "midrange"
	ArchetypeCombo    Archetype = "combo"
	ArchetypeStall    Archetype = "stall"
)

// AllArchetypes returns every archetype in its canonical order. The order is
// also the tie-break when picking a deck's primary archetype.
func AllArchetypes() []Archetype {
	return []Archetype{
		ArchetypeAggro,
		ArchetypeControl,
		ArchetypeToolbox,
		ArchetypeEngine,
		ArchetypeMidrange,
		ArchetypeCombo,
		ArchetypeStall,
	}
}

type RecommendationType string

const (
	RecommendationInclusion RecommendationType = "inclusion"
	RecommendationExclusion RecommendationType = "exclusion"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a single deck-improvement suggestion
type Recommendation struct {
	Type       RecommendationType `json:"type"`
	Suggestion string             `json:"suggestion"`
	Reason     string             `json:"reason"`
	Priority   Priority           `json:"priority"`
}

// SynergyPair is the estimated compatibility of two distinct cards
type SynergyPair struct {
	Card1 string  `json:"card1"`
	Card2 string  `json:"card2"`
	Score float64 `json:"score"`
}

// SynergyAnalysis is the result of analyzing one decklist. It is created
// fresh for every (decklist, feature set) pair and never mutated afterwards.
type SynergyAnalysis struct {
	IntraCardScore     float64               `json:"intra_card_score"`
	InterCardSynergies []SynergyPair         `json:"inter_card_synergies"`
	ArchetypeFit       map[Archetype]float64 `json:"archetype_fit"`
	Recommendations    []Recommendation      `json:"recommendations"`

	// DeckSize counts the physical cards that matched the feature index
	DeckSize int `json:"deck_size"`
	// UnmatchedCards lists decklist names with no matching card, sorted
	UnmatchedCards []string `json:"unmatched_cards,omitempty"`
}

// PrimaryArchetype returns the archetype with the highest fit score
func (s *SynergyAnalysis) PrimaryArchetype() Archetype {
	best := ArchetypeAggro
	bestScore := -1.0
	for _, arch := range AllArchetypes() {
		if score := s.ArchetypeFit[arch]; score > bestScore {
			best = arch
			bestScore = score
		}
	}
	return best
}
