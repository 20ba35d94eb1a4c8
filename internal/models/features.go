package models

// Role is a strategic function a card plays within a deck
type Role string

const (
	// Pokemon roles
	RoleMainAttacker       Role = "main_attacker"
	RoleSecondaryAttacker  Role = "secondary_attacker"
	RoleSetupPokemon       Role = "setup_pokemon"
	RoleWall               Role = "wall"
	RolePivot              Role = "pivot"
	RoleEnergyAcceleration Role = "energy_acceleration"
	RoleDrawEngine         Role = "draw_engine"
	RoleDisruptor          Role = "disruptor"
	RoleTech               Role = "tech"

	// Trainer roles
	RoleDrawSupporter       Role = "draw_supporter"
	RoleSearchSupporter     Role = "search_supporter"
	RoleDisruptionSupporter Role = "disruption_supporter"
	RoleSearchItem          Role = "search_item"
	RoleDrawItem            Role = "draw_item"
	RoleUtilityItem         Role = "utility_item"
	RoleTool                Role = "tool"
	RoleStadium             Role = "stadium"

	// Energy roles
	RoleBasicEnergy   Role = "basic_energy"
	RoleSpecialEnergy Role = "special_energy"
	RoleAcceleration  Role = "acceleration"
	RoleUtility       Role = "utility"

	// RoleHeal is never assigned by the classifier but is counted by the
	// stall archetype, matching decks that were tagged by hand.
	RoleHeal Role = "heal"
)

// EffectKind names a numeric magnitude extracted from card text
type EffectKind string

const (
	EffectDrawAmount    EffectKind = "draw_amount"
	EffectDamageAmount  EffectKind = "damage_amount"
	EffectDiscardAmount EffectKind = "discard_amount"
	EffectSearchAmount  EffectKind = "search_amount"
	EffectEnergyCost    EffectKind = "energy_cost"
	EffectHealAmount    EffectKind = "heal_amount"
)

// CardFeatures is the full analysis of a single card. It is a pure function
// of the CardRecord it was derived from.
type CardFeatures struct {
	CardID      string    `json:"card_id"`
	Name        string    `json:"name"`
	Supertype   string    `json:"supertype"`
	Subtype     string    `json:"subtype"`
	HP          *int      `json:"hp"`
	Types       []string  `json:"types"`
	RetreatCost *int      `json:"retreat_cost"`
	Attacks     []Attack  `json:"attacks"`
	Abilities   []Ability `json:"abilities"`
	Rules       []string  `json:"rules"`
	Expansion   string    `json:"expansion"`
	Rarity      string    `json:"rarity"`

	SemanticKeywords []string           `json:"semantic_keywords"`
	NumericalEffects map[EffectKind]int `json:"numerical_effects"`
	Conditions       []string           `json:"conditions"`
	Roles            map[Role]float64   `json:"roles"`
	Pros             []string           `json:"pros"`
	Cons             []string           `json:"cons"`
	SynergyTags      []string           `json:"synergy_tags"`

	// Degraded lists the analysis stages that failed for this card and were
	// replaced by an empty result. Empty for a clean analysis.
	Degraded []string `json:"degraded,omitempty"`
}

// HasRole reports whether the card was assigned the role with any confidence
func (f *CardFeatures) HasRole(role Role) bool {
	_, ok := f.Roles[role]
	return ok
}

// HasKeyword reports whether the card's semantic keywords contain kw
func (f *CardFeatures) HasKeyword(kw string) bool {
	for _, k := range f.SemanticKeywords {
		if k == kw {
			return true
		}
	}
	return false
}

// Effect returns the extracted magnitude for kind, or 0 if it was not observed
func (f *CardFeatures) Effect(kind EffectKind) int {
	return f.NumericalEffects[kind]
}
