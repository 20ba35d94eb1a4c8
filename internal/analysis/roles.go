package analysis

import (
	"strings"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

// cardTraits is the subset of a card the classifiers look at
type cardTraits struct {
	name        string
	supertype   string
	subtype     string
	// hp and retreatCost are zero when the record leaves them unset
	hp          int
	retreatCost int
	// damage comes from attack text only; printed attack damage is not scored
	damage   int
	keywords map[string]bool
	effects  map[models.EffectKind]int
	conds    []string
}

func newCardTraits(rec *models.CardRecord, keywords []string, effects map[models.EffectKind]int, conds []string) cardTraits {
	kw := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kw[k] = true
	}

	var hp, retreat int
	if rec.HP != nil {
		hp = *rec.HP
	}
	if rec.RetreatCost != nil {
		retreat = *rec.RetreatCost
	}

	return cardTraits{
		name:        rec.Name,
		supertype:   foldText(strings.TrimSpace(rec.Supertype)),
		subtype:     rec.Subtype,
		hp:          hp,
		retreatCost: retreat,
		damage:      effects[models.EffectDamageAmount],
		keywords:    kw,
		effects:     effects,
		conds:       conds,
	}
}

func (t cardTraits) isPokemon() bool { return t.supertype == "pokemon" }
func (t cardTraits) isTrainer() bool { return t.supertype == "trainer" }
func (t cardTraits) isEnergy() bool  { return t.supertype == "energy" }

func (t cardTraits) hpAtLeast(v int) bool {
	return t.hp >= v
}

// classifyRoles assigns confidence-weighted roles by supertype and normalizes
// the confidences to sum to 1. Unknown supertypes get no roles.
func classifyRoles(t cardTraits) map[models.Role]float64 {
	var roles map[models.Role]float64
	switch {
	case t.isPokemon():
		roles = pokemonRoles(t)
	case t.isTrainer():
		roles = trainerRoles(t)
	case t.isEnergy():
		roles = energyRoles(t)
	default:
		roles = map[models.Role]float64{}
	}
	return normalizeRoles(roles)
}

func pokemonRoles(t cardTraits) map[models.Role]float64 {
	roles := make(map[models.Role]float64)

	if t.hpAtLeast(200) || t.damage >= 150 {
		roles[models.RoleMainAttacker] = 0.8
	} else if t.hpAtLeast(120) || t.damage >= 80 {
		roles[models.RoleSecondaryAttacker] = 0.6
	}

	if t.keywords["draw"] || t.keywords["search"] {
		roles[models.RoleSetupPokemon] = 0.7
	}

	if t.hpAtLeast(200) || t.keywords["protection"] || t.keywords["heal"] {
		roles[models.RoleWall] = 0.6
	}

	if t.retreatCost == 0 || t.keywords["movement"] {
		roles[models.RolePivot] = 0.7
	}

	if t.keywords["energy"] && t.keywords["attach"] {
		roles[models.RoleEnergyAcceleration] = 0.8
	}

	if t.effects[models.EffectDrawAmount] >= 2 {
		roles[models.RoleDrawEngine] = 0.7
	}

	if t.keywords["disrupt"] || t.effects[models.EffectDiscardAmount] > 0 {
		roles[models.RoleDisruptor] = 0.6
	}

	return roles
}

// trainerRoles picks a single role per trainer subtype. A tool is checked
// before item since older sets print tools as "Item, Pokémon Tool".
func trainerRoles(t cardTraits) map[models.Role]float64 {
	roles := make(map[models.Role]float64)

	switch {
	case subtypeHas(t.subtype, "pokemon tool"):
		roles[models.RoleTool] = 0.9
	case subtypeHas(t.subtype, "stadium"):
		roles[models.RoleStadium] = 0.9
	case subtypeHas(t.subtype, "supporter"):
		if t.keywords["draw"] || t.effects[models.EffectDrawAmount] > 0 {
			roles[models.RoleDrawSupporter] = 0.9
		} else if t.keywords["search"] {
			roles[models.RoleSearchSupporter] = 0.8
		} else if t.keywords["disrupt"] {
			roles[models.RoleDisruptionSupporter] = 0.7
		}
	case subtypeHas(t.subtype, "item"):
		if t.keywords["search"] {
			roles[models.RoleSearchItem] = 0.8
		} else if t.keywords["draw"] {
			roles[models.RoleDrawItem] = 0.7
		} else {
			roles[models.RoleUtilityItem] = 0.6
		}
	}

	return roles
}

func energyRoles(t cardTraits) map[models.Role]float64 {
	roles := make(map[models.Role]float64)
	name := strings.ToLower(t.name)

	if strings.Contains(name, "basic") && strings.Contains(name, "energy") {
		roles[models.RoleBasicEnergy] = 0.9
		return roles
	}

	roles[models.RoleSpecialEnergy] = 0.8
	if t.keywords["acceleration"] || t.keywords["attach"] {
		roles[models.RoleAcceleration] = 0.7
	}
	if t.keywords["draw"] || t.keywords["heal"] || t.keywords["protection"] {
		roles[models.RoleUtility] = 0.6
	}
	return roles
}

func normalizeRoles(roles map[models.Role]float64) map[models.Role]float64 {
	total := 0.0
	for _, score := range roles {
		total += score
	}
	if total <= 0 {
		return roles
	}
	normalized := make(map[models.Role]float64, len(roles))
	for role, score := range roles {
		normalized[role] = score / total
	}
	return normalized
}
