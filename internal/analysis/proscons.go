package analysis

import (
	"fmt"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

// evaluateProsCons applies the fixed threshold rules. Output order follows
// rule order: HP, retreat, damage, keyword pros, condition cons.
func evaluateProsCons(t cardTraits) (pros, cons []string) {
	pros = []string{}
	cons = []string{}

	if t.isPokemon() {
		switch {
		case t.hp >= 250:
			pros = append(pros, "Very high HP for survivability")
		case t.hp >= 180:
			pros = append(pros, "Good HP for tanking hits")
		case t.hp <= 70:
			cons = append(cons, "Low HP, vulnerable to knockouts")
		}

		switch {
		case t.retreatCost == 0:
			pros = append(pros, "Free retreat for easy pivoting")
		case t.retreatCost >= 3:
			cons = append(cons, "High retreat cost limits mobility")
		}

		switch {
		case t.damage >= 200:
			pros = append(pros, "High damage output")
		case t.damage >= 120:
			pros = append(pros, "Decent damage for prizes")
		case t.damage <= 60:
			cons = append(cons, "Low damage output")
		}
	}

	if t.keywords["draw"] {
		if amount := t.effects[models.EffectDrawAmount]; amount >= 3 {
			pros = append(pros, fmt.Sprintf("Strong draw power (%d cards)", amount))
		} else {
			pros = append(pros, "Provides card draw")
		}
	}

	if t.keywords["search"] {
		pros = append(pros, "Tutoring effect for consistency")
	}

	if t.keywords["energy"] && t.keywords["attach"] {
		pros = append(pros, "Energy acceleration capability")
	}

	if t.keywords["protection"] {
		pros = append(pros, "Defensive capabilities")
	}

	if t.keywords["disrupt"] {
		pros = append(pros, "Disruption potential")
	}

	if hasCondition(t.conds, "flip a coin") {
		cons = append(cons, "Relies on coin flips (inconsistent)")
	}

	if t.effects[models.EffectDiscardAmount] > 0 {
		cons = append(cons, "Requires discarding resources")
	}

	return pros, cons
}
