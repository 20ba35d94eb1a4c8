package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

// normalizedCard holds the decoded list fields of a record and its combined text
type normalizedCard struct {
	types     []string
	attacks   []models.Attack
	abilities []models.Ability
	rules     []string
	text      string
}

// normalizeRecord decodes the stored list fields of rec. Malformed fields fall
// back to a conservative value; the returned errors describe what was recovered.
func normalizeRecord(rec *models.CardRecord) (normalizedCard, []error) {
	var errs []error

	types, err := models.DecodeStringList(rec.Types)
	if err != nil {
		errs = append(errs, err)
	}
	attacks, err := models.DecodeAttacks(rec.Attacks)
	if err != nil {
		errs = append(errs, err)
	}
	abilities, err := models.DecodeAbilities(rec.Abilities)
	if err != nil {
		errs = append(errs, err)
	}
	rules, err := models.DecodeRules(rec.Rules)
	if err != nil {
		errs = append(errs, err)
	}

	return normalizedCard{
		types:     types,
		attacks:   attacks,
		abilities: abilities,
		rules:     rules,
		text:      CombineText(attacks, abilities, rules),
	}, errs
}

// CombineText joins attack text and names, ability text and names, then rules
// into one whitespace separated string
func CombineText(attacks []models.Attack, abilities []models.Ability, rules []string) string {
	parts := make([]string, 0, 2*len(attacks)+2*len(abilities)+len(rules))

	for _, attack := range attacks {
		if attack.Text != "" {
			parts = append(parts, attack.Text)
		}
		if attack.Name != "" {
			parts = append(parts, attack.Name)
		}
	}

	for _, ability := range abilities {
		if ability.Text != "" {
			parts = append(parts, ability.Text)
		}
		if ability.Name != "" {
			parts = append(parts, ability.Name)
		}
	}

	for _, rule := range rules {
		if rule != "" {
			parts = append(parts, rule)
		}
	}

	return strings.Join(parts, " ")
}

// foldText lowercases s and strips combining marks so "Pokémon" and
// "POKEMON" compare equal
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// subtypeHas reports whether a comma separated subtype string contains want
// (compared folded), e.g. "Item, Pokémon Tool" has "pokemon tool"
func subtypeHas(subtype, want string) bool {
	for _, part := range strings.Split(subtype, ",") {
		if foldText(strings.TrimSpace(part)) == want {
			return true
		}
	}
	return false
}
