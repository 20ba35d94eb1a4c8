package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rulesSeparator is what the legacy importer used to join rule text
const rulesSeparator = " | "

// DecodeStringList parses a stored list field. It accepts a JSON array,
// a " | " or comma separated list, or a bare scalar. Malformed JSON is not
// fatal: the best-effort fallback is returned together with a non-nil error
// so callers can note the degraded parse.
func DecodeStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return []string{raw}, fmt.Errorf("malformed list %q: %w", raw, err)
		}
		return compact(list), nil
	}

	if strings.Contains(raw, rulesSeparator) {
		return splitList(raw, rulesSeparator), nil
	}
	if strings.Contains(raw, ",") {
		return splitList(raw, ","), nil
	}
	return []string{raw}, nil
}

// DecodeRules parses the rules column. Rule text routinely contains commas,
// so unlike DecodeStringList a bare string is never split on them.
func DecodeRules(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return []string{raw}, fmt.Errorf("malformed rules %q: %w", raw, err)
		}
		return compact(list), nil
	}
	if strings.Contains(raw, rulesSeparator) {
		return splitList(raw, rulesSeparator), nil
	}
	return []string{raw}, nil
}

// DecodeAttacks parses the attacks column. Anything but a JSON array of
// attack objects decodes to an empty list.
func DecodeAttacks(raw string) ([]Attack, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Attack{}, nil
	}
	if !strings.HasPrefix(raw, "[") {
		return []Attack{}, fmt.Errorf("attacks field is not a JSON array")
	}
	var attacks []Attack
	if err := json.Unmarshal([]byte(raw), &attacks); err != nil {
		return []Attack{}, fmt.Errorf("malformed attacks: %w", err)
	}
	if attacks == nil {
		attacks = []Attack{}
	}
	return attacks, nil
}

// DecodeAbilities parses the abilities column with the same rules as DecodeAttacks
func DecodeAbilities(raw string) ([]Ability, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Ability{}, nil
	}
	if !strings.HasPrefix(raw, "[") {
		return []Ability{}, fmt.Errorf("abilities field is not a JSON array")
	}
	var abilities []Ability
	if err := json.Unmarshal([]byte(raw), &abilities); err != nil {
		return []Ability{}, fmt.Errorf("malformed abilities: %w", err)
	}
	if abilities == nil {
		abilities = []Ability{}
	}
	return abilities, nil
}

// EncodeStringList returns the canonical stored form of a list field
func EncodeStringList(list []string) string {
	if len(list) == 0 {
		return ""
	}
	data, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(data)
}

// EncodeAttacks returns the canonical stored form of the attacks column
func EncodeAttacks(attacks []Attack) string {
	if len(attacks) == 0 {
		return ""
	}
	data, err := json.Marshal(attacks)
	if err != nil {
		return ""
	}
	return string(data)
}

// EncodeAbilities returns the canonical stored form of the abilities column
func EncodeAbilities(abilities []Ability) string {
	if len(abilities) == 0 {
		return ""
	}
	data, err := json.Marshal(abilities)
	if err != nil {
		return ""
	}
	return string(data)
}

// splitList handles hand-written lists, so stray quotes around each part are
// dropped as well as surrounding whitespace
func splitList(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	for i, part := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(part), `"`)
	}
	return compact(parts)
}

// compact drops entries that are blank after trimming. Quotes inside decoded
// JSON strings are card text and are kept.
func compact(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			result = append(result, item)
		}
	}
	return result
}
