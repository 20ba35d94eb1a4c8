package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeckFile is the on-disk and request-body form of a decklist. YAML is a
// superset of JSON so both encodings are accepted.
type DeckFile struct {
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Decklist Decklist `yaml:"decklist" json:"decklist"`
}

// ParseDecklist decodes either a DeckFile or a bare name to quantity mapping
func ParseDecklist(data []byte) (Decklist, error) {
	var file DeckFile
	if err := yaml.Unmarshal(data, &file); err == nil && file.Decklist != nil {
		return file.Decklist, validateDecklist(file.Decklist)
	}

	var bare Decklist
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse decklist: %w", err)
	}
	if bare == nil {
		bare = Decklist{}
	}
	return bare, validateDecklist(bare)
}

// FilterFeatures keeps the features whose card name has a positive quantity
func (d Decklist) FilterFeatures(features []CardFeatures) []CardFeatures {
	out := make([]CardFeatures, 0, len(d))
	for _, f := range features {
		if d[f.Name] > 0 {
			out = append(out, f)
		}
	}
	return out
}

func validateDecklist(deck Decklist) error {
	for name, qty := range deck {
		if name == "" {
			return fmt.Errorf("decklist contains an empty card name")
		}
		if qty < 0 {
			return fmt.Errorf("invalid quantity %d for %q", qty, name)
		}
	}
	return nil
}
