package analysis

import (
	"strings"
)

var synergyKeywords = map[string]bool{
	"draw": true, "search": true, "energy": true, "heal": true, "disrupt": true,
}

// generateSynergyTags returns types, effect tags ("draw_synergy") and the
// supertype tag ("pokémon_synergy") as a sorted set
func generateSynergyTags(keywords []string, supertype string, types []string) []string {
	tags := make(map[string]struct{}, len(types)+len(keywords)+1)
	for _, typ := range types {
		tags[typ] = struct{}{}
	}
	for _, kw := range keywords {
		if synergyKeywords[kw] {
			tags[kw+"_synergy"] = struct{}{}
		}
	}
	tags[strings.ToLower(supertype)+"_synergy"] = struct{}{}
	return sortedKeys(tags)
}
