package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty", "", []string{}, false},
		{"json array", `["Fire","Water"]`, []string{"Fire", "Water"}, false},
		{"comma joined", "Fire, Water", []string{"Fire", "Water"}, false},
		{"pipe joined", "Fire | Water", []string{"Fire", "Water"}, false},
		{"scalar", "Fire", []string{"Fire"}, false},
		{"malformed json keeps raw", `["Fire"`, []string{`["Fire"`}, true},
		{"blank entries dropped", `["Fire", " ", ""]`, []string{"Fire"}, false},
		{"quoted comma list", `"Fire", "Water"`, []string{"Fire", "Water"}, false},
		{"json keeps quotes", `["\"Quoted\" at start"]`, []string{`"Quoted" at start`}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStringList(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeStringList(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeStringList(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeRulesKeepsCommas(t *testing.T) {
	raw := "Draw 2 cards, then discard 1. | You may play only 1 Supporter card during your turn."
	got, err := DecodeRules(raw)
	if err != nil {
		t.Fatalf("DecodeRules error: %v", err)
	}
	want := []string{"Draw 2 cards, then discard 1.", "You may play only 1 Supporter card during your turn."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeRules = %q, want %q", got, want)
	}

	single, err := DecodeRules("Search your deck for a card, then shuffle.")
	if err != nil || len(single) != 1 {
		t.Errorf("DecodeRules single rule = %q, %v", single, err)
	}
}

func TestDecodeAttacks(t *testing.T) {
	attacks, err := DecodeAttacks(`[{"name":"Flare","text":"","damage":30},{"name":"Burn","text":"Discard an Energy.","damage":"120+","cost":["Fire"]}]`)
	if err != nil {
		t.Fatalf("DecodeAttacks error: %v", err)
	}
	if len(attacks) != 2 {
		t.Fatalf("DecodeAttacks returned %d attacks, want 2", len(attacks))
	}
	if attacks[0].Damage != "30" {
		t.Errorf("numeric damage decoded as %q", attacks[0].Damage)
	}
	if attacks[1].Damage != "120+" {
		t.Errorf("string damage decoded as %q", attacks[1].Damage)
	}

	for _, raw := range []string{"Flare: 30", `[{"name":`, `{"name":"Flare"}`} {
		got, err := DecodeAttacks(raw)
		if err == nil {
			t.Errorf("DecodeAttacks(%q) expected error", raw)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("DecodeAttacks(%q) = %v, want empty list", raw, got)
		}
	}
}

func TestDecodeAbilities(t *testing.T) {
	abilities, err := DecodeAbilities(`[{"name":"Quick Search","text":"Search your deck for a card.","type":"Ability"}]`)
	if err != nil {
		t.Fatalf("DecodeAbilities error: %v", err)
	}
	if len(abilities) != 1 || abilities[0].Type != "Ability" {
		t.Errorf("DecodeAbilities = %+v", abilities)
	}

	if got, err := DecodeAbilities("null"); err == nil || len(got) != 0 {
		t.Errorf("DecodeAbilities(null) = %v, %v", got, err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	attacks := []Attack{
		{Name: "Burning Darkness", Text: "This attack does 30 more damage for each Prize card your opponent has taken.", Damage: "180+", Cost: []string{"Fire", "Fire"}},
	}
	decoded, err := DecodeAttacks(EncodeAttacks(attacks))
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	if !reflect.DeepEqual(decoded, attacks) {
		t.Errorf("attacks round trip = %+v, want %+v", decoded, attacks)
	}

	types := []string{"Grass", "Psychic"}
	gotTypes, err := DecodeStringList(EncodeStringList(types))
	if err != nil || !reflect.DeepEqual(gotTypes, types) {
		t.Errorf("types round trip = %q, %v", gotTypes, err)
	}

	rules := []string{
		`Search your deck for a card named "Rare Candy"`,
		`"Quoted" at start`,
		"Draw 2 cards, then discard 1.",
	}
	gotRules, err := DecodeRules(EncodeStringList(rules))
	if err != nil || !reflect.DeepEqual(gotRules, rules) {
		t.Errorf("rules round trip = %q, %v", gotRules, err)
	}
	gotList, err := DecodeStringList(EncodeStringList(rules))
	if err != nil || !reflect.DeepEqual(gotList, rules) {
		t.Errorf("quoted list round trip = %q, %v", gotList, err)
	}

	if EncodeStringList(nil) != "" || EncodeAttacks(nil) != "" || EncodeAbilities(nil) != "" {
		t.Error("empty lists should encode to the empty string")
	}
}

func TestDamageUnmarshalNull(t *testing.T) {
	var a Attack
	if err := json.Unmarshal([]byte(`{"name":"Tackle","damage":null}`), &a); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if a.Damage != "" {
		t.Errorf("null damage decoded as %q", a.Damage)
	}
}

func TestDecklistTotalCards(t *testing.T) {
	deck := Decklist{"Charizard ex": 3, "Nest Ball": 4, "Ghost": 0, "Negative": -2}
	if got := deck.TotalCards(); got != 7 {
		t.Errorf("TotalCards() = %d, want 7", got)
	}
}

func TestPrimaryArchetypeTieBreak(t *testing.T) {
	s := SynergyAnalysis{ArchetypeFit: map[Archetype]float64{
		ArchetypeStall:   0.5,
		ArchetypeControl: 0.5,
		ArchetypeCombo:   0.2,
	}}
	if got := s.PrimaryArchetype(); got != ArchetypeControl {
		t.Errorf("PrimaryArchetype() = %s, want %s", got, ArchetypeControl)
	}

	empty := SynergyAnalysis{}
	if got := empty.PrimaryArchetype(); got != ArchetypeAggro {
		t.Errorf("PrimaryArchetype() on empty fit = %s, want %s", got, ArchetypeAggro)
	}
}
