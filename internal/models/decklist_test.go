package models

import (
	"reflect"
	"testing"
)

func TestParseDecklist(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Decklist
		wantErr bool
	}{
		{
			name:  "json wrapper",
			input: `{"decklist": {"Charizard ex": 3, "Nest Ball": 4}}`,
			want:  Decklist{"Charizard ex": 3, "Nest Ball": 4},
		},
		{
			name:  "bare json",
			input: `{"Charizard ex": 3}`,
			want:  Decklist{"Charizard ex": 3},
		},
		{
			name:  "yaml deck file",
			input: "name: Zard\ndecklist:\n  Charizard ex: 3\n  \"Professor's Research\": 4\n",
			want:  Decklist{"Charizard ex": 3, "Professor's Research": 4},
		},
		{
			name:  "empty document",
			input: "",
			want:  Decklist{},
		},
		{
			name:    "negative quantity",
			input:   `{"Nest Ball": -1}`,
			wantErr: true,
		},
		{
			name:    "not a mapping",
			input:   `["Nest Ball"]`,
			wantErr: true,
		},
		{
			name:    "non numeric quantity",
			input:   `{"Nest Ball": "four"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecklist([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecklist() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDecklist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecklistFilterFeatures(t *testing.T) {
	deck := Decklist{"Charizard ex": 3, "Iono": 0}
	features := []CardFeatures{
		{CardID: "sv3-125", Name: "Charizard ex"},
		{CardID: "sv4-185", Name: "Iono"},
		{CardID: "pr-sv-56", Name: "Charizard ex"},
		{CardID: "sv1-196", Name: "Nest Ball"},
	}

	got := deck.FilterFeatures(features)
	var ids []string
	for _, f := range got {
		ids = append(ids, f.CardID)
	}
	want := []string{"sv3-125", "pr-sv-56"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("FilterFeatures() ids = %v, want %v", ids, want)
	}
}
