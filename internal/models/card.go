package models

import (
	"encoding/json"
	"time"
)

const (
	SupertypePokemon = "Pokémon"
	SupertypeTrainer = "Trainer"
	SupertypeEnergy  = "Energy"
)

// CardRecord is a card as persisted in the card store. Types, Attacks,
// Abilities and Rules hold the raw stored text, which may be a JSON array,
// a comma or pipe separated list, or a bare scalar depending on which tool
// wrote the row. Use the Decode* helpers to read them.
type CardRecord struct {
	CardID      string    `json:"card_id" gorm:"column:card_id;primaryKey"`
	Name        string    `json:"name" gorm:"not null;index"`
	Supertype   string    `json:"supertype" gorm:"index"`
	Subtype     string    `json:"subtype"`
	HP          *int      `json:"hp"`
	Types       string    `json:"types"`
	RetreatCost *int      `json:"retreat_cost"`
	Attacks     string    `json:"attacks"`
	Abilities   string    `json:"abilities"`
	Rules       string    `json:"rules"`
	Expansion   string    `json:"expansion"`
	Number      string    `json:"number"`
	Rarity      string    `json:"rarity"`
	ImageURL    string    `json:"image_url"`
	Source      string    `json:"source"` // "pokemontcg-data", "manual"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CardRecord) TableName() string {
	return "cards"
}

// Attack represents an attack printed on a Pokemon card
type Attack struct {
	Name   string   `json:"name"`
	Text   string   `json:"text"`
	Damage Damage   `json:"damage,omitempty"`
	Cost   []string `json:"cost,omitempty"`
}

// Ability represents an ability printed on a Pokemon card
type Ability struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// Damage is the printed damage of an attack ("120", "30+", "50×").
// Older rows store it as a JSON number, newer ones as a string.
type Damage string

func (d *Damage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Damage(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Damage(n.String())
	return nil
}

// IntPtr is a convenience for building records with optional numeric fields
func IntPtr(v int) *int {
	return &v
}
