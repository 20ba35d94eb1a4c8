package database

import (
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

const migrationBatchSize = 500

// RunMigrations runs custom data migrations after schema changes.
// Every step is safe to run multiple times.
func RunMigrations(db *gorm.DB) error {
	if err := migrateSupertypeSpelling(db); err != nil {
		return err
	}
	if err := migrateLegacyListFields(db); err != nil {
		return err
	}
	return nil
}

// migrateSupertypeSpelling normalizes "Pokemon"/"pokémon" spellings written by
// older importers to the canonical "Pokémon"
func migrateSupertypeSpelling(db *gorm.DB) error {
	result := db.Exec(`
		UPDATE cards
		SET supertype = ?
		WHERE supertype <> ? AND LOWER(supertype) IN ('pokemon', 'pokémon')
	`, models.SupertypePokemon, models.SupertypePokemon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized supertype spelling on %d cards", result.RowsAffected)
	}
	return nil
}

// migrateLegacyListFields rewrites types stored comma-joined and rules stored
// " | "-joined into the canonical JSON array form. Rows whose fields are
// already JSON (or empty) are left alone.
func migrateLegacyListFields(db *gorm.DB) error {
	var legacy []models.CardRecord
	migrated := 0

	err := db.Where("(types <> '' AND types NOT LIKE '[%') OR (rules <> '' AND rules NOT LIKE '[%')").
		FindInBatches(&legacy, migrationBatchSize, func(tx *gorm.DB, batch int) error {
			for i := range legacy {
				card := &legacy[i]
				updates := map[string]interface{}{}

				if card.Types != "" && !strings.HasPrefix(card.Types, "[") {
					types, _ := models.DecodeStringList(card.Types)
					updates["types"] = models.EncodeStringList(types)
				}
				if card.Rules != "" && !strings.HasPrefix(card.Rules, "[") {
					rules, _ := models.DecodeRules(card.Rules)
					updates["rules"] = models.EncodeStringList(rules)
				}

				if len(updates) == 0 {
					continue
				}
				if err := db.Model(&models.CardRecord{}).Where("card_id = ?", card.CardID).Updates(updates).Error; err != nil {
					log.Printf("Warning: failed to migrate list fields for card %s: %v", card.CardID, err)
					continue
				}
				migrated++
			}
			return nil
		}).Error
	if err != nil {
		return err
	}

	if migrated > 0 {
		log.Printf("Migrated list fields on %d legacy cards", migrated)
	}
	return nil
}
