package store

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

// saveBatchSize keeps each insert well under sqlite's bound-variable limit
const saveBatchSize = 200

// GormStore is the CardStore backed by the cards table
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates a store over an open database handle
func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{
		db:     db,
		logger: logger,
	}
}

func (s *GormStore) GetCard(ctx context.Context, cardID string) (*models.CardRecord, error) {
	var card models.CardRecord
	err := s.db.WithContext(ctx).First(&card, "card_id = ?", cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{CardID: cardID}
	}
	if err != nil {
		s.logger.Error("failed to load card", zap.String("card_id", cardID), zap.Error(err))
		return nil, &StoreError{Op: "get", Err: err}
	}
	return &card, nil
}

func (s *GormStore) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	var cards []models.CardRecord
	if err := s.db.WithContext(ctx).Order("card_id").Find(&cards).Error; err != nil {
		s.logger.Error("failed to list cards", zap.Error(err))
		return nil, &StoreError{Op: "list", Err: err}
	}
	return cards, nil
}

// SaveCards upserts cards by card id. Used by the importer.
func (s *GormStore) SaveCards(ctx context.Context, cards []models.CardRecord) error {
	if len(cards) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}},
		UpdateAll: true,
	}).CreateInBatches(&cards, saveBatchSize).Error
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

// Count returns the number of cards in the store
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CardRecord{}).Count(&count).Error; err != nil {
		return 0, &StoreError{Op: "count", Err: err}
	}
	return count, nil
}

func sortByID(cards []models.CardRecord) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CardID < cards[j].CardID
	})
}
