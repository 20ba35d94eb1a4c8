// Package store provides read access to persisted card records.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/codyseavey/tcg-analyzer/internal/models"
)

// ErrNotFound is returned (wrapped in *NotFoundError) when a requested card id does not exist
var ErrNotFound = errors.New("card not found")

// NotFoundError identifies the card id that could not be found.
// errors.Is(err, ErrNotFound) holds for it.
type NotFoundError struct {
	CardID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card %q not found", e.CardID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps a failure of the underlying store (unreachable database,
// schema mismatch). It is fatal for the calling operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("card store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CardStore is a read-only provider of card records
type CardStore interface {
	// GetCard returns a single card or a *NotFoundError
	GetCard(ctx context.Context, cardID string) (*models.CardRecord, error)
	// ListCards returns every card ordered by card id
	ListCards(ctx context.Context) ([]models.CardRecord, error)
}

// MemoryStore is a CardStore backed by a fixed slice, for cards that are
// already in memory
type MemoryStore struct {
	cards []models.CardRecord
	index map[string]int
}

// NewMemoryStore copies cards into a new store. Later duplicates of an id win.
func NewMemoryStore(cards []models.CardRecord) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int, len(cards))}
	for _, card := range cards {
		if idx, ok := s.index[card.CardID]; ok {
			s.cards[idx] = card
			continue
		}
		s.index[card.CardID] = len(s.cards)
		s.cards = append(s.cards, card)
	}
	return s
}

func (s *MemoryStore) GetCard(ctx context.Context, cardID string) (*models.CardRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	idx, ok := s.index[cardID]
	if !ok {
		return nil, &NotFoundError{CardID: cardID}
	}
	card := s.cards[idx]
	return &card, nil
}

func (s *MemoryStore) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	cards := make([]models.CardRecord, len(s.cards))
	copy(cards, s.cards)
	sortByID(cards)
	return cards, nil
}
