package repository

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// ReviewFunc transforms a stored card during a review. It runs inside the
// store's critical section and may update stats in place; returning an
// error aborts the whole operation.
type ReviewFunc func(card models.Flashcard, stats *models.Stats) (models.Flashcard, error)

// CreatedFunc is told how many cards an upsert batch newly inserted so it can
// update stats in the same critical section.
type CreatedFunc func(stats *models.Stats, inserted int)

// DeckRepository handles deck data access. Lookups of a missing deck return
// nil rather than an error.
type DeckRepository interface {
	List(ctx context.Context) ([]models.Deck, error)
	Get(ctx context.Context, id string) (*models.Deck, error)
	// Upsert inserts the deck with createdAt = updatedAt = now, or replaces an
	// existing deck's fields keeping its createdAt and bumping updatedAt.
	Upsert(ctx context.Context, deck models.Deck) (models.Deck, error)
	// Delete removes the deck and every card that belongs to it atomically.
	// Deleting a missing deck is a no-op.
	Delete(ctx context.Context, id string) error
}

// FlashcardRepository handles flashcard data access.
type FlashcardRepository interface {
	List(ctx context.Context) ([]models.Flashcard, error)
	ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error)
	DueForDeck(ctx context.Context, deckID string, now time.Time) ([]models.Flashcard, error)
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	// UpsertBatch upserts cards by id and returns how many ids were new.
	// New cards start unrated and due now. Stored cards keep their rating and
	// schedule and take only question and answer from the batch. A stored id
	// under a different deck fails with errors.ErrCardInOtherDeck and nothing
	// is written.
	UpsertBatch(ctx context.Context, cards []models.Flashcard, onCreated CreatedFunc) (int, error)
	// Review applies fn to the stored card with the given id and persists the
	// card and stats together. A missing id returns nil, nil and runs nothing.
	Review(ctx context.Context, id string, fn ReviewFunc) (*models.Flashcard, error)
}

// StatsRepository exposes the study counters.
type StatsRepository interface {
	// Get returns a copy of the counters, or the zero state if none were saved.
	Get(ctx context.Context) (models.Stats, error)
}

// HealthChecker reports storage availability.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
