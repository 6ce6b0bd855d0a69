package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type flashcardRepository struct {
	store *Store
}

// NewFlashcardRepository creates a new FlashcardRepository backed by store
func NewFlashcardRepository(store *Store) repository.FlashcardRepository {
	return &flashcardRepository{store: store}
}

func (r *flashcardRepository) List(ctx context.Context) ([]models.Flashcard, error) {
	return r.filter(ctx, func(models.Flashcard) bool { return true })
}

func (r *flashcardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	return r.filter(ctx, func(c models.Flashcard) bool { return c.DeckID == deckID })
}

func (r *flashcardRepository) DueForDeck(ctx context.Context, deckID string, now time.Time) ([]models.Flashcard, error) {
	cards, err := r.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return flashcard.DueCards(cards, now), nil
}

func (r *flashcardRepository) filter(ctx context.Context, keep func(models.Flashcard) bool) ([]models.Flashcard, error) {
	cards := []models.Flashcard{}
	err := r.store.view(ctx, func(st *state) {
		for _, c := range st.cards {
			if keep(c) {
				cards = append(cards, c)
			}
		}
	})
	return cards, err
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	var found *models.Flashcard
	err := r.store.view(ctx, func(st *state) {
		if i := cardIndex(st.cards, id); i >= 0 {
			c := st.cards[i]
			found = &c
		}
	})
	return found, err
}

func (r *flashcardRepository) UpsertBatch(ctx context.Context, cards []models.Flashcard, onCreated repository.CreatedFunc) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	if len(cards) == 0 {
		return 0, nil
	}

	var inserted int
	err := r.store.mutate(ctx, func(st *state) ([]string, error) {
		now := r.store.now()
		inserted = 0
		index := make(map[string]int, len(st.cards))
		for i, c := range st.cards {
			index[c.ID] = i
		}
		for _, c := range cards {
			if i, ok := index[c.ID]; ok {
				stored := &st.cards[i]
				if stored.DeckID != c.DeckID {
					return nil, fmt.Errorf("%w: %s", errors.ErrCardInOtherDeck, c.ID)
				}
				// Ratings and schedules only change through Review.
				stored.Question = c.Question
				stored.Answer = c.Answer
				continue
			}
			c.Difficulty = models.DifficultyUnset
			c.NextReviewDate = now
			index[c.ID] = len(st.cards)
			st.cards = append(st.cards, c)
			inserted++
		}

		keys := []string{KeyFlashcards}
		if inserted > 0 && onCreated != nil {
			onCreated(&st.stats, inserted)
			keys = append(keys, KeyStats)
		}
		return keys, nil
	})
	if err != nil {
		log.Error("failed to upsert flashcards: %v", err)
		return 0, err
	}
	log.Debug("flashcards upserted: total=%d, inserted=%d", len(cards), inserted)
	return inserted, nil
}

func (r *flashcardRepository) Review(ctx context.Context, id string, fn repository.ReviewFunc) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	var reviewed *models.Flashcard
	err := r.store.mutate(ctx, func(st *state) ([]string, error) {
		i := cardIndex(st.cards, id)
		if i < 0 {
			return nil, nil
		}
		updated, err := fn(st.cards[i], &st.stats)
		if err != nil {
			return nil, err
		}
		updated.ID = id
		st.cards[i] = updated
		reviewed = &updated
		return []string{KeyFlashcards, KeyStats}, nil
	})
	if err != nil {
		log.Error("failed to review flashcard: %v", err)
		return nil, err
	}
	if reviewed == nil {
		log.Debug("flashcard not found for review: id=%s", id)
		return nil, nil
	}
	log.Debug("flashcard reviewed: id=%s, difficulty=%s, next=%s", id, reviewed.Difficulty, reviewed.NextReviewDate.Format(time.RFC3339))
	return reviewed, nil
}

func cardIndex(cards []models.Flashcard, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
