package sqlite

import (
	"context"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	store *Store
}

// NewDeckRepository creates a new DeckRepository backed by store
func NewDeckRepository(store *Store) repository.DeckRepository {
	return &deckRepository{store: store}
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.store.view(ctx, func(st *state) {
		decks = make([]models.Deck, len(st.decks))
		for i, d := range st.decks {
			d.Tags = cloneTags(d.Tags)
			decks[i] = d
		}
	})
	return decks, err
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	var found *models.Deck
	err := r.store.view(ctx, func(st *state) {
		if i := deckIndex(st.decks, id); i >= 0 {
			d := st.decks[i]
			d.Tags = cloneTags(d.Tags)
			found = &d
		}
	})
	return found, err
}

func (r *deckRepository) Upsert(ctx context.Context, deck models.Deck) (models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	deck.Tags = cloneTags(deck.Tags)

	err := r.store.mutate(ctx, func(st *state) ([]string, error) {
		now := r.store.now()
		if i := deckIndex(st.decks, deck.ID); i >= 0 {
			deck.CreatedAt = st.decks[i].CreatedAt
			deck.UpdatedAt = now
			if deck.UpdatedAt.Before(deck.CreatedAt) {
				deck.UpdatedAt = deck.CreatedAt
			}
			st.decks[i] = deck
			log.Debug("updating deck: id=%s", deck.ID)
		} else {
			deck.CreatedAt = now
			deck.UpdatedAt = now
			st.decks = append(st.decks, deck)
			log.Debug("inserting deck: id=%s", deck.ID)
		}
		return []string{KeyDecks}, nil
	})
	if err != nil {
		log.Error("failed to upsert deck: %v", err)
		return models.Deck{}, err
	}
	deck.Tags = cloneTags(deck.Tags)
	return deck, nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	var removedCards int
	err := r.store.mutate(ctx, func(st *state) ([]string, error) {
		var keys []string
		if i := deckIndex(st.decks, id); i >= 0 {
			st.decks = append(st.decks[:i], st.decks[i+1:]...)
			keys = append(keys, KeyDecks)
		}
		kept := st.cards[:0]
		for _, c := range st.cards {
			if c.DeckID == id {
				removedCards++
				continue
			}
			kept = append(kept, c)
		}
		st.cards = kept
		if removedCards > 0 {
			keys = append(keys, KeyFlashcards)
		}
		return keys, nil
	})
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	log.Debug("deck deleted: id=%s, flashcards_removed=%d", id, removedCards)
	return nil
}

func deckIndex(decks []models.Deck, id string) int {
	for i, d := range decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}
