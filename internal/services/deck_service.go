package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/stats"
)

// DeckService handles deck-related business logic
type DeckService interface {
	// SaveDeck creates or updates a deck together with its cards. Cards
	// missing a question or an answer are dropped. New cards start unrated and
	// due now; edited cards keep their rating and schedule. A card id owned by
	// another deck is rejected with a conflict.
	SaveDeck(ctx context.Context, deck models.Deck, cards []models.Flashcard) (*models.DeckDetail, error)
	ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.DeckSummary, error)
	ListTags(ctx context.Context) ([]string, error)
	GetDeck(ctx context.Context, id string) (*models.DeckDetail, error)
	DeleteDeck(ctx context.Context, id string) error
	Flashcards(ctx context.Context, deckID string) ([]models.Flashcard, error)
}

type deckService struct {
	decks repository.DeckRepository
	cards repository.FlashcardRepository
	agg   *stats.Aggregator
	now   func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, cards repository.FlashcardRepository, agg *stats.Aggregator, now func() time.Time) DeckService {
	if now == nil {
		now = time.Now
	}
	return &deckService{decks: decks, cards: cards, agg: agg, now: now}
}

func (s *deckService) SaveDeck(ctx context.Context, deck models.Deck, cards []models.Flashcard) (*models.DeckDetail, error) {
	log := logger.FromContext(ctx)

	deck.Title = strings.TrimSpace(deck.Title)
	if deck.Title == "" {
		return nil, errors.NewValidationError("title", "please enter a title for your deck")
	}
	deck.Description = strings.TrimSpace(deck.Description)
	deck.Tags = normalizeTags(deck.Tags)

	valid := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, errors.NewNoFlashcardsError()
	}
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	for i := range valid {
		if valid[i].ID == "" {
			valid[i].ID = uuid.NewString()
			valid[i].DeckID = deck.ID
			continue
		}
		existing, err := s.cards.Get(ctx, valid[i].ID)
		if err != nil {
			log.Error("failed to get flashcard: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if existing != nil && existing.DeckID != deck.ID {
			return nil, errors.NewCardConflictError(fmt.Errorf("%w: %s", errors.ErrCardInOtherDeck, valid[i].ID))
		}
		valid[i].DeckID = deck.ID
	}

	saved, err := s.decks.Upsert(ctx, deck)
	if err != nil {
		log.Error("failed to save deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	inserted, err := s.cards.UpsertBatch(ctx, valid, s.agg.RecordCardsCreated)
	if errors.Is(err, errors.ErrCardInOtherDeck) {
		return nil, errors.NewCardConflictError(err)
	}
	if err != nil {
		log.Error("failed to save flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("deck saved: id=%s, flashcards=%d, new=%d", saved.ID, len(valid), inserted)

	return s.detail(ctx, saved)
}

func (s *deckService) ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx)

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = models.DeckSortRecent
	}
	if sortBy != models.DeckSortRecent && sortBy != models.DeckSortAlphabetical {
		return nil, errors.NewValidationError("sort", "must be 'recent' or 'alphabetical'")
	}

	decks, err := s.decks.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	cards, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	byDeck := stats.GroupByDeck(cards)
	now := s.now()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	summaries := make([]models.DeckSummary, 0, len(decks))
	for _, d := range decks {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Title), search) &&
			!strings.Contains(strings.ToLower(d.Description), search) {
			continue
		}
		if filter.Tag != "" && !d.HasTag(filter.Tag) {
			continue
		}
		deckCards := byDeck[d.ID]
		summaries = append(summaries, models.DeckSummary{
			Deck:      d,
			CardCount: len(deckCards),
			DueCount:  flashcard.CountDue(deckCards, now),
			Mastery:   stats.Mastery(deckCards),
		})
	}

	switch sortBy {
	case models.DeckSortAlphabetical:
		sort.SliceStable(summaries, func(i, j int) bool {
			return strings.ToLower(summaries[i].Title) < strings.ToLower(summaries[j].Title)
		})
	default:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		})
	}

	log.Debug("listed %d of %d decks", len(summaries), len(decks))
	return summaries, nil
}

func (s *deckService) ListTags(ctx context.Context) ([]string, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	seen := map[string]bool{}
	tags := []string{}
	for _, d := range decks {
		for _, t := range d.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.DeckDetail, error) {
	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return s.detail(ctx, *deck)
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	if err := s.decks.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}

func (s *deckService) Flashcards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *deckService) detail(ctx context.Context, deck models.Deck) (*models.DeckDetail, error) {
	cards, err := s.Flashcards(ctx, deck.ID)
	if err != nil {
		return nil, err
	}
	return &models.DeckDetail{
		Deck:       deck,
		Flashcards: cards,
		Mastery:    stats.Mastery(cards),
	}, nil
}

// normalizeTags trims tags and drops blanks and repeats, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
