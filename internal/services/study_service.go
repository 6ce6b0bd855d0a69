package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/stats"
)

// StudyService handles review sessions
type StudyService interface {
	DueCards(ctx context.Context, deckID string) ([]models.Flashcard, error)
	// ReviewCard rates the stored card with card.ID. When no such card
	// exists the input is returned unchanged with found == false.
	ReviewCard(ctx context.Context, card models.Flashcard, difficulty models.Difficulty) (reviewed models.Flashcard, found bool, err error)
}

type studyService struct {
	cards repository.FlashcardRepository
	agg   *stats.Aggregator
	now   func() time.Time
}

// NewStudyService creates a new StudyService
func NewStudyService(cards repository.FlashcardRepository, agg *stats.Aggregator, now func() time.Time) StudyService {
	if now == nil {
		now = time.Now
	}
	return &studyService{cards: cards, agg: agg, now: now}
}

func (s *studyService) DueCards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	cards, err := s.cards.DueForDeck(ctx, deckID, s.now())
	if err != nil {
		logger.FromContext(ctx).Error("failed to load due flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *studyService) ReviewCard(ctx context.Context, card models.Flashcard, difficulty models.Difficulty) (models.Flashcard, bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing flashcard: id=%s, difficulty=%s", card.ID, difficulty)

	if !difficulty.IsValid() {
		return card, false, errors.NewInvalidDifficultyError(string(difficulty))
	}

	now := s.now()
	reviewed, err := s.cards.Review(ctx, card.ID, func(stored models.Flashcard, st *models.Stats) (models.Flashcard, error) {
		updated, err := flashcard.ApplyReview(stored, difficulty, now)
		if err != nil {
			return stored, err
		}
		s.agg.RecordReview(st, now)
		return updated, nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrInvalidDifficulty) {
			return card, false, errors.NewInvalidDifficultyError(string(difficulty))
		}
		log.Error("failed to review flashcard: %v", err)
		return card, false, errors.NewInternalError(err)
	}
	if reviewed == nil {
		log.Debug("flashcard not found, review skipped: id=%s", card.ID)
		return card, false, nil
	}

	log.Info("flashcard reviewed: id=%s, difficulty=%s, next_review=%s",
		reviewed.ID, reviewed.Difficulty, reviewed.NextReviewDate.Format(time.RFC3339))
	return *reviewed, true, nil
}
