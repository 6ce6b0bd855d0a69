package flashcard

import (
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

// Review intervals. Day steps are calendar days so they follow the local
// clock across DST changes; the hard step is an absolute duration.
const (
	EasyIntervalDays   = 3
	MediumIntervalDays = 1
	HardInterval       = 4 * time.Hour
)

// NextReviewDate returns when a card rated d at now becomes due again.
// Ratings other than easy, medium and hard are rejected.
func NextReviewDate(now time.Time, d models.Difficulty) (time.Time, error) {
	switch d {
	case models.DifficultyEasy:
		return now.AddDate(0, 0, EasyIntervalDays), nil
	case models.DifficultyMedium:
		return now.AddDate(0, 0, MediumIntervalDays), nil
	case models.DifficultyHard:
		return now.Add(HardInterval), nil
	default:
		return now, fmt.Errorf("%w: %q", errors.ErrInvalidDifficulty, string(d))
	}
}

// ApplyReview returns card rated d at now. The input card is not modified.
func ApplyReview(card models.Flashcard, d models.Difficulty, now time.Time) (models.Flashcard, error) {
	next, err := NextReviewDate(now, d)
	if err != nil {
		return card, err
	}
	card.Difficulty = d
	card.NextReviewDate = next
	return card, nil
}

// IsDue reports whether card may be studied at now.
func IsDue(card models.Flashcard, now time.Time) bool {
	return !card.NextReviewDate.After(now)
}

// DueCards keeps the due cards of cards in their original order.
func DueCards(cards []models.Flashcard, now time.Time) []models.Flashcard {
	due := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	return due
}

// CountDue is len(DueCards(cards, now)) without the allocation.
func CountDue(cards []models.Flashcard, now time.Time) int {
	n := 0
	for _, c := range cards {
		if IsDue(c, now) {
			n++
		}
	}
	return n
}
