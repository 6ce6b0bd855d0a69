package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/stats"
)

// MaxChartDays bounds the chart request.
const MaxChartDays = 365

// StatsService handles statistics-related business logic
type StatsService interface {
	Overview(ctx context.Context) (*models.StatsOverview, error)
	Chart(ctx context.Context, days int) ([]models.ChartPoint, error)
	Heatmap(ctx context.Context, rng string) ([]models.HeatmapWeek, error)
	DeckMastery(ctx context.Context) ([]models.DeckMastery, error)
}

type statsService struct {
	stats repository.StatsRepository
	decks repository.DeckRepository
	cards repository.FlashcardRepository
	agg   *stats.Aggregator
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository, decks repository.DeckRepository, cards repository.FlashcardRepository, agg *stats.Aggregator, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{stats: statsRepo, decks: decks, cards: cards, agg: agg, now: now}
}

func (s *statsService) Overview(ctx context.Context) (*models.StatsOverview, error) {
	log := logger.FromContext(ctx)

	st, err := s.stats.Get(ctx)
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
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

	overview := s.agg.Overview(st, decks, cards, s.now())
	return &overview, nil
}

func (s *statsService) Chart(ctx context.Context, days int) ([]models.ChartPoint, error) {
	if days < 0 || days > MaxChartDays {
		return nil, errors.NewValidationError("days", "must be between 1 and 365")
	}
	st, err := s.stats.Get(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.agg.ChartSeries(st, s.now(), days), nil
}

func (s *statsService) Heatmap(ctx context.Context, rng string) ([]models.HeatmapWeek, error) {
	if rng == "" {
		rng = stats.DefaultRange
	}
	if !stats.IsValidRange(rng) {
		return nil, errors.NewValidationError("range", "must be 'week', 'month' or 'year'")
	}
	st, err := s.stats.Get(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.agg.Heatmap(st, s.now(), rng), nil
}

func (s *statsService) DeckMastery(ctx context.Context) ([]models.DeckMastery, error) {
	log := logger.FromContext(ctx)
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
	return stats.DeckMastery(decks, cards), nil
}
