package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/worker"
)

// MaxGenerationTextLength caps the text accepted for summarizing.
const MaxGenerationTextLength = 20000

// GenerationService produces unsaved flashcards from a topic or a text.
type GenerationService interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.Flashcard, error)
}

type generationService struct {
	queue jobs.GenerationQueue
}

// NewGenerationService creates a new GenerationService. A nil queue means
// generation is not configured.
func NewGenerationService(queue jobs.GenerationQueue) GenerationService {
	return &generationService{queue: queue}
}

func (s *generationService) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)

	req.Topic = strings.TrimSpace(req.Topic)
	req.Text = strings.TrimSpace(req.Text)
	switch {
	case req.Topic == "" && req.Text == "":
		return nil, errors.NewValidationError("topic", "provide a topic or a text")
	case req.Topic != "" && req.Text != "":
		return nil, errors.NewValidationError("topic", "provide either a topic or a text, not both")
	case len(req.Text) > MaxGenerationTextLength:
		return nil, errors.NewValidationError("text", "text is too long")
	}

	if s.queue == nil {
		return nil, errors.NewGenerationUnavailableError()
	}

	cards, err := s.queue.Generate(ctx, req)
	switch {
	case err == nil:
		return cards, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrPoolStopped):
		return nil, errors.NewGenerationUnavailableError()
	case errors.Is(err, errors.ErrGenerationParse):
		log.Warn("generation output rejected: %v", err)
		return nil, errors.NewGenerationParseError(err)
	default:
		log.Error("generation failed: %v", err)
		return nil, errors.NewGenerationFailedError(err)
	}
}
