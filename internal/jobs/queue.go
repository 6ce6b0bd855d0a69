package jobs

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// GenerationQueue runs generation requests in the background and waits for
// them on behalf of the caller.
type GenerationQueue interface {
	// Generate blocks until the job finishes or ctx ends. Once ctx ends the
	// job's result is discarded whenever it arrives.
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.Flashcard, error)
}
