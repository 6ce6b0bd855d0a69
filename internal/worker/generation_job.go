package worker

import (
	"context"

	"github.com/vytor/flashdeck/internal/generation"
	"github.com/vytor/flashdeck/internal/models"
)

// GenerationResult is what a GenerationJob hands back to its caller.
type GenerationResult struct {
	Flashcards []models.Flashcard
	Err        error
}

// GenerationJob runs one generation request. The job is tied to the caller's
// context as well as the pool's, so a caller that gives up cancels the
// outgoing call.
type GenerationJob struct {
	Generator generation.Generator
	Request   models.GenerationRequest
	Caller    context.Context
	// Done receives exactly one result; it must be buffered so an abandoned
	// caller never blocks the worker.
	Done chan<- GenerationResult
}

func (j *GenerationJob) Name() string {
	if j.Request.Topic != "" {
		return "generate_from_topic"
	}
	return "generate_from_text"
}

func (j *GenerationJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if j.Caller != nil {
		stop := context.AfterFunc(j.Caller, cancel)
		defer stop()
	}

	var res GenerationResult
	if j.Request.Topic != "" {
		res.Flashcards, res.Err = j.Generator.FromTopic(ctx, j.Request.Topic)
	} else {
		res.Flashcards, res.Err = j.Generator.FromText(ctx, j.Request.Text)
	}

	select {
	case j.Done <- res:
	default:
	}
	return res.Err
}
