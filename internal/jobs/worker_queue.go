package jobs

import (
	"context"

	"github.com/vytor/flashdeck/internal/generation"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/worker"
)

// WorkerQueue implements GenerationQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	generator generation.Generator
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, generator generation.Generator) GenerationQueue {
	return &WorkerQueue{
		pool:      pool,
		generator: generator,
	}
}

func (q *WorkerQueue) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("generation_queue")

	done := make(chan worker.GenerationResult, 1)
	err := q.pool.Submit(&worker.GenerationJob{
		Generator: q.generator,
		Request:   req,
		Caller:    ctx,
		Done:      done,
	})
	if err != nil {
		log.Warn("failed to enqueue generation: %v", err)
		return nil, err
	}

	select {
	case res := <-done:
		return res.Flashcards, res.Err
	case <-ctx.Done():
		log.Info("caller went away, dropping generation result")
		return nil, ctx.Err()
	}
}
