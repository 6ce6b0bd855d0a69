package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockGenerationQueue is a mock implementation of jobs.GenerationQueue
type MockGenerationQueue struct {
	mock.Mock
}

func (m *MockGenerationQueue) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Flashcard, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}
