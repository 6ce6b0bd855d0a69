package generation

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/vytor/flashdeck/internal/models"
)

// Generator turns a topic or a block of text into unsaved flashcards.
// Returned cards carry fresh ids, an empty deck id, a next review date of
// now and no difficulty.
type Generator interface {
	FromTopic(ctx context.Context, topic string) ([]models.Flashcard, error)
	FromText(ctx context.Context, text string) ([]models.Flashcard, error)
}

// ChatCompleter is the slice of the OpenAI client used by Client.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Ensure Client implements the interface
var _ Generator = (*Client)(nil)
