package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

// FlashcardsPerRequest is how many pairs the prompts ask for. The count is
// not enforced on the reply.
const FlashcardsPerRequest = 10

const exampleFormat = `Format your response as a JSON array with objects containing 'question' and 'answer' fields.
Example format:
[
  {
    "question": "What is photosynthesis?",
    "answer": "Photosynthesis is the process by which green plants and some other organisms use sunlight to synthesize foods with carbon dioxide and water, generating oxygen as a byproduct."
  }
]
Make sure the response is valid JSON and contains exactly %d flashcards.`

// TopicPrompt builds the request sent for topic based generation.
func TopicPrompt(topic string) string {
	return fmt.Sprintf("Generate %d concise flashcards with questions and answers for this topic: %s.\n",
		FlashcardsPerRequest, topic) + fmt.Sprintf(exampleFormat, FlashcardsPerRequest)
}

// TextPrompt builds the request sent for summarizing free text.
func TextPrompt(text string) string {
	return fmt.Sprintf("Summarize this text into %d flashcards with clear question-answer pairs:\n\n%s\n\n",
		FlashcardsPerRequest, text) + fmt.Sprintf(exampleFormat, FlashcardsPerRequest)
}

var jsonArray = regexp.MustCompile(`\[[\s\S]*\]`)

// Parse extracts the first JSON array from a model reply and wraps every pair
// as a new flashcard. The reply is rejected as a whole if the array is
// missing, malformed, empty, or holds a pair with a blank side.
func Parse(reply string, now time.Time) ([]models.Flashcard, error) {
	match := jsonArray.FindString(reply)
	if match == "" {
		return nil, fmt.Errorf("%w: no JSON array in reply", errors.ErrGenerationParse)
	}

	var pairs []models.QAPair
	if err := json.Unmarshal([]byte(match), &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrGenerationParse, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: reply holds no flashcards", errors.ErrGenerationParse)
	}

	cards := make([]models.Flashcard, 0, len(pairs))
	for i, p := range pairs {
		if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.Answer) == "" {
			return nil, fmt.Errorf("%w: pair %d has an empty question or answer", errors.ErrGenerationParse, i)
		}
		cards = append(cards, models.Flashcard{
			ID:             uuid.NewString(),
			Question:       p.Question,
			Answer:         p.Answer,
			DeckID:         "",
			NextReviewDate: now,
			Difficulty:     models.DifficultyUnset,
		})
	}
	return cards, nil
}
