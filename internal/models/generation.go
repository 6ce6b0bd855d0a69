package models

// GenerationRequest asks for flashcards from either a topic or a text.
type GenerationRequest struct {
	Topic string `json:"topic,omitempty"`
	Text  string `json:"text,omitempty"`
}
