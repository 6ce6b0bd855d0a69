package models

import "time"

// Deck is a named, tagged collection of flashcards.
type Deck struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasTag reports whether tag is attached to the deck.
func (d Deck) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

const (
	DeckSortRecent       = "recent"
	DeckSortAlphabetical = "alphabetical"
)

// DeckFilter narrows and orders a deck listing.
type DeckFilter struct {
	Search string
	Tag    string
	SortBy string
}

// DeckSummary is a deck together with figures derived from its cards.
type DeckSummary struct {
	Deck
	CardCount int `json:"cardCount"`
	DueCount  int `json:"dueCount"`
	Mastery   int `json:"mastery"`
}

// DeckDetail is a deck with all of its cards.
type DeckDetail struct {
	Deck
	Flashcards []Flashcard `json:"flashcards"`
	Mastery    int         `json:"mastery"`
}
