package models

import (
	"encoding/json"
	"time"
)

// Difficulty is the recall rating a user gives a card. The zero value means
// the card has never been reviewed.
type Difficulty string

const (
	DifficultyUnset  Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the valid ratings in ascending order of effort.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid reports whether d is one of easy, medium or hard.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// IsSet reports whether the card carrying d has been reviewed.
func (d Difficulty) IsSet() bool { return d != DifficultyUnset }

// MarshalJSON encodes an unset difficulty as null.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	if d == DifficultyUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null or any string; validity is checked where the
// rating is applied.
func (d *Difficulty) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = DifficultyUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = Difficulty(s)
	return nil
}

// Flashcard is a question/answer pair with its scheduling state.
type Flashcard struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	DeckID         string     `json:"deckId"`
	NextReviewDate time.Time  `json:"nextReviewDate"`
	Difficulty     Difficulty `json:"difficulty"`
}

// QAPair is the raw output unit of the generation service.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
