package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

type reviewRequest struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Study.DueCards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context()).WithFields(map[string]any{
		"flashcard_id": id,
		"difficulty":   req.Difficulty,
	})
	log.Debug("reviewing flashcard")

	card, found, err := s.Study.ReviewCard(r.Context(), models.Flashcard{ID: id}, models.Difficulty(req.Difficulty))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !found {
		// The card was deleted in the meantime; tell the client to refresh.
		handleError(w, r, errors.NewNotFoundError("flashcard", id))
		return
	}

	log.Info("flashcard reviewed successfully")
	writeJSON(w, r, http.StatusOK, card)
}
