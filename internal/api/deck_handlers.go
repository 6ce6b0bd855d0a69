package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

type saveDeckRequest struct {
	Deck       models.Deck        `json:"deck"`
	Flashcards []models.Flashcard `json:"flashcards"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.DeckFilter{
		Search: q.Get("q"),
		Tag:    q.Get("tag"),
		SortBy: q.Get("sort"),
	}

	decks, err := s.Decks.ListDecks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.Decks.ListTags(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tags)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req saveDeckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	creating := req.Deck.ID == ""
	detail, err := s.Decks.SaveDeck(r.Context(), req.Deck, req.Flashcards)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	log.Info("deck saved: id=%s, flashcards=%d", detail.ID, len(detail.Flashcards))
	writeJSON(w, r, status, detail)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	detail, err := s.Decks.GetDeck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.DeleteDeck(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Decks.Flashcards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}
