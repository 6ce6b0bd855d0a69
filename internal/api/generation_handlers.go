package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.GenerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Generation.Generate(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			log.Info("client disconnected before generation finished")
			return
		}
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}
