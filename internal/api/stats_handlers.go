package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/flashdeck/internal/errors"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	overview, err := s.Stats.Overview(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, overview)
}

func (s *Server) handleStatsChart(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid days"))
			return
		}
		days = n
	}

	points, err := s.Stats.Chart(r.Context(), days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, points)
}

func (s *Server) handleStatsHeatmap(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.Stats.Heatmap(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, weeks)
}

func (s *Server) handleDeckMastery(w http.ResponseWriter, r *http.Request) {
	mastery, err := s.Stats.DeckMastery(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mastery)
}
