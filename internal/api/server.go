package api

import (
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/services"
)

type Server struct {
	Decks       services.DeckService
	Study       services.StudyService
	Stats       services.StatsService
	Generation  services.GenerationService
	Health      repository.HealthChecker
	CORSOrigins []string
}
