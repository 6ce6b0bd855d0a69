package services_test

import (
	"testing"
	"time"

	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/stats"
	"github.com/vytor/flashdeck/internal/testutil"
)

// storeEnv wires the services over a real in-memory store.
type storeEnv struct {
	decks services.DeckService
	study services.StudyService
	stats services.StatsService
}

func newStoreEnv(t *testing.T) storeEnv {
	return newStoreEnvAt(t, clock)
}

func newStoreEnvAt(t *testing.T, now func() time.Time) storeEnv {
	database := testutil.NewTestDB(t)
	store := sqlite.NewStore(database.DB, now)
	deckRepo := sqlite.NewDeckRepository(store)
	cardRepo := sqlite.NewFlashcardRepository(store)
	statsRepo := sqlite.NewStatsRepository(store)
	agg := stats.New(time.UTC)

	return storeEnv{
		decks: services.NewDeckService(deckRepo, cardRepo, agg, now),
		study: services.NewStudyService(cardRepo, agg, now),
		stats: services.NewStatsService(statsRepo, deckRepo, cardRepo, agg, now),
	}
}
