package sqlite

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type statsRepository struct {
	store *Store
}

// NewStatsRepository creates a new StatsRepository backed by store
func NewStatsRepository(store *Store) repository.StatsRepository {
	return &statsRepository{store: store}
}

func (r *statsRepository) Get(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := r.store.view(ctx, func(st *state) {
		stats = st.stats.Clone()
	})
	return stats, err
}
