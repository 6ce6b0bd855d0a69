package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// Keys of the JSON collections in the kv table.
const (
	KeyDecks      = "flashdeck_decks"
	KeyFlashcards = "flashdeck_flashcards"
	KeyStats      = "flashdeck_stats"
)

var allKeys = []string{KeyDecks, KeyFlashcards, KeyStats}

// state is one consistent view of the three collections.
type state struct {
	decks []models.Deck
	cards []models.Flashcard
	stats models.Stats
}

func (st state) clone() state {
	c := state{
		decks: make([]models.Deck, len(st.decks)),
		cards: make([]models.Flashcard, len(st.cards)),
		stats: st.stats.Clone(),
	}
	for i, d := range st.decks {
		d.Tags = cloneTags(d.Tags)
		c.decks[i] = d
	}
	copy(c.cards, st.cards)
	return c
}

func (st state) encode(key string) ([]byte, error) {
	switch key {
	case KeyDecks:
		return json.Marshal(st.decks)
	case KeyFlashcards:
		return json.Marshal(st.cards)
	case KeyStats:
		return json.Marshal(st.stats)
	}
	return nil, fmt.Errorf("unknown collection key %q", key)
}

// Store owns the deck, flashcard and stats collections for the whole process.
// Collections are loaded from the kv table on first use and kept in memory;
// every mutation runs under one lock, works on a copy, and becomes visible
// only after the affected blobs were written in a single transaction.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	loaded bool
	state  state
}

// NewStore creates a Store over db. A nil clock means time.Now.
func NewStore(db *sql.DB, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{db: db, now: now}
}

// ensureLoaded reads the persisted collections once. Callers hold s.mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("store")

	query, args, err := sqlBuilder.
		Select("key", "value").
		From("kv").
		Where(squirrel.Eq{"key": allKeys}).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query collections: %v", err)
		return err
	}
	defer rows.Close()

	st := state{
		decks: []models.Deck{},
		cards: []models.Flashcard{},
		stats: models.NewStats(),
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Error("failed to scan collection row: %v", err)
			return err
		}
		if err := st.decode(key, []byte(value)); err != nil {
			log.Error("failed to decode collection %s: %v", key, err)
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.state = st
	s.loaded = true
	log.Debug("collections loaded: decks=%d, flashcards=%d", len(st.decks), len(st.cards))
	return nil
}

func (st *state) decode(key string, value []byte) error {
	switch key {
	case KeyDecks:
		var decks []models.Deck
		if err := json.Unmarshal(value, &decks); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		for i := range decks {
			decks[i].Tags = cloneTags(decks[i].Tags)
		}
		if decks != nil {
			st.decks = decks
		}
	case KeyFlashcards:
		var cards []models.Flashcard
		if err := json.Unmarshal(value, &cards); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if cards != nil {
			st.cards = cards
		}
	case KeyStats:
		stats := models.NewStats()
		if err := json.Unmarshal(value, &stats); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if stats.StudyDays == nil {
			stats.StudyDays = map[string]int{}
		}
		st.stats = stats
	}
	return nil
}

// view runs fn against the live collections. fn must copy anything it keeps.
func (s *Store) view(ctx context.Context, fn func(st *state)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	fn(&s.state)
	return nil
}

// mutate runs fn against a working copy and persists the collections it
// reports as changed. The copy replaces the live state only after the
// transaction commits, so a failed write leaves memory and disk in agreement.
func (s *Store) mutate(ctx context.Context, fn func(st *state) ([]string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	work := s.state.clone()
	keys, err := fn(&work)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.flush(ctx, work, keys); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) flush(ctx context.Context, st state, keys []string) error {
	log := logger.FromContext(ctx).WithPrefix("store")
	updatedAt := s.now().UTC()

	return tx(ctx, s.db, func(t *sql.Tx) error {
		for _, key := range keys {
			value, err := st.encode(key)
			if err != nil {
				return err
			}
			query, args, err := sqlBuilder.
				Insert("kv").
				Columns("key", "value", "updated_at").
				Values(key, string(value), updatedAt).
				Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
				ToSql()
			if err != nil {
				return err
			}
			if _, err := t.ExecContext(ctx, query, args...); err != nil {
				log.Error("failed to write collection %s: %v", key, err)
				return err
			}
		}
		log.Debug("collections written: %v", keys)
		return nil
	})
}
