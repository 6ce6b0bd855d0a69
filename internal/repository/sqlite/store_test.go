package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/db"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/stats"
	"github.com/vytor/flashdeck/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	db    *db.DB
	clock *testutil.Clock
	decks repository.DeckRepository
	cards repository.FlashcardRepository
	stats repository.StatsRepository
	agg   *stats.Aggregator
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.clock = testutil.NewClock(testutil.Date(2024, time.January, 1, 0, 0))
	s.agg = stats.New(time.UTC)
	s.open()
}

// open builds fresh repositories over the same database, as a restart would.
func (s *StoreSuite) open() {
	store := sqlite.NewStore(s.db.DB, s.clock.Now)
	s.decks = sqlite.NewDeckRepository(store)
	s.cards = sqlite.NewFlashcardRepository(store)
	s.stats = sqlite.NewStatsRepository(store)
}

func (s *StoreSuite) newCard(id, deckID, question string) models.Flashcard {
	return models.Flashcard{
		ID:             id,
		Question:       question,
		Answer:         "answer to " + question,
		DeckID:         deckID,
		NextReviewDate: s.clock.Now(),
	}
}

func (s *StoreSuite) recordCreated(st *models.Stats, n int) {
	s.agg.RecordCardsCreated(st, n)
}

func (s *StoreSuite) TestEmptyStore() {
	decks, err := s.decks.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(decks)
	s.Empty(decks)

	cards, err := s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(cards)
	s.Empty(cards)

	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, st.Streak)
	s.Nil(st.LastStudyDate)
	s.NotNil(st.StudyDays)

	deck, err := s.decks.Get(s.ctx, "missing")
	s.Require().NoError(err)
	s.Nil(deck)
}

func (s *StoreSuite) TestSaveDeckWithCards() {
	_, err := s.decks.Upsert(s.ctx, models.Deck{ID: "d1", Title: "Bio", Tags: []string{"science"}})
	s.Require().NoError(err)

	inserted, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{
		s.newCard("c1", "d1", "What is DNA?"),
		s.newCard("c2", "d1", "What is RNA?"),
	}, s.recordCreated)
	s.Require().NoError(err)
	s.Equal(2, inserted)

	cards, err := s.cards.ListByDeck(s.ctx, "d1")
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	for _, c := range cards {
		s.False(c.Difficulty.IsSet())
	}

	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, st.CardsCreated)
}

func (s *StoreSuite) TestUpsertDeckPreservesCreatedAt() {
	first, err := s.decks.Upsert(s.ctx, models.Deck{ID: "d1", Title: "Bio"})
	s.Require().NoError(err)
	s.Equal(first.CreatedAt, first.UpdatedAt)

	s.clock.Advance(time.Minute)
	second, err := s.decks.Upsert(s.ctx, models.Deck{ID: "d1", Title: "Biology"})
	s.Require().NoError(err)

	s.True(second.CreatedAt.Equal(first.CreatedAt))
	s.True(second.UpdatedAt.After(first.UpdatedAt))

	decks, err := s.decks.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Equal("Biology", decks[0].Title)
}

func (s *StoreSuite) TestDeleteDeckCascades() {
	_, err := s.decks.Upsert(s.ctx, models.Deck{ID: "d1", Title: "Bio"})
	s.Require().NoError(err)
	_, err = s.decks.Upsert(s.ctx, models.Deck{ID: "d2", Title: "Chem"})
	s.Require().NoError(err)
	_, err = s.cards.UpsertBatch(s.ctx, []models.Flashcard{
		s.newCard("c1", "d1", "q1"),
		s.newCard("c2", "d2", "q2"),
		s.newCard("c3", "d1", "q3"),
	}, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.decks.Delete(s.ctx, "d1"))

	deck, err := s.decks.Get(s.ctx, "d1")
	s.Require().NoError(err)
	s.Nil(deck)

	remaining, err := s.cards.ListByDeck(s.ctx, "d1")
	s.Require().NoError(err)
	s.Empty(remaining)

	all, err := s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("c2", all[0].ID)

	// the cascade must survive a reload
	s.open()
	all, err = s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *StoreSuite) TestDeleteMissingDeckIsNoop() {
	s.NoError(s.decks.Delete(s.ctx, "missing"))
}

func (s *StoreSuite) TestUpsertBatchCountsOnlyNewIDs() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, s.recordCreated)
	s.Require().NoError(err)

	edited := s.newCard("c1", "d1", "q1 edited")
	inserted, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{edited, s.newCard("c2", "d1", "q2")}, s.recordCreated)
	s.Require().NoError(err)
	s.Equal(1, inserted)

	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, st.CardsCreated)

	card, err := s.cards.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Equal("q1 edited", card.Question)
}

func (s *StoreSuite) TestUpsertBatchDuplicateIDsInOneBatch() {
	inserted, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{
		s.newCard("c1", "d1", "first"),
		s.newCard("c1", "d1", "second"),
	}, s.recordCreated)
	s.Require().NoError(err)
	s.Equal(1, inserted)

	cards, err := s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Equal("second", cards[0].Question)
}

func (s *StoreSuite) TestUpsertBatchNewCardsStartUnratedAndDue() {
	card := s.newCard("c1", "d1", "q1")
	card.Difficulty = models.DifficultyEasy
	card.NextReviewDate = testutil.Date(2030, time.January, 1, 0, 0)
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{card}, nil)
	s.Require().NoError(err)

	stored, err := s.cards.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.False(stored.Difficulty.IsSet())
	s.True(stored.NextReviewDate.Equal(s.clock.Now()))
}

func (s *StoreSuite) TestUpsertBatchKeepsScheduleOfStoredCards() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, nil)
	s.Require().NoError(err)
	reviewed, err := s.cards.Review(s.ctx, "c1", s.reviewWith(models.DifficultyMedium, s.clock.Now()))
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	edited := s.newCard("c1", "d1", "q1 edited")
	edited.Answer = "new answer"
	edited.Difficulty = models.DifficultyEasy
	edited.NextReviewDate = testutil.Date(2030, time.January, 1, 0, 0)
	_, err = s.cards.UpsertBatch(s.ctx, []models.Flashcard{edited}, nil)
	s.Require().NoError(err)

	s.open()
	stored, err := s.cards.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal("q1 edited", stored.Question)
	s.Equal("new answer", stored.Answer)
	s.Equal(models.DifficultyMedium, stored.Difficulty)
	s.True(stored.NextReviewDate.Equal(reviewed.NextReviewDate))
}

func (s *StoreSuite) TestUpsertBatchRejectsCardFromOtherDeck() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, s.recordCreated)
	s.Require().NoError(err)

	_, err = s.cards.UpsertBatch(s.ctx, []models.Flashcard{
		s.newCard("c2", "d2", "q2"),
		s.newCard("c1", "d2", "moved"),
	}, s.recordCreated)
	s.ErrorIs(err, apperrors.ErrCardInOtherDeck)

	s.open()
	cards, err := s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Equal("d1", cards[0].DeckID)
	s.Equal("q1", cards[0].Question)

	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, st.CardsCreated)
}

func (s *StoreSuite) TestConcurrentReviewsAreSerialized() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, nil)
	s.Require().NoError(err)

	const n = 50
	now := s.clock.Now()
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cards.Review(s.ctx, "c1", s.reviewWith(models.DifficultyEasy, now))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	s.open()
	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(n, st.CardsReviewed)
	s.Equal(n, st.StudyDays["2024-01-01"])
}

func (s *StoreSuite) TestConcurrentUpsertsCountEveryCard() {
	const n = 50
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard(id, "d1", id)}, s.recordCreated)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	s.open()
	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(n, st.CardsCreated)

	cards, err := s.cards.List(s.ctx)
	s.Require().NoError(err)
	s.Len(cards, n)
}

func (s *StoreSuite) reviewWith(d models.Difficulty, now time.Time) repository.ReviewFunc {
	return func(card models.Flashcard, st *models.Stats) (models.Flashcard, error) {
		updated, err := flashcard.ApplyReview(card, d, now)
		if err != nil {
			return card, err
		}
		s.agg.RecordReview(st, now)
		return updated, nil
	}
}

func (s *StoreSuite) TestReviewHard() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, nil)
	s.Require().NoError(err)

	now := s.clock.Now()
	card, err := s.cards.Review(s.ctx, "c1", s.reviewWith(models.DifficultyHard, now))
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Equal(models.DifficultyHard, card.Difficulty)
	s.Equal(testutil.Date(2024, time.January, 1, 4, 0), card.NextReviewDate.UTC())

	s.open()
	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, st.CardsReviewed)
	s.Equal(1, st.StudyDays["2024-01-01"])

	stored, err := s.cards.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(models.DifficultyHard, stored.Difficulty)
}

func (s *StoreSuite) TestReviewMissingCard() {
	called := false
	card, err := s.cards.Review(s.ctx, "missing", func(c models.Flashcard, st *models.Stats) (models.Flashcard, error) {
		called = true
		return c, nil
	})
	s.Require().NoError(err)
	s.Nil(card)
	s.False(called)
}

func (s *StoreSuite) TestReviewErrorPersistsNothing() {
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{s.newCard("c1", "d1", "q1")}, nil)
	s.Require().NoError(err)

	boom := errors.New("boom")
	_, err = s.cards.Review(s.ctx, "c1", func(c models.Flashcard, st *models.Stats) (models.Flashcard, error) {
		st.CardsReviewed = 99
		c.Difficulty = models.DifficultyEasy
		return c, boom
	})
	s.ErrorIs(err, boom)

	st, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, st.CardsReviewed)

	card, err := s.cards.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.False(card.Difficulty.IsSet())
}

func (s *StoreSuite) TestDueForDeck() {
	now := s.clock.Now()
	_, err := s.cards.UpsertBatch(s.ctx, []models.Flashcard{
		s.newCard("c1", "d1", "now"),
		s.newCard("c2", "d1", "later"),
		s.newCard("c3", "d2", "other deck"),
	}, nil)
	s.Require().NoError(err)
	_, err = s.cards.Review(s.ctx, "c2", s.reviewWith(models.DifficultyHard, now))
	s.Require().NoError(err)

	due, err := s.cards.DueForDeck(s.ctx, "d1", now)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal("c1", due[0].ID)
}

func (s *StoreSuite) TestReturnedDecksAreCopies() {
	_, err := s.decks.Upsert(s.ctx, models.Deck{ID: "d1", Title: "Bio", Tags: []string{"science"}})
	s.Require().NoError(err)

	deck, err := s.decks.Get(s.ctx, "d1")
	s.Require().NoError(err)
	deck.Tags[0] = "mutated"

	again, err := s.decks.Get(s.ctx, "d1")
	s.Require().NoError(err)
	s.Equal([]string{"science"}, again.Tags)
}

func (s *StoreSuite) TestCorruptCollectionIsReported() {
	_, err := s.db.ExecContext(s.ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, sqlite.KeyDecks, "{not json")
	s.Require().NoError(err)

	_, err = s.decks.List(s.ctx)
	s.Error(err)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
