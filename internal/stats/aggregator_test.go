package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/stats"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func cardsWith(ds ...models.Difficulty) []models.Flashcard {
	cards := make([]models.Flashcard, len(ds))
	for i, d := range ds {
		cards[i] = models.Flashcard{ID: string(rune('a' + i)), Difficulty: d}
	}
	return cards
}

func TestRecordReview_FirstReview(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()

	agg.RecordReview(&s, day(1, 9))

	assert.Equal(t, 1, s.Streak)
	assert.Equal(t, 1, s.CardsReviewed)
	assert.Equal(t, 1, s.StudyDays["2024-01-01"])
	require.NotNil(t, s.LastStudyDate)
	assert.Equal(t, day(1, 9), *s.LastStudyDate)
}

func TestRecordReview_Streak(t *testing.T) {
	tests := []struct {
		name     string
		reviews  []time.Time
		expected int
	}{
		{name: "consecutive days", reviews: []time.Time{day(1, 10), day(2, 10)}, expected: 2},
		{name: "gap resets", reviews: []time.Time{day(1, 10), day(4, 10)}, expected: 1},
		{name: "same day unchanged", reviews: []time.Time{day(1, 10), day(1, 18)}, expected: 1},
		{name: "late night then early morning", reviews: []time.Time{day(1, 23), day(2, 0)}, expected: 2},
		{name: "three day run", reviews: []time.Time{day(1, 8), day(2, 8), day(2, 9), day(3, 22)}, expected: 3},
		{name: "run broken then restarted", reviews: []time.Time{day(1, 8), day(2, 8), day(5, 8), day(6, 8)}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := stats.New(time.UTC)
			s := models.NewStats()
			for _, r := range tt.reviews {
				agg.RecordReview(&s, r)
			}
			assert.Equal(t, tt.expected, s.Streak)
			assert.Equal(t, len(tt.reviews), s.CardsReviewed)
		})
	}
}

func TestRecordReview_SameDayCountsAccumulate(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()

	agg.RecordReview(&s, day(3, 8))
	agg.RecordReview(&s, day(3, 9))
	agg.RecordReview(&s, day(3, 10))

	assert.Equal(t, 3, s.StudyDays["2024-01-03"])
	assert.Equal(t, 1, s.Streak)
}

func TestRecordReview_UsesLocationForCalendarDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	agg := stats.New(loc)
	s := models.NewStats()

	// 2024-01-02 03:00 UTC is still Jan 1 at UTC-5.
	agg.RecordReview(&s, time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, s.StudyDays["2024-01-01"])
	assert.Zero(t, s.StudyDays["2024-01-02"])
}

func TestRecordReview_NilStudyDays(t *testing.T) {
	agg := stats.New(nil)
	s := models.Stats{}

	agg.RecordReview(&s, day(1, 1))

	assert.Equal(t, 1, s.StudyDays["2024-01-01"])
}

func TestRecordCardsCreated(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()

	agg.RecordCardsCreated(&s, 3)
	agg.RecordCardsCreated(&s, 0)
	agg.RecordCardsCreated(&s, -2)

	assert.Equal(t, 3, s.CardsCreated)
}

func TestMastery(t *testing.T) {
	e, m, h, u := models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyUnset

	assert.Equal(t, 0, stats.Mastery(nil))
	assert.Equal(t, 0, stats.Mastery([]models.Flashcard{}))
	assert.Equal(t, 100, stats.Mastery(cardsWith(e, e)))
	assert.Equal(t, 50, stats.Mastery(cardsWith(m, m)))
	assert.Equal(t, 0, stats.Mastery(cardsWith(h, u)))
	assert.Equal(t, 50, stats.Mastery(cardsWith(e, h)))
	// (1 + 0.5) / 3 = 50%
	assert.Equal(t, 50, stats.Mastery(cardsWith(e, m, u)))
	// 0.5 / 3 = 16.67% rounds to 17
	assert.Equal(t, 17, stats.Mastery(cardsWith(m, h, u)))
	// 0.5 / 8 = 6.25% rounds to 6
	assert.Equal(t, 6, stats.Mastery(cardsWith(m, u, u, u, u, u, u, u)))
}

func TestMastery_Bounds(t *testing.T) {
	all := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyUnset}
	// every multiset of up to four cards
	var walk func(prefix []models.Difficulty)
	walk = func(prefix []models.Difficulty) {
		got := stats.Mastery(cardsWith(prefix...))
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		if len(prefix) == 4 {
			return
		}
		for _, d := range all {
			walk(append(append([]models.Difficulty{}, prefix...), d))
		}
	}
	walk(nil)
}

func TestMasteryLevel(t *testing.T) {
	assert.Equal(t, stats.LevelBeginner, stats.MasteryLevel(0))
	assert.Equal(t, stats.LevelBeginner, stats.MasteryLevel(39))
	assert.Equal(t, stats.LevelIntermediate, stats.MasteryLevel(40))
	assert.Equal(t, stats.LevelAdvanced, stats.MasteryLevel(60))
	assert.Equal(t, stats.LevelMaster, stats.MasteryLevel(80))
	assert.Equal(t, stats.LevelMaster, stats.MasteryLevel(100))
}

func TestBreakdown(t *testing.T) {
	b := stats.Breakdown(cardsWith(models.DifficultyEasy, models.DifficultyHard, models.DifficultyHard, models.DifficultyUnset))

	assert.Equal(t, 4, b.Total)
	assert.Equal(t, 1, b.Easy)
	assert.Equal(t, 0, b.Medium)
	assert.Equal(t, 2, b.Hard)
	assert.Equal(t, 1, b.Unrated)
	assert.Equal(t, 25, b.EasyPercentage)
	assert.Equal(t, 0, b.MediumPercentage)
	assert.Equal(t, 50, b.HardPercentage)

	empty := stats.Breakdown(nil)
	assert.Zero(t, empty.EasyPercentage)
}

func TestDeckMastery_SortedDescending(t *testing.T) {
	decks := []models.Deck{{ID: "d1", Title: "Bio"}, {ID: "d2", Title: "Chem"}, {ID: "d3", Title: "Empty"}}
	cards := []models.Flashcard{
		{ID: "1", DeckID: "d1", Difficulty: models.DifficultyHard},
		{ID: "2", DeckID: "d2", Difficulty: models.DifficultyEasy},
		{ID: "3", DeckID: "d2", Difficulty: models.DifficultyMedium},
	}

	got := stats.DeckMastery(decks, cards)

	require.Len(t, got, 3)
	assert.Equal(t, "d2", got[0].DeckID)
	assert.Equal(t, 75, got[0].Mastery)
	assert.Equal(t, 2, got[0].TotalCards)
	assert.Equal(t, "d1", got[1].DeckID)
	assert.Equal(t, "d3", got[2].DeckID)
	assert.Equal(t, 0, got[2].TotalCards)
}

func TestChartSeries(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()
	s.StudyDays["2024-01-07"] = 4
	s.StudyDays["2024-01-01"] = 2
	s.StudyDays["2023-12-31"] = 9 // outside the window

	points := agg.ChartSeries(s, day(7, 15), 7)

	require.Len(t, points, 7)
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, "Mon", points[0].Day)
	assert.Equal(t, 2, points[0].Cards)
	assert.Equal(t, "2024-01-07", points[6].Date)
	assert.Equal(t, "Sun", points[6].Day)
	assert.Equal(t, 4, points[6].Cards)
	for _, p := range points[1:6] {
		assert.Zero(t, p.Cards)
	}

	assert.Len(t, agg.ChartSeries(s, day(7, 15), 0), stats.DefaultChartDays)
	assert.Len(t, agg.ChartSeries(s, day(7, 15), 30), 30)
}

func TestChartSeries_DoesNotMutate(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()

	agg.ChartSeries(s, day(7, 15), 7)

	assert.Empty(t, s.StudyDays)
}

func TestHeatmap_WeekRange(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()
	s.StudyDays["2024-01-10"] = 3
	s.StudyDays["2024-01-09"] = 20

	// 2024-01-10 is a Wednesday; the week range covers 2024-01-03 through 2024-01-10.
	weeks := agg.Heatmap(s, day(10, 12), stats.RangeWeek)

	require.Len(t, weeks, 2)
	assert.Equal(t, "2024-01-03", weeks[0].Start)
	assert.Len(t, weeks[0].Days, 4) // Wed..Sat
	assert.Equal(t, "2024-01-07", weeks[1].Start)
	assert.Len(t, weeks[1].Days, 4) // Sun..Wed

	last := weeks[1].Days[3]
	assert.Equal(t, "2024-01-10", last.Date)
	assert.Equal(t, 3, last.Cards)
	assert.Equal(t, 1, last.Bucket)
	assert.Equal(t, "1-5 cards", last.Label)
	assert.Equal(t, 3, weeks[1].Days[2].Bucket)
}

func TestHeatmap_RangeLengths(t *testing.T) {
	agg := stats.New(nil)
	s := models.NewStats()

	count := func(weeks []models.HeatmapWeek) int {
		n := 0
		for _, w := range weeks {
			n += len(w.Days)
		}
		return n
	}

	assert.Equal(t, 8, count(agg.Heatmap(s, day(10, 0), stats.RangeWeek)))
	assert.Equal(t, 31, count(agg.Heatmap(s, day(10, 0), stats.RangeMonth)))
	assert.Equal(t, 91, count(agg.Heatmap(s, day(10, 0), stats.RangeYear)))
	assert.Equal(t, 8, count(agg.Heatmap(s, day(10, 0), "decade")))
	assert.True(t, stats.IsValidRange(stats.RangeYear))
	assert.False(t, stats.IsValidRange("decade"))
}

func TestActivityBucket(t *testing.T) {
	tests := []struct {
		n      int
		bucket int
		label  string
	}{
		{0, 0, "No activity"},
		{1, 1, "1-5 cards"},
		{5, 1, "1-5 cards"},
		{6, 2, "6-15 cards"},
		{15, 2, "6-15 cards"},
		{16, 3, "16-30 cards"},
		{30, 3, "16-30 cards"},
		{31, 4, "30+ cards"},
	}
	for _, tt := range tests {
		bucket, label := stats.ActivityBucket(tt.n)
		assert.Equal(t, tt.bucket, bucket, "n=%d", tt.n)
		assert.Equal(t, tt.label, label, "n=%d", tt.n)
	}
}

func TestOverview(t *testing.T) {
	agg := stats.New(nil)
	now := day(5, 12)
	s := models.NewStats()
	agg.RecordReview(&s, day(4, 12))
	agg.RecordReview(&s, now)
	s.CardsCreated = 3

	decks := []models.Deck{{ID: "d1"}}
	cards := []models.Flashcard{
		{ID: "1", DeckID: "d1", Difficulty: models.DifficultyEasy, NextReviewDate: now.AddDate(0, 0, 3)},
		{ID: "2", DeckID: "d1", Difficulty: models.DifficultyEasy, NextReviewDate: now.AddDate(0, 0, 3)},
		{ID: "3", DeckID: "d1", NextReviewDate: now.Add(-time.Minute)},
		{ID: "4", DeckID: "d1", Difficulty: models.DifficultyEasy, NextReviewDate: now.AddDate(0, 0, 3)},
		{ID: "5", DeckID: "d1", Difficulty: models.DifficultyEasy, NextReviewDate: now.AddDate(0, 0, 3)},
	}

	o := agg.Overview(s, decks, cards, now)

	assert.Equal(t, 2, o.Streak)
	assert.Equal(t, 2, o.CardsReviewed)
	assert.Equal(t, 3, o.CardsCreated)
	assert.Equal(t, 1, o.TotalDecks)
	assert.Equal(t, 5, o.TotalCards)
	assert.Equal(t, 1, o.DueCards)
	assert.Equal(t, 80, o.Mastery)
	assert.Equal(t, stats.LevelMaster, o.MasteryLevel)
	assert.Len(t, o.Chart, stats.DefaultChartDays)
	assert.Equal(t, 1, o.Chart[6].Cards)
}
