// Package stats derives study statistics: the review counters kept in
// models.Stats and the mastery figures computed from card ratings. Every
// consumer (deck listing, dashboard, deck detail) goes through these
// functions so the math lives in one place.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

// DateLayout is the key format of models.Stats.StudyDays.
const DateLayout = "2006-01-02"

// DefaultChartDays is the length of the dashboard activity chart.
const DefaultChartDays = 7

// Heatmap ranges and how many days back each one reaches.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

// DefaultRange is the heatmap range used when none is given.
const DefaultRange = RangeWeek

var heatmapDays = map[string]int{
	RangeWeek:  7,
	RangeMonth: 30,
	RangeYear:  90,
}

// Aggregator applies study events to models.Stats. Calendar days are
// evaluated in its location.
type Aggregator struct {
	loc *time.Location
}

// New returns an Aggregator using loc for calendar days; nil means UTC.
func New(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

// Location returns the calendar location.
func (a *Aggregator) Location() *time.Location { return a.loc }

func (a *Aggregator) day(t time.Time) time.Time {
	y, m, d := t.In(a.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.loc)
}

// DateKey returns the StudyDays key for t.
func (a *Aggregator) DateKey(t time.Time) string {
	return t.In(a.loc).Format(DateLayout)
}

// RecordCardsCreated adds n newly inserted cards to the created counter.
func (a *Aggregator) RecordCardsCreated(s *models.Stats, n int) {
	if n > 0 {
		s.CardsCreated += n
	}
}

// RecordReview applies one successful review at now.
//
// The streak grows when the previous review fell on the calendar day before
// today, restarts at 1 after a gap (or on the very first review) and is left
// alone for further reviews on the same day.
func (a *Aggregator) RecordReview(s *models.Stats, now time.Time) {
	if s.StudyDays == nil {
		s.StudyDays = map[string]int{}
	}

	s.CardsReviewed++
	s.StudyDays[a.DateKey(now)]++

	today := a.day(now)
	yesterday := today.AddDate(0, 0, -1)

	if s.LastStudyDate == nil {
		s.Streak = 1
	} else {
		last := a.day(*s.LastStudyDate)
		switch {
		case last.Equal(yesterday):
			s.Streak++
		case last.Before(yesterday):
			s.Streak = 1
		}
	}

	at := now
	s.LastStudyDate = &at
}

// ChartSeries returns the last days calendar days ending today, oldest
// first, with the number of reviews on each. days <= 0 uses DefaultChartDays.
func (a *Aggregator) ChartSeries(s models.Stats, now time.Time, days int) []models.ChartPoint {
	if days <= 0 {
		days = DefaultChartDays
	}
	today := a.day(now)
	points := make([]models.ChartPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		key := date.Format(DateLayout)
		points = append(points, models.ChartPoint{
			Day:   date.Format("Mon"),
			Date:  key,
			Cards: s.StudyDays[key],
		})
	}
	return points
}

// IsValidRange reports whether r names a heatmap range.
func IsValidRange(r string) bool {
	_, ok := heatmapDays[r]
	return ok
}

// Heatmap lays out study activity from rng days ago through today, split
// into weeks that start on Sunday. Unknown ranges fall back to DefaultRange;
// callers that must reject them check IsValidRange first.
func (a *Aggregator) Heatmap(s models.Stats, now time.Time, rng string) []models.HeatmapWeek {
	back, ok := heatmapDays[rng]
	if !ok {
		back = heatmapDays[DefaultRange]
	}
	today := a.day(now)
	start := today.AddDate(0, 0, -back)

	var weeks []models.HeatmapWeek
	current := models.HeatmapWeek{Start: start.Format(DateLayout)}
	for date := start; !date.After(today); date = date.AddDate(0, 0, 1) {
		if date.Weekday() == time.Sunday && len(current.Days) > 0 {
			weeks = append(weeks, current)
			current = models.HeatmapWeek{Start: date.Format(DateLayout)}
		}
		key := date.Format(DateLayout)
		n := s.StudyDays[key]
		bucket, label := ActivityBucket(n)
		current.Days = append(current.Days, models.HeatmapCell{
			Date:   key,
			Cards:  n,
			Bucket: bucket,
			Label:  label,
		})
	}
	if len(current.Days) > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}

// ActivityBucket maps a day's review count to a heatmap intensity 0..4.
func ActivityBucket(n int) (int, string) {
	switch {
	case n <= 0:
		return 0, "No activity"
	case n <= 5:
		return 1, "1-5 cards"
	case n <= 15:
		return 2, "6-15 cards"
	case n <= 30:
		return 3, "16-30 cards"
	default:
		return 4, "30+ cards"
	}
}

// Mastery is the weighted share of cards rated easy (full weight) or
// medium (half weight), as a rounded percentage. Hard and unrated cards
// weigh nothing. An empty set has mastery 0.
func Mastery(cards []models.Flashcard) int {
	if len(cards) == 0 {
		return 0
	}
	var easy, medium int
	for _, c := range cards {
		switch c.Difficulty {
		case models.DifficultyEasy:
			easy++
		case models.DifficultyMedium:
			medium++
		}
	}
	return percent(float64(easy)*1.0+float64(medium)*0.5, len(cards))
}

func percent(part float64, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(part / float64(total) * 100))
}

// Mastery level thresholds.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelMaster       = "Master"
)

// MasteryLevel names the band a mastery percentage falls in.
func MasteryLevel(mastery int) string {
	switch {
	case mastery >= 80:
		return LevelMaster
	case mastery >= 60:
		return LevelAdvanced
	case mastery >= 40:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// Breakdown counts cards per rating.
func Breakdown(cards []models.Flashcard) models.DifficultyBreakdown {
	b := models.DifficultyBreakdown{Total: len(cards)}
	for _, c := range cards {
		switch c.Difficulty {
		case models.DifficultyEasy:
			b.Easy++
		case models.DifficultyMedium:
			b.Medium++
		case models.DifficultyHard:
			b.Hard++
		default:
			b.Unrated++
		}
	}
	b.EasyPercentage = percent(float64(b.Easy), b.Total)
	b.MediumPercentage = percent(float64(b.Medium), b.Total)
	b.HardPercentage = percent(float64(b.Hard), b.Total)
	return b
}

// GroupByDeck buckets cards by deck id keeping store order inside each deck.
func GroupByDeck(cards []models.Flashcard) map[string][]models.Flashcard {
	out := make(map[string][]models.Flashcard)
	for _, c := range cards {
		out[c.DeckID] = append(out[c.DeckID], c)
	}
	return out
}

// DeckMastery returns per-deck mastery, highest first. Ties keep deck order.
func DeckMastery(decks []models.Deck, cards []models.Flashcard) []models.DeckMastery {
	byDeck := GroupByDeck(cards)
	out := make([]models.DeckMastery, 0, len(decks))
	for _, d := range decks {
		deckCards := byDeck[d.ID]
		out = append(out, models.DeckMastery{
			DeckID:     d.ID,
			Title:      d.Title,
			TotalCards: len(deckCards),
			Mastery:    Mastery(deckCards),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mastery > out[j].Mastery
	})
	return out
}

// Overview assembles the dashboard figures.
func (a *Aggregator) Overview(s models.Stats, decks []models.Deck, cards []models.Flashcard, now time.Time) models.StatsOverview {
	mastery := Mastery(cards)
	return models.StatsOverview{
		Streak:        s.Streak,
		LastStudyDate: s.LastStudyDate,
		CardsReviewed: s.CardsReviewed,
		CardsCreated:  s.CardsCreated,
		TotalDecks:    len(decks),
		TotalCards:    len(cards),
		DueCards:      flashcard.CountDue(cards, now),
		Mastery:       mastery,
		MasteryLevel:  MasteryLevel(mastery),
		Breakdown:     Breakdown(cards),
		Chart:         a.ChartSeries(s, now, DefaultChartDays),
	}
}
