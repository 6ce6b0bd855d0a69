package models

import "time"

// Stats holds the process-wide study counters.
type Stats struct {
	Streak        int            `json:"streak"`
	LastStudyDate *time.Time     `json:"lastStudyDate"`
	CardsReviewed int            `json:"cardsReviewed"`
	CardsCreated  int            `json:"cardsCreated"`
	StudyDays     map[string]int `json:"studyDays"`
}

// NewStats returns the zero state used when nothing has been persisted yet.
func NewStats() Stats {
	return Stats{StudyDays: map[string]int{}}
}

// Clone returns a deep copy of s.
func (s Stats) Clone() Stats {
	c := s
	if s.LastStudyDate != nil {
		t := *s.LastStudyDate
		c.LastStudyDate = &t
	}
	c.StudyDays = make(map[string]int, len(s.StudyDays))
	for k, v := range s.StudyDays {
		c.StudyDays[k] = v
	}
	return c
}

// ChartPoint is one day of the recent-activity chart.
type ChartPoint struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Cards int    `json:"cards"`
}

// DifficultyBreakdown counts cards per rating.
type DifficultyBreakdown struct {
	Total            int `json:"total"`
	Easy             int `json:"easy"`
	Medium           int `json:"medium"`
	Hard             int `json:"hard"`
	Unrated          int `json:"unrated"`
	EasyPercentage   int `json:"easyPercentage"`
	MediumPercentage int `json:"mediumPercentage"`
	HardPercentage   int `json:"hardPercentage"`
}

// DeckMastery is the mastery figure for a single deck.
type DeckMastery struct {
	DeckID     string `json:"deckId"`
	Title      string `json:"title"`
	TotalCards int    `json:"totalCards"`
	Mastery    int    `json:"mastery"`
}

// HeatmapCell is one calendar day in the activity heatmap.
type HeatmapCell struct {
	Date   string `json:"date"`
	Cards  int    `json:"cards"`
	Bucket int    `json:"bucket"`
	Label  string `json:"label"`
}

// HeatmapWeek groups consecutive cells; weeks start on Sunday.
type HeatmapWeek struct {
	Start string        `json:"start"`
	Days  []HeatmapCell `json:"days"`
}

// StatsOverview is the dashboard payload.
type StatsOverview struct {
	Streak        int                 `json:"streak"`
	LastStudyDate *time.Time          `json:"lastStudyDate"`
	CardsReviewed int                 `json:"cardsReviewed"`
	CardsCreated  int                 `json:"cardsCreated"`
	TotalDecks    int                 `json:"totalDecks"`
	TotalCards    int                 `json:"totalCards"`
	DueCards      int                 `json:"dueCards"`
	Mastery       int                 `json:"mastery"`
	MasteryLevel  string              `json:"masteryLevel"`
	Breakdown     DifficultyBreakdown `json:"breakdown"`
	Chart         []ChartPoint        `json:"chart"`
}
