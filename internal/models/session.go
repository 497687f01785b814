// ABOUTME: WorkoutSession model recorded when a day's exercise list is finished.
// ABOUTME: Sessions are immutable history entries with derived kcal and fat totals.
package models

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"
)

// KcalPerGramFat is the energy density used to convert burned kcal into grams of adipose tissue.
const KcalPerGramFat = 7.7

// WorkoutSession is one completed pass through a day's exercises.
type WorkoutSession struct {
	ID                 string  `json:"id" yaml:"id"`
	Date               string  `json:"date" yaml:"date"`
	DayName            string  `json:"dayName" yaml:"dayName"`
	TotalKcal          float64 `json:"totalKcal" yaml:"totalKcal"`
	TotalFatLostGrams  float64 `json:"totalFatLostGrams" yaml:"totalFatLostGrams"`
	CompletedExercises int     `json:"completedExercises" yaml:"completedExercises"`
}

// NewWorkoutSession builds a session from every exercise scheduled for the day.
// IDs are ULIDs so lexical order matches creation order.
func NewWorkoutSession(dayName string, exercises []Exercise, at time.Time) WorkoutSession {
	var kcal float64
	for _, ex := range exercises {
		if ex.KcalEstimate > 0 {
			kcal += ex.KcalEstimate
		}
	}
	return WorkoutSession{
		ID:                 ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		Date:               at.UTC().Format(time.RFC3339),
		DayName:            dayName,
		TotalKcal:          math.Round(kcal),
		TotalFatLostGrams:  math.Round(kcal/KcalPerGramFat*10) / 10,
		CompletedExercises: len(exercises),
	}
}

// StartedAt parses the session date. Zero time when the date is malformed.
func (s WorkoutSession) StartedAt() time.Time {
	t, err := time.Parse(time.RFC3339, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HistorySummary aggregates the session history.
type HistorySummary struct {
	Sessions      int     `json:"sessions"`
	TotalKcal     float64 `json:"totalKcal"`
	TotalFatGrams float64 `json:"totalFatGrams"`
}

// SummarizeHistory totals every recorded session.
func SummarizeHistory(history []WorkoutSession) HistorySummary {
	var sum HistorySummary
	for _, s := range history {
		sum.Sessions++
		sum.TotalKcal += s.TotalKcal
		sum.TotalFatGrams += s.TotalFatLostGrams
	}
	sum.TotalFatGrams = math.Round(sum.TotalFatGrams*10) / 10
	return sum
}
