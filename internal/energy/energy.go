// ABOUTME: Energy model: BMR, TDEE, daily calorie target, BMI, and ideal weight.
// ABOUTME: Also builds the dashboard summary from the profile and session history.
package energy

import (
	"math"
	"time"

	"github.com/harperreed/nexusfit/internal/models"
)

// FallbackKcal is the daily target shown before a profile exists.
const FallbackKcal = 2000

// ObjectiveAdjustment is subtracted for weight loss and added for mass gain.
const ObjectiveAdjustment = 500

// HealthyBMI is the body mass index used for the ideal weight.
const HealthyBMI = 22

var activityFactors = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityActive:           1.725,
}

// ActivityFactor returns the TDEE multiplier for level, 1.2 when unknown.
func ActivityFactor(level models.ActivityLevel) float64 {
	if f, ok := activityFactors[level]; ok {
		return f
	}
	return 1.2
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p *models.UserProfile) float64 {
	s := 5.0
	if p.Sex == models.SexFemale {
		s = -161
	}
	return 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) + s
}

// TDEE is BMR scaled by the activity factor.
func TDEE(p *models.UserProfile) float64 {
	return BMR(p) * ActivityFactor(p.ActivityLevel)
}

// Target is the rounded daily calorie target for the profile's objective.
// A nil profile gets FallbackKcal.
func Target(p *models.UserProfile) float64 {
	if p == nil {
		return FallbackKcal
	}
	kcal := TDEE(p)
	switch p.Nutrition.Objective {
	case models.ObjectiveWeightLoss:
		kcal -= ObjectiveAdjustment
	case models.ObjectiveMassGain:
		kcal += ObjectiveAdjustment
	}
	return math.Round(kcal)
}

// BMI returns weight/height² rounded to one decimal, 0 without a height.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	if m <= 0 {
		return 0
	}
	return round1(weightKg / (m * m))
}

// IdealWeight is the weight at HealthyBMI, rounded to one decimal.
func IdealWeight(heightCm float64) float64 {
	m := heightCm / 100
	if m <= 0 {
		return 0
	}
	return round1(HealthyBMI * m * m)
}

// WeightDelta is the absolute distance to the target weight, one decimal.
func WeightDelta(p *models.UserProfile) float64 {
	if p == nil {
		return 0
	}
	return round1(math.Abs(p.Weight - p.TargetWeight))
}

// WeeklyTrainingHours is days × sessions per day × session minutes, in hours.
func WeeklyTrainingHours(a models.Availability) float64 {
	freq := a.FrequencyPerDay
	if freq <= 0 {
		freq = 1
	}
	return round1(float64(a.DaysPerWeek*freq*a.MaxSessionTime) / 60)
}

// DayKcal is the energy burned on one calendar day.
type DayKcal struct {
	Date string  `json:"date"`
	Kcal float64 `json:"kcal"`
}

// Dashboard is the summary shown on the home screen.
type Dashboard struct {
	Name                string                 `json:"name"`
	BMR                 float64                `json:"bmr"`
	TDEE                float64                `json:"tdee"`
	DailyKcal           float64                `json:"dailyKcal"`
	BMI                 float64                `json:"bmi"`
	IdealWeight         float64                `json:"idealWeight"`
	TargetWeight        float64                `json:"targetWeight"`
	WeightDelta         float64                `json:"weightDelta"`
	WeeklyTrainingHours float64                `json:"weeklyTrainingHours"`
	History             models.HistorySummary  `json:"history"`
	LastWorkout         *models.WorkoutSession `json:"lastWorkout,omitempty"`
	LastSevenDays       []DayKcal              `json:"lastSevenDays"`
}

// NewDashboard summarizes the profile and history as of now. History is
// newest first, so the last workout is the first entry.
func NewDashboard(p *models.UserProfile, history []models.WorkoutSession, now time.Time) Dashboard {
	d := Dashboard{
		Name:          "Champion",
		TDEE:          FallbackKcal,
		DailyKcal:     Target(p),
		History:       models.SummarizeHistory(history),
		LastSevenDays: lastSevenDays(history, now),
	}
	if p != nil {
		if p.Name != "" {
			d.Name = p.Name
		}
		d.BMR = math.Round(BMR(p))
		d.TDEE = math.Round(TDEE(p))
		d.BMI = BMI(p.Weight, p.Height)
		d.IdealWeight = IdealWeight(p.Height)
		d.TargetWeight = p.TargetWeight
		d.WeightDelta = WeightDelta(p)
		d.WeeklyTrainingHours = WeeklyTrainingHours(p.Availability)
	}
	if len(history) > 0 {
		last := history[0]
		d.LastWorkout = &last
	}
	return d
}

func lastSevenDays(history []models.WorkoutSession, now time.Time) []DayKcal {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := make([]DayKcal, 7)
	index := make(map[string]int, 7)
	for i := range days {
		date := today.AddDate(0, 0, i-6).Format(time.DateOnly)
		days[i] = DayKcal{Date: date}
		index[date] = i
	}
	for _, s := range history {
		t := s.StartedAt()
		if t.IsZero() {
			continue
		}
		if i, ok := index[t.UTC().Format(time.DateOnly)]; ok {
			days[i].Kcal += s.TotalKcal
		}
	}
	return days
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
