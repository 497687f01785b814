// ABOUTME: UserProfile model captured at onboarding and edited afterward.
// ABOUTME: Holds biometrics, goals, restrictions, availability, and nutrition preferences.
package models

import (
	"errors"
	"fmt"
)

// ErrConstraintViolation marks edits that would break a structural invariant.
// Nothing is changed when it is returned.
var ErrConstraintViolation = errors.New("constraint violation")

// Sex as entered during onboarding.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// TrainingHistory describes prior training experience.
type TrainingHistory string

const (
	TrainingNever   TrainingHistory = "never"
	TrainingPast    TrainingHistory = "past"
	TrainingCurrent TrainingHistory = "current"
)

// ActivityLevel drives the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityActive           ActivityLevel = "active"
)

// FitnessLevel is the self-assessed training level.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Priority ranks a goal.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Budget is the food budget tier.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Nutrition objectives understood by the energy model.
const (
	ObjectiveWeightLoss = "weight_loss"
	ObjectiveMassGain   = "mass_gain"
	ObjectiveMaintain   = "maintenance"
)

// Measurements are body circumferences in centimeters.
type Measurements struct {
	Waist  float64 `json:"waist" yaml:"waist"`
	Hips   float64 `json:"hips" yaml:"hips"`
	Chest  float64 `json:"chest" yaml:"chest"`
	Arms   float64 `json:"arms" yaml:"arms"`
	Thighs float64 `json:"thighs" yaml:"thighs"`
	Calves float64 `json:"calves" yaml:"calves"`
}

// Ergonomics holds free-text notes about the current and desired workplace setup.
type Ergonomics struct {
	Current string `json:"current" yaml:"current"`
	Desired string `json:"desired" yaml:"desired"`
}

// TrainingStatus is the training history plus familiar modalities.
type TrainingStatus struct {
	History     TrainingHistory `json:"history" yaml:"history"`
	Familiarity []string        `json:"familiarity" yaml:"familiarity"`
}

// Goal is one time-horizon goal.
type Goal struct {
	Type        []string `json:"type" yaml:"type"`
	Meta        string   `json:"meta" yaml:"meta"`
	Days        int      `json:"days" yaml:"days"`
	NumericGoal string   `json:"numericGoal,omitempty" yaml:"numericGoal,omitempty"`
	Frequency   int      `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Deadline    string   `json:"deadline" yaml:"deadline"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// Goals groups the three horizons.
type Goals struct {
	ShortTerm  Goal `json:"shortTerm" yaml:"shortTerm"`
	MediumTerm Goal `json:"mediumTerm" yaml:"mediumTerm"`
	LongTerm   Goal `json:"longTerm" yaml:"longTerm"`
}

// Restrictions are free-text lists per restriction kind.
type Restrictions struct {
	Physical   []string `json:"physical" yaml:"physical"`
	Articular  []string `json:"articular" yaml:"articular"`
	Postural   []string `json:"postural" yaml:"postural"`
	Clinical   []string `json:"clinical" yaml:"clinical"`
	Alimentary []string `json:"alimentary" yaml:"alimentary"`
}

// Availability bounds the training schedule.
type Availability struct {
	DaysPerWeek     int      `json:"daysPerWeek" yaml:"daysPerWeek"`
	FrequencyPerDay int      `json:"frequencyPerDay" yaml:"frequencyPerDay"`
	MaxSessionTime  int      `json:"maxSessionTime" yaml:"maxSessionTime"`
	Locations       []string `json:"locations" yaml:"locations"`
}

// NutritionPreferences shape the meal plan.
type NutritionPreferences struct {
	Objective      string   `json:"objective" yaml:"objective"`
	Preferences    []string `json:"preferences" yaml:"preferences"`
	Allergies      []string `json:"allergies" yaml:"allergies"`
	MealsPerDay    int      `json:"mealsPerDay" yaml:"mealsPerDay"`
	Budget         Budget   `json:"budget" yaml:"budget"`
	FoodAccess     string   `json:"foodAccess" yaml:"foodAccess"`
	DietaryRoutine string   `json:"dietaryRoutine" yaml:"dietaryRoutine"`
}

// UserProfile is the onboarding questionnaire result.
// The AI layer reads it but never returns a modified copy.
type UserProfile struct {
	Name              string               `json:"name" yaml:"name"`
	AvatarSeed        string               `json:"avatarSeed,omitempty" yaml:"avatarSeed,omitempty"`
	Age               int                  `json:"age" yaml:"age"`
	Sex               Sex                  `json:"sex,omitempty" yaml:"sex,omitempty"`
	Weight            float64              `json:"weight" yaml:"weight"`
	Height            float64              `json:"height" yaml:"height"`
	TargetWeight      float64              `json:"targetWeight" yaml:"targetWeight"`
	IdealWeight       float64              `json:"idealWeight,omitempty" yaml:"idealWeight,omitempty"`
	BodyFatPercentage float64              `json:"bodyFatPercentage,omitempty" yaml:"bodyFatPercentage,omitempty"`
	LeanMass          float64              `json:"leanMass,omitempty" yaml:"leanMass,omitempty"`
	Measurements      Measurements         `json:"measurements" yaml:"measurements"`
	Ergonomics        Ergonomics           `json:"ergonomics" yaml:"ergonomics"`
	TrainingStatus    TrainingStatus       `json:"trainingStatus" yaml:"trainingStatus"`
	ActivityLevel     ActivityLevel        `json:"activityLevel" yaml:"activityLevel"`
	FitnessLevel      FitnessLevel         `json:"fitnessLevel" yaml:"fitnessLevel"`
	Goals             Goals                `json:"goals" yaml:"goals"`
	Restrictions      Restrictions         `json:"restrictions" yaml:"restrictions"`
	Availability      Availability         `json:"availability" yaml:"availability"`
	Nutrition         NutritionPreferences `json:"nutrition" yaml:"nutrition"`
}

// NewProfile returns a profile filled with the onboarding defaults.
func NewProfile(name string) *UserProfile {
	return &UserProfile{
		Name:              name,
		AvatarSeed:        "Warrior",
		Age:               25,
		Sex:               SexMale,
		Weight:            70,
		Height:            175,
		TargetWeight:      65,
		IdealWeight:       68,
		BodyFatPercentage: 15,
		LeanMass:          60,
		ActivityLevel:     ActivitySedentary,
		FitnessLevel:      FitnessBeginner,
		TrainingStatus: TrainingStatus{
			History:     TrainingNever,
			Familiarity: []string{"Calisthenics"},
		},
		Goals: Goals{
			ShortTerm:  Goal{Type: []string{"Weight loss"}, Days: 30, NumericGoal: "2kg", Priority: PriorityHigh},
			MediumTerm: Goal{Type: []string{"Conditioning"}, Days: 90, NumericGoal: "5km", Priority: PriorityMedium},
			LongTerm:   Goal{Type: []string{"Health"}, Days: 365, NumericGoal: "Maintenance", Priority: PriorityLow},
		},
		Restrictions: Restrictions{
			Physical:   []string{},
			Articular:  []string{},
			Postural:   []string{},
			Clinical:   []string{},
			Alimentary: []string{},
		},
		Availability: Availability{
			DaysPerWeek:     3,
			FrequencyPerDay: 1,
			MaxSessionTime:  45,
			Locations:       []string{"Gym"},
		},
		Nutrition: NutritionPreferences{
			Objective:      ObjectiveWeightLoss,
			Preferences:    []string{"Meat"},
			Allergies:      []string{},
			MealsPerDay:    4,
			Budget:         BudgetMedium,
			FoodAccess:     "Easy",
			DietaryRoutine: "Regular",
		},
	}
}

// Validate checks the profile invariants.
func (p *UserProfile) Validate() error {
	var errs []error
	nonNegative := []struct {
		field string
		value float64
	}{
		{"age", float64(p.Age)},
		{"weight", p.Weight},
		{"height", p.Height},
		{"targetWeight", p.TargetWeight},
		{"idealWeight", p.IdealWeight},
		{"bodyFatPercentage", p.BodyFatPercentage},
		{"leanMass", p.LeanMass},
		{"measurements.waist", p.Measurements.Waist},
		{"measurements.hips", p.Measurements.Hips},
		{"measurements.chest", p.Measurements.Chest},
		{"measurements.arms", p.Measurements.Arms},
		{"measurements.thighs", p.Measurements.Thighs},
		{"measurements.calves", p.Measurements.Calves},
	}
	for _, nn := range nonNegative {
		if nn.value < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative", ErrConstraintViolation, nn.field))
		}
	}
	if p.Nutrition.MealsPerDay <= 0 {
		errs = append(errs, fmt.Errorf("%w: nutrition.mealsPerDay must be positive", ErrConstraintViolation))
	}
	if p.Availability.DaysPerWeek <= 0 {
		errs = append(errs, fmt.Errorf("%w: availability.daysPerWeek must be positive", ErrConstraintViolation))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.TrainingStatus.Familiarity = cloneStrings(p.TrainingStatus.Familiarity)
	c.Goals.ShortTerm.Type = cloneStrings(p.Goals.ShortTerm.Type)
	c.Goals.MediumTerm.Type = cloneStrings(p.Goals.MediumTerm.Type)
	c.Goals.LongTerm.Type = cloneStrings(p.Goals.LongTerm.Type)
	c.Restrictions = Restrictions{
		Physical:   cloneStrings(p.Restrictions.Physical),
		Articular:  cloneStrings(p.Restrictions.Articular),
		Postural:   cloneStrings(p.Restrictions.Postural),
		Clinical:   cloneStrings(p.Restrictions.Clinical),
		Alimentary: cloneStrings(p.Restrictions.Alimentary),
	}
	c.Availability.Locations = cloneStrings(p.Availability.Locations)
	c.Nutrition.Preferences = cloneStrings(p.Nutrition.Preferences)
	c.Nutrition.Allergies = cloneStrings(p.Nutrition.Allergies)
	return &c
}

// Enum values written by the legacy web client.
var (
	legacySex = map[string]Sex{
		"Masculino": SexMale,
		"Feminino":  SexFemale,
		"Outro":     SexOther,
	}
	legacyTrainingHistory = map[string]TrainingHistory{
		"Nunca treinou":         TrainingNever,
		"Já treinou no passado": TrainingPast,
		"Treina atualmente":     TrainingCurrent,
	}
	legacyActivityLevel = map[string]ActivityLevel{
		"Sedentário":          ActivitySedentary,
		"Levemente Ativo":     ActivityLightlyActive,
		"Moderadamente Ativo": ActivityModeratelyActive,
		"Ativo":               ActivityActive,
	}
	legacyFitnessLevel = map[string]FitnessLevel{
		"Iniciante":     FitnessBeginner,
		"Intermediário": FitnessIntermediate,
		"Avançado":      FitnessAdvanced,
	}
	legacyObjective = map[string]string{
		"Emagrecimento":  ObjectiveWeightLoss,
		"Ganho de massa": ObjectiveMassGain,
		"Manutenção":     ObjectiveMaintain,
	}
)

// Normalize maps enum values written by the legacy web client onto the
// values used here. Unknown values are left untouched.
func (p *UserProfile) Normalize() {
	if v, ok := legacySex[string(p.Sex)]; ok {
		p.Sex = v
	}
	if v, ok := legacyTrainingHistory[string(p.TrainingStatus.History)]; ok {
		p.TrainingStatus.History = v
	}
	if v, ok := legacyActivityLevel[string(p.ActivityLevel)]; ok {
		p.ActivityLevel = v
	}
	if v, ok := legacyFitnessLevel[string(p.FitnessLevel)]; ok {
		p.FitnessLevel = v
	}
	if v, ok := legacyObjective[p.Nutrition.Objective]; ok {
		p.Nutrition.Objective = v
	}
}
