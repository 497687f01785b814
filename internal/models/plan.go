// ABOUTME: WeeklyPlan model: seven DailyPlans of exercises and meals plus narrative fields.
// ABOUTME: Includes the default placeholder plan, deep copies, and first-option macro totals.
package models

// DaysPerPlan is the fixed number of DailyPlan entries in a WeeklyPlan.
const DaysPerPlan = 7

// Source labels written into options that did not come from the model.
const (
	SourcePlaceholder = "Nexus scientific database"
	SourceManual      = "Manual / AI pending"
	SourceAIEstimate  = "AI nutrition estimate"
)

// WeekdayNames is the fixed display order of the plan days.
var WeekdayNames = [DaysPerPlan]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Exercise is one prescribed exercise.
type Exercise struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Reps         string  `json:"reps" yaml:"reps"`
	Sets         int     `json:"sets" yaml:"sets"`
	Rest         string  `json:"rest" yaml:"rest"`
	Description  string  `json:"description" yaml:"description"`
	MuscleGroup  string  `json:"muscleGroup" yaml:"muscleGroup"`
	Source       string  `json:"source" yaml:"source"`
	MediaURL     string  `json:"mediaUrl" yaml:"mediaUrl"`
	KcalEstimate float64 `json:"kcalEstimate" yaml:"kcalEstimate"`
}

// MealOption is one interchangeable food choice for a meal.
type MealOption struct {
	Food     string  `json:"food" yaml:"food"`
	Portion  string  `json:"portion" yaml:"portion"`
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fats     float64 `json:"fats" yaml:"fats"`
	Source   string  `json:"source" yaml:"source"`
}

// Meal is a named meal with at least one option.
// The first option is the one counted in every total.
type Meal struct {
	MealName string       `json:"mealName" yaml:"mealName"`
	Time     string       `json:"time" yaml:"time"`
	Options  []MealOption `json:"options" yaml:"options"`
}

// DailyPlan is one weekday of the plan. An empty Workout is a rest day.
type DailyPlan struct {
	Day       string     `json:"day" yaml:"day"`
	Workout   []Exercise `json:"workout" yaml:"workout"`
	Nutrition []Meal     `json:"nutrition" yaml:"nutrition"`
}

// WeeklyPlan is the training and nutrition prescription.
type WeeklyPlan struct {
	WeeklyPlan []DailyPlan `json:"weeklyPlan" yaml:"weeklyPlan"`
	Summary    string      `json:"summary" yaml:"summary"`
	Motivation string      `json:"motivation" yaml:"motivation"`
	References []string    `json:"references" yaml:"references"`
}

// Macros is an energy and macronutrient total.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Primary returns the option used for totals, or nil for a meal with no options.
func (m *Meal) Primary() *MealOption {
	if len(m.Options) == 0 {
		return nil
	}
	return &m.Options[0]
}

// Totals sums the primary option of every meal of the day.
func (d *DailyPlan) Totals() Macros {
	var t Macros
	for i := range d.Nutrition {
		opt := d.Nutrition[i].Primary()
		if opt == nil {
			continue
		}
		t.Calories += opt.Calories
		t.Protein += opt.Protein
		t.Carbs += opt.Carbs
		t.Fats += opt.Fats
	}
	return t
}

// WorkoutKcal sums the calorie estimates of the day's exercises.
func (d *DailyPlan) WorkoutKcal() float64 {
	var total float64
	for _, ex := range d.Workout {
		total += ex.KcalEstimate
	}
	return total
}

// IsEmpty reports whether the plan has no exercises on any day.
// A nil plan is empty.
func (p *WeeklyPlan) IsEmpty() bool {
	if p == nil || len(p.WeeklyPlan) == 0 {
		return true
	}
	for _, d := range p.WeeklyPlan {
		if len(d.Workout) > 0 {
			return false
		}
	}
	return true
}

// Day returns the DailyPlan at index, or nil when out of range.
func (p *WeeklyPlan) Day(index int) *DailyPlan {
	if p == nil || index < 0 || index >= len(p.WeeklyPlan) {
		return nil
	}
	return &p.WeeklyPlan[index]
}

// Clone returns a deep copy of the plan.
func (p *WeeklyPlan) Clone() *WeeklyPlan {
	if p == nil {
		return nil
	}
	c := &WeeklyPlan{
		Summary:    p.Summary,
		Motivation: p.Motivation,
		References: cloneStrings(p.References),
	}
	if p.WeeklyPlan != nil {
		c.WeeklyPlan = make([]DailyPlan, len(p.WeeklyPlan))
	}
	for i, d := range p.WeeklyPlan {
		nd := DailyPlan{Day: d.Day}
		if d.Workout != nil {
			nd.Workout = append(make([]Exercise, 0, len(d.Workout)), d.Workout...)
		}
		if d.Nutrition != nil {
			nd.Nutrition = make([]Meal, len(d.Nutrition))
			for j, m := range d.Nutrition {
				nm := Meal{MealName: m.MealName, Time: m.Time}
				if m.Options != nil {
					nm.Options = append(make([]MealOption, 0, len(m.Options)), m.Options...)
				}
				nd.Nutrition[j] = nm
			}
		}
		c.WeeklyPlan[i] = nd
	}
	return c
}

// PlaceholderOption is injected when a meal arrives without any option.
func PlaceholderOption() MealOption {
	return MealOption{Source: SourcePlaceholder}
}

// BlankOption is appended by the editor when the user adds an option by hand.
func BlankOption() MealOption {
	return MealOption{Source: SourceManual}
}

// DefaultPlan is the placeholder shown before the first generation succeeds.
func DefaultPlan() *WeeklyPlan {
	mealNames := []string{"Breakfast", "Lunch", "Snack", "Dinner"}
	mealTimes := []string{"08:00", "12:00", "16:00", "20:00"}

	days := make([]DailyPlan, DaysPerPlan)
	for i := range days {
		meals := make([]Meal, len(mealNames))
		for j := range meals {
			options := make([]MealOption, 4)
			for k := range options {
				options[k] = MealOption{
					Food:     "Loading suggestion...",
					Portion:  "100g",
					Calories: 250,
					Protein:  20,
					Carbs:    30,
					Fats:     5,
					Source:   SourcePlaceholder,
				}
			}
			meals[j] = Meal{MealName: mealNames[j], Time: mealTimes[j], Options: options}
		}
		days[i] = DailyPlan{Day: WeekdayNames[i], Workout: []Exercise{}, Nutrition: meals}
	}

	return &WeeklyPlan{
		WeeklyPlan: days,
		Summary:    "Default plan waiting for AI synchronization.",
		Motivation: "Sync with Nexus AI to get an evidence-based plan.",
		References: []string{
			"World Health Organization (WHO) - Global recommendations on physical activity for health",
			"USDA FoodData Central - National Agricultural Library",
			"American College of Sports Medicine (ACSM) - Guidelines for Exercise Testing and Prescription",
		},
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
