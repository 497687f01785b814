// ABOUTME: Tests for WeeklyPlan helpers.
// ABOUTME: Covers the default plan, emptiness, deep copies, and first-option totals.
package models

import "testing"

func TestDefaultPlanShape(t *testing.T) {
	p := DefaultPlan()

	if len(p.WeeklyPlan) != DaysPerPlan {
		t.Fatalf("Expected %d days, got %d", DaysPerPlan, len(p.WeeklyPlan))
	}
	for i, d := range p.WeeklyPlan {
		if d.Day != WeekdayNames[i] {
			t.Errorf("Day %d: expected %q, got %q", i, WeekdayNames[i], d.Day)
		}
		if len(d.Workout) != 0 {
			t.Errorf("Day %d: expected empty workout, got %d exercises", i, len(d.Workout))
		}
		for _, m := range d.Nutrition {
			if len(m.Options) == 0 {
				t.Errorf("Day %d meal %q has no options", i, m.MealName)
			}
		}
	}
	if len(p.References) != 3 {
		t.Errorf("Expected 3 default references, got %d", len(p.References))
	}
	if !p.IsEmpty() {
		t.Error("Default plan should be empty")
	}
}

func TestIsEmpty(t *testing.T) {
	var nilPlan *WeeklyPlan
	if !nilPlan.IsEmpty() {
		t.Error("nil plan should be empty")
	}

	p := DefaultPlan()
	p.WeeklyPlan[3].Workout = []Exercise{{Name: "Squat"}}
	if p.IsEmpty() {
		t.Error("plan with one exercise should not be empty")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := DefaultPlan()
	p.WeeklyPlan[0].Workout = []Exercise{{Name: "Push-up", KcalEstimate: 40}}

	c := p.Clone()
	c.WeeklyPlan[0].Workout[0].Name = "changed"
	c.WeeklyPlan[0].Nutrition[0].Options[0].Food = "changed"
	c.WeeklyPlan[0].Nutrition[0].Options = append(c.WeeklyPlan[0].Nutrition[0].Options, BlankOption())
	c.References[0] = "changed"

	if p.WeeklyPlan[0].Workout[0].Name != "Push-up" {
		t.Error("exercise shared between clone and original")
	}
	if p.WeeklyPlan[0].Nutrition[0].Options[0].Food == "changed" {
		t.Error("meal option shared between clone and original")
	}
	if len(p.WeeklyPlan[0].Nutrition[0].Options) != 4 {
		t.Errorf("original options length changed to %d", len(p.WeeklyPlan[0].Nutrition[0].Options))
	}
	if p.References[0] == "changed" {
		t.Error("references shared between clone and original")
	}
}

func TestTotalsUseFirstOption(t *testing.T) {
	day := DailyPlan{
		Nutrition: []Meal{
			{MealName: "Breakfast", Options: []MealOption{
				{Calories: 300, Protein: 20, Carbs: 30, Fats: 10},
				{Calories: 900, Protein: 90, Carbs: 90, Fats: 90},
			}},
			{MealName: "Lunch", Options: []MealOption{
				{Calories: 500, Protein: 40, Carbs: 50, Fats: 15},
			}},
			{MealName: "Empty"},
		},
	}

	got := day.Totals()
	want := Macros{Calories: 800, Protein: 60, Carbs: 80, Fats: 25}
	if got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestDayOutOfRange(t *testing.T) {
	p := DefaultPlan()
	if p.Day(-1) != nil || p.Day(7) != nil {
		t.Error("expected nil for out-of-range day")
	}
	if p.Day(6) == nil {
		t.Error("expected Sunday")
	}
}
