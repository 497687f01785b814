// ABOUTME: Response schemas that constrain the model's JSON output.
// ABOUTME: They mirror WeeklyPlan and the nutrition-calculation result field for field.
package ai

import "google.golang.org/genai"

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
func num() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func array(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

// mealOptionSchema is shared by the plan schema.
func mealOptionSchema() *genai.Schema {
	return object(
		[]string{"food", "portion", "calories", "protein", "carbs", "fats", "source"},
		map[string]*genai.Schema{
			"food":     str(),
			"portion":  str(),
			"calories": num(),
			"protein":  num(),
			"carbs":    num(),
			"fats":     num(),
			"source":   str(),
		},
	)
}

// PlanSchema is the WeeklyPlan response schema.
func PlanSchema() *genai.Schema {
	exercise := object(
		[]string{"id", "name", "reps", "sets", "rest", "description", "muscleGroup", "source", "mediaUrl", "kcalEstimate"},
		map[string]*genai.Schema{
			"id":           str(),
			"name":         str(),
			"reps":         str(),
			"sets":         num(),
			"rest":         str(),
			"description":  str(),
			"muscleGroup":  str(),
			"source":       str(),
			"mediaUrl":     str(),
			"kcalEstimate": num(),
		},
	)
	meal := object(
		[]string{"mealName", "time", "options"},
		map[string]*genai.Schema{
			"mealName": str(),
			"time":     str(),
			"options":  array(mealOptionSchema()),
		},
	)
	day := object(
		[]string{"day", "workout", "nutrition"},
		map[string]*genai.Schema{
			"day":       str(),
			"workout":   array(exercise),
			"nutrition": array(meal),
		},
	)
	return object(
		[]string{"weeklyPlan", "summary", "motivation", "references"},
		map[string]*genai.Schema{
			"weeklyPlan": array(day),
			"summary":    str(),
			"motivation": str(),
			"references": array(str()),
		},
	)
}

// NutritionSchema is the per-option calculation response schema.
func NutritionSchema() *genai.Schema {
	return object(
		[]string{"calories", "protein", "carbs", "fats", "source"},
		map[string]*genai.Schema{
			"calories": num(),
			"protein":  num(),
			"carbs":    num(),
			"fats":     num(),
			"source":   str(),
		},
	)
}
