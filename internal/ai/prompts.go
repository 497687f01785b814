// ABOUTME: Prompt templates for plan generation, nutrition calculation, and library browsing.
// ABOUTME: Prompts are plain text; structure is enforced by the response schemas.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/nexusfit/internal/models"
)

// OptionsPerMeal is how many interchangeable options each generated meal should carry.
const OptionsPerMeal = 4

// NutritionContext narrows a nutrition calculation to the user's goal.
type NutritionContext struct {
	Objective    string
	TargetWeight float64
}

// PlanPrompt builds the full-plan generation prompt for profile.
func PlanPrompt(profile *models.UserProfile) (string, error) {
	body, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Act as an elite exercise physiologist and sports nutritionist.\n")
	sb.WriteString("Generate a COMPLETE weekly training and nutrition plan for this profile:\n")
	sb.Write(body)
	sb.WriteString("\n\nSOURCES ARE MANDATORY:\n")
	sb.WriteString("Every exercise and every meal option must carry a bibliographic or technical source.\n\n")
	sb.WriteString("Training rules:\n")
	sb.WriteString("1. Every exercise must include a 'mediaUrl' pointing to a technique demonstration video, preferably on YouTube.\n")
	sb.WriteString("2. Every exercise must include a 'source' (scientific or technical reference).\n")
	fmt.Fprintf(&sb, "3. Respect a maximum session time of %d minutes.\n", profile.Availability.MaxSessionTime)
	fmt.Fprintf(&sb, "4. Train on %d days; the remaining days are rest days with an empty workout list.\n\n", profile.Availability.DaysPerWeek)
	sb.WriteString("Nutrition rules:\n")
	fmt.Fprintf(&sb, "1. %d meals per day with %d options each. The first option is the recommended one.\n", profile.Nutrition.MealsPerDay, OptionsPerMeal)
	sb.WriteString("\nReturn exactly 7 days, Monday to Sunday. Return ONLY the JSON.")
	return sb.String(), nil
}

// NutritionPrompt builds the per-option nutrition calculation prompt.
func NutritionPrompt(food, portion string, nc *NutritionContext) string {
	var sb strings.Builder
	sb.WriteString("As a precision nutritionist, calculate the exact nutrition facts for this item:\n")
	fmt.Fprintf(&sb, "Food: %s\n", food)
	fmt.Fprintf(&sb, "Portion: %s\n", portion)
	if nc != nil {
		fmt.Fprintf(&sb, "Consider an objective of %s and a target weight of %gkg.\n", nc.Objective, nc.TargetWeight)
	}
	sb.WriteString("Return ONLY the JSON.")
	return sb.String()
}

// LibraryPrompt builds the exercise library browse prompt for category.
func LibraryPrompt(category models.LibraryCategory) string {
	label := models.LibraryCategoryLabels[category]
	if label == "" {
		label = string(category)
	}
	groups := strings.Join(models.MuscleGroups[:len(models.MuscleGroups)-1], ", ")

	var sb strings.Builder
	sb.WriteString("Act as an elite fitness librarian.\n")
	fmt.Fprintf(&sb, "Provide an EXTREMELY varied and deep technical list of exercises for the category %q.\n", label)
	sb.WriteString("The goal is to map every possible exercise for this modality.\n\n")
	fmt.Fprintf(&sb, "Group them strictly by muscle zone (muscleGroup): %s.\n\n", groups)
	sb.WriteString("For each exercise return:\n")
	sb.WriteString("- name: technical name.\n")
	sb.WriteString("- description: a short biomechanics tip.\n")
	sb.WriteString("- muscleGroup: the primary muscle zone.\n")
	sb.WriteString("- kcalEstimate: estimated burn (number).\n")
	sb.WriteString("- mediaUrl: URL of a technique VIDEO, preferably on YouTube.\n")
	sb.WriteString("- source: scientific or technical reference.\n\n")
	sb.WriteString("Return as many items as possible. Return ONLY a JSON array.")
	return sb.String()
}
