// ABOUTME: Exercise library item model and the fixed category and muscle-group sets.
// ABOUTME: Library items come from an unschema'd model response and carry neutral defaults.
package models

import "strings"

// LibraryCategory is one of the fixed library browse categories.
type LibraryCategory string

const (
	CategoryCalisthenics LibraryCategory = "calisthenics"
	CategoryFreeWeights  LibraryCategory = "free_weights"
	CategoryBar          LibraryCategory = "bar"
	CategoryKettlebell   LibraryCategory = "kettlebell"
	CategoryBand         LibraryCategory = "band"
	CategoryPlates       LibraryCategory = "plates"
	CategoryPullUpBar    LibraryCategory = "pull_up_bar"
	CategoryBench        LibraryCategory = "bench"
	CategoryErgonomics   LibraryCategory = "ergonomics"
	CategoryCardio       LibraryCategory = "cardio"
	CategoryEquipment    LibraryCategory = "equipment"
	CategorySport        LibraryCategory = "sport"
)

// AllLibraryCategories lists the categories in display order.
var AllLibraryCategories = []LibraryCategory{
	CategoryCalisthenics, CategoryFreeWeights, CategoryBar, CategoryKettlebell,
	CategoryBand, CategoryPlates, CategoryPullUpBar, CategoryBench,
	CategoryErgonomics, CategoryCardio, CategoryEquipment, CategorySport,
}

// LibraryCategoryLabels are the human labels sent to the model.
var LibraryCategoryLabels = map[LibraryCategory]string{
	CategoryCalisthenics: "Calisthenics",
	CategoryFreeWeights:  "Free weights (dumbbells)",
	CategoryBar:          "Barbell",
	CategoryKettlebell:   "Kettlebell",
	CategoryBand:         "Resistance band",
	CategoryPlates:       "Weight plates",
	CategoryPullUpBar:    "Pull-up bar",
	CategoryBench:        "Bench",
	CategoryErgonomics:   "Ergonomics",
	CategoryCardio:       "Cardio",
	CategoryEquipment:    "Equipment (bike, rower, etc.)",
	CategorySport:        "Sports (football, running, etc.)",
}

// IsValidLibraryCategory checks if a string is a known category.
func IsValidLibraryCategory(s string) bool {
	_, ok := LibraryCategoryLabels[LibraryCategory(s)]
	return ok
}

// Muscle groups the model is asked to bucket items into.
const (
	MuscleChest      = "Chest"
	MuscleBack       = "Back"
	MuscleLegs       = "Legs"
	MuscleGlutes     = "Glutes"
	MuscleShoulders  = "Shoulders"
	MuscleArms       = "Arms"
	MuscleCore       = "Core"
	MuscleCardio     = "Cardio"
	MuscleFunctional = "Functional"
	MuscleOther      = "Other"
)

// MuscleGroups is the display order of the anatomical zones.
var MuscleGroups = []string{
	MuscleChest, MuscleBack, MuscleLegs, MuscleGlutes, MuscleShoulders,
	MuscleArms, MuscleCore, MuscleCardio, MuscleFunctional, MuscleOther,
}

// CanonicalMuscleGroup matches s case-insensitively against the known zones.
// Unknown or empty values map to MuscleOther.
func CanonicalMuscleGroup(s string) string {
	s = strings.TrimSpace(s)
	for _, g := range MuscleGroups {
		if strings.EqualFold(g, s) {
			return g
		}
	}
	if strings.EqualFold(s, "Core/Abdomen") || strings.EqualFold(s, "Abs") {
		return MuscleCore
	}
	return MuscleOther
}

// LibraryItem is one exercise returned by a library browse.
type LibraryItem struct {
	Name         string  `json:"name" yaml:"name"`
	Description  string  `json:"description" yaml:"description"`
	MuscleGroup  string  `json:"muscleGroup" yaml:"muscleGroup"`
	KcalEstimate float64 `json:"kcalEstimate" yaml:"kcalEstimate"`
	MediaURL     string  `json:"mediaUrl" yaml:"mediaUrl"`
	Source       string  `json:"source" yaml:"source"`
	Thumbnail    string  `json:"thumbnail" yaml:"thumbnail"`
}
