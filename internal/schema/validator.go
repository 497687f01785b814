// ABOUTME: Validates untrusted generation-service JSON into typed plan, meal option, and library values.
// ABOUTME: Malformed items are dropped or defaulted; only an unrecoverable top-level shape fails.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/harperreed/nexusfit/internal/models"
)

// ValidationError is a hard failure: the document cannot be turned into a plan.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Options tunes ValidatePlan.
type Options struct {
	// MealsPerDay, when positive, records an issue for every day whose meal
	// count differs. A mismatch is never a failure.
	MealsPerDay int
}

// Result is a validated plan plus the recoverable problems found on the way.
type Result struct {
	Plan   *models.WeeklyPlan
	Issues []string
}

func (r *Result) issuef(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// ValidatePlan turns raw JSON into a WeeklyPlan.
//
// Hard failures: the document is not a JSON object, weeklyPlan is missing or
// not an array of exactly seven objects. Everything below the day level is
// repaired in place: malformed exercises and meals are dropped, a meal left
// without options gets a placeholder, and missing narrative fields default
// to empty values.
func ValidatePlan(raw []byte, opts Options) (*Result, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	daysRaw, ok := doc["weeklyPlan"]
	if !ok || daysRaw == nil {
		return nil, invalid("weeklyPlan is missing")
	}
	days, ok := daysRaw.([]any)
	if !ok {
		return nil, invalid("weeklyPlan is %s, want array", kind(daysRaw))
	}
	if len(days) != models.DaysPerPlan {
		return nil, invalid("weeklyPlan has %d days, want %d", len(days), models.DaysPerPlan)
	}

	res := &Result{Plan: &models.WeeklyPlan{WeeklyPlan: make([]models.DailyPlan, 0, models.DaysPerPlan)}}
	for i, d := range days {
		obj, ok := d.(map[string]any)
		if !ok {
			return nil, invalid("weeklyPlan[%d] is %s, want object", i, kind(d))
		}
		res.Plan.WeeklyPlan = append(res.Plan.WeeklyPlan, validateDay(res, i, obj, opts))
	}

	res.Plan.Summary = stringField(doc, "summary")
	res.Plan.Motivation = stringField(doc, "motivation")
	res.Plan.References = []string{}
	if refs, ok := doc["references"].([]any); ok {
		for j, r := range refs {
			s, ok := r.(string)
			if !ok {
				res.issuef("references[%d] dropped: not a string", j)
				continue
			}
			res.Plan.References = append(res.Plan.References, s)
		}
	} else if v, present := doc["references"]; present && v != nil {
		res.issuef("references is %s, defaulted to empty", kind(v))
	}

	return res, nil
}

func validateDay(res *Result, i int, obj map[string]any, opts Options) models.DailyPlan {
	day := models.DailyPlan{
		Day:       stringField(obj, "day"),
		Workout:   []models.Exercise{},
		Nutrition: []models.Meal{},
	}
	if day.Day == "" {
		day.Day = models.WeekdayNames[i]
	}

	workout, ok := obj["workout"].([]any)
	if !ok {
		res.issuef("%s: workout missing or not an array, treated as rest day", day.Day)
	}
	for j, e := range workout {
		ex, err := validateExercise(e)
		if err != nil {
			res.issuef("%s: workout[%d] dropped: %v", day.Day, j, err)
			continue
		}
		day.Workout = append(day.Workout, ex)
	}

	meals, ok := obj["nutrition"].([]any)
	if !ok {
		res.issuef("%s: nutrition missing or not an array", day.Day)
	}
	for j, m := range meals {
		mobj, ok := m.(map[string]any)
		if !ok {
			res.issuef("%s: nutrition[%d] dropped: %s, want object", day.Day, j, kind(m))
			continue
		}
		day.Nutrition = append(day.Nutrition, validateMeal(res, day.Day, mobj))
	}

	if opts.MealsPerDay > 0 && len(day.Nutrition) != opts.MealsPerDay {
		res.issuef("%s: %d meals, profile asks for %d", day.Day, len(day.Nutrition), opts.MealsPerDay)
	}
	return day
}

// MaxSets caps the set count of one exercise.
const MaxSets = 100

// libraryListKeys are the wrapper keys checked first when a library
// response is an object.
var libraryListKeys = []string{"items", "exercises"}

func validateExercise(v any) (models.Exercise, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.Exercise{}, fmt.Errorf("%s, want object", kind(v))
	}
	ex := models.Exercise{
		ID:          stringField(obj, "id"),
		Name:        strings.TrimSpace(stringField(obj, "name")),
		Reps:        scalarString(obj["reps"]),
		Rest:        scalarString(obj["rest"]),
		Description: stringField(obj, "description"),
		MuscleGroup: stringField(obj, "muscleGroup"),
		Source:      stringField(obj, "source"),
		MediaURL:    stringField(obj, "mediaUrl"),
	}
	if ex.Name == "" {
		return models.Exercise{}, fmt.Errorf("name is missing")
	}

	sets, err := number(obj, "sets")
	if err != nil {
		return models.Exercise{}, err
	}
	ex.Sets = int(math.Min(MaxSets, math.Max(0, math.Round(sets))))

	kcal, err := number(obj, "kcalEstimate")
	if err != nil {
		return models.Exercise{}, err
	}
	ex.KcalEstimate = math.Max(0, kcal)

	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	return ex, nil
}

func validateMeal(res *Result, dayName string, obj map[string]any) models.Meal {
	meal := models.Meal{
		MealName: stringField(obj, "mealName"),
		Time:     stringField(obj, "time"),
		Options:  []models.MealOption{},
	}
	opts, _ := obj["options"].([]any)
	for k, o := range opts {
		oobj, ok := o.(map[string]any)
		if !ok {
			res.issuef("%s/%s: options[%d] dropped: %s, want object", dayName, meal.MealName, k, kind(o))
			continue
		}
		meal.Options = append(meal.Options, mealOption(oobj))
	}
	if len(meal.Options) == 0 {
		res.issuef("%s/%s: no usable options, placeholder injected", dayName, meal.MealName)
		meal.Options = append(meal.Options, models.PlaceholderOption())
	}
	return meal
}

// ValidateMealOption validates a single nutrition-calculation response.
// Only a non-object document fails; missing or non-numeric numbers become 0.
func ValidateMealOption(raw []byte) (*models.MealOption, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	opt := mealOption(obj)
	if opt.Source == "" {
		opt.Source = models.SourceAIEstimate
	}
	return &opt, nil
}

func mealOption(obj map[string]any) models.MealOption {
	return models.MealOption{
		Food:     stringField(obj, "food"),
		Portion:  scalarString(obj["portion"]),
		Calories: lenientNumber(obj, "calories"),
		Protein:  lenientNumber(obj, "protein"),
		Carbs:    lenientNumber(obj, "carbs"),
		Fats:     lenientNumber(obj, "fats"),
		Source:   stringField(obj, "source"),
	}
}

// ValidateLibraryItems validates an exercise library response. The service
// returns either a bare array or an object wrapping one array.
func ValidateLibraryItems(raw []byte) ([]models.LibraryItem, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, err
	}

	var list []any
	switch t := v.(type) {
	case []any:
		list = t
	case map[string]any:
		list = wrappedList(t)
		if list == nil {
			return nil, invalid("library response object holds no array")
		}
	default:
		return nil, invalid("library response is %s, want array", kind(v))
	}

	items := make([]models.LibraryItem, 0, len(list))
	for _, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringField(obj, "name"))
		if name == "" {
			continue
		}
		items = append(items, models.LibraryItem{
			Name:         name,
			Description:  stringField(obj, "description"),
			MuscleGroup:  models.CanonicalMuscleGroup(stringField(obj, "muscleGroup")),
			KcalEstimate: lenientNumber(obj, "kcalEstimate"),
			MediaURL:     stringField(obj, "mediaUrl"),
			Source:       stringField(obj, "source"),
		})
	}
	return items, nil
}

// wrappedList picks the item array out of a wrapper object: a known key
// first, otherwise the first array in key order.
func wrappedList(obj map[string]any) []any {
	for _, key := range libraryListKeys {
		if arr, ok := obj[key].([]any); ok {
			return arr
		}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if arr, ok := obj[k].([]any); ok {
			return arr
		}
	}
	return nil
}

// StripFences removes a surrounding Markdown code fence, which models
// sometimes add even when asked for bare JSON.
func StripFences(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = bytes.TrimPrefix(b, []byte("json"))
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

func decode(raw []byte) (any, error) {
	b := StripFences(raw)
	if len(b) == 0 {
		return nil, invalid("empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalid("malformed JSON: %v", err)
	}
	return v, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("document is %s, want object", kind(v))
	}
	return obj, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// scalarString accepts strings and numbers for free-text fields the model
// sometimes emits as numbers ("reps": 12).
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// number reads a numeric field. Absent or null is 0; a present value that is
// neither a number nor a numeric string is an error.
func number(obj map[string]any, key string) (float64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s is not numeric", key)
	}
	return f, nil
}

func lenientNumber(obj map[string]any, key string) float64 {
	f, _ := toFloat(obj[key])
	return math.Max(0, f)
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
