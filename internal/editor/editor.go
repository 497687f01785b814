// ABOUTME: Local editing layer for meal options: field edits, add/remove, and smart calculation.
// ABOUTME: Every edit is applied to a copy of the plan and committed through the store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/ai"
	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/schema"
	"github.com/harperreed/nexusfit/internal/store"
)

// DefaultTimeout bounds one nutrition calculation.
const DefaultTimeout = 30 * time.Second

var (
	// ErrLastOption is returned when a removal would leave a meal empty.
	ErrLastOption = fmt.Errorf("%w: a meal must keep at least one option", models.ErrConstraintViolation)

	// ErrOutOfRange is returned for a day, meal, or option index that does not exist.
	ErrOutOfRange = fmt.Errorf("%w: no such day, meal, or option", models.ErrConstraintViolation)

	// ErrMissingInput is returned by SmartCalculate when food or portion is empty.
	ErrMissingInput = fmt.Errorf("%w: food and portion are required", models.ErrConstraintViolation)

	// ErrCalculating is returned when the option already has a calculation running.
	ErrCalculating = errors.New("option is already being calculated")

	// ErrOptionBusy is returned when a removal would shift an option of the
	// same meal whose calculation is running.
	ErrOptionBusy = fmt.Errorf("%w: wait for the meal's calculation to finish", ErrCalculating)

	// ErrStale is returned when the option's food or portion changed while
	// its calculation was running. The result is discarded.
	ErrStale = errors.New("option changed during calculation")
)

// Calculator fetches nutrition facts for one food and portion.
type Calculator interface {
	CalculateNutrition(ctx context.Context, food, portion string, nc *ai.NutritionContext) ([]byte, error)
}

// OptionRef addresses one meal option by position.
type OptionRef struct {
	Day    int `json:"day"`
	Meal   int `json:"meal"`
	Option int `json:"option"`
}

func (r OptionRef) String() string {
	return fmt.Sprintf("day %d, meal %d, option %d", r.Day, r.Meal, r.Option)
}

// Field names an editable MealOption field.
type Field string

const (
	FieldFood     Field = "food"
	FieldPortion  Field = "portion"
	FieldCalories Field = "calories"
	FieldProtein  Field = "protein"
	FieldCarbs    Field = "carbs"
	FieldFats     Field = "fats"
	FieldSource   Field = "source"
)

// Fields lists every editable field.
var Fields = []Field{FieldFood, FieldPortion, FieldCalories, FieldProtein, FieldCarbs, FieldFats, FieldSource}

// ParseField checks if a string is a known field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", models.ErrConstraintViolation, s)
}

// Option configures an Editor.
type Option func(*Editor)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Editor edits the nutrition part of the current plan.
type Editor struct {
	store   *store.Store
	calc    Calculator
	timeout time.Duration
	logger  *zap.Logger

	mu          sync.Mutex
	calculating map[OptionRef]struct{}
}

// New creates an Editor. calc may be nil when smart calculation is unavailable.
func New(st *store.Store, calc Calculator, opts ...Option) *Editor {
	e := &Editor{
		store:       st,
		calc:        calc,
		timeout:     DefaultTimeout,
		logger:      zap.NewNop(),
		calculating: make(map[OptionRef]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func locateMeal(p *models.WeeklyPlan, day, meal int) (*models.Meal, error) {
	d := p.Day(day)
	if d == nil || meal < 0 || meal >= len(d.Nutrition) {
		return nil, ErrOutOfRange
	}
	return &d.Nutrition[meal], nil
}

func locateOption(p *models.WeeklyPlan, ref OptionRef) (*models.MealOption, error) {
	m, err := locateMeal(p, ref.Day, ref.Meal)
	if err != nil {
		return nil, err
	}
	if ref.Option < 0 || ref.Option >= len(m.Options) {
		return nil, ErrOutOfRange
	}
	return &m.Options[ref.Option], nil
}

// SetMealOptionField overwrites one field. Numeric fields must parse as
// non-negative numbers; an empty numeric value means 0.
func (e *Editor) SetMealOptionField(ref OptionRef, field Field, value string) error {
	var num float64
	switch field {
	case FieldFood, FieldPortion, FieldSource:
	case FieldCalories, FieldProtein, FieldCarbs, FieldFats:
		v := strings.TrimSpace(value)
		if v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return fmt.Errorf("%w: %s must be a number, got %q", models.ErrConstraintViolation, field, value)
			}
			if n < 0 {
				return fmt.Errorf("%w: %s must not be negative", models.ErrConstraintViolation, field)
			}
			num = n
		}
	default:
		return fmt.Errorf("%w: unknown field %q", models.ErrConstraintViolation, field)
	}

	return e.store.UpdatePlan("set_meal_option_field", func(p *models.WeeklyPlan) error {
		opt, err := locateOption(p, ref)
		if err != nil {
			return err
		}
		switch field {
		case FieldFood:
			opt.Food = value
		case FieldPortion:
			opt.Portion = value
		case FieldSource:
			opt.Source = value
		case FieldCalories:
			opt.Calories = num
		case FieldProtein:
			opt.Protein = num
		case FieldCarbs:
			opt.Carbs = num
		case FieldFats:
			opt.Fats = num
		}
		return nil
	})
}

// AddMealOption appends a blank option and returns its index.
func (e *Editor) AddMealOption(day, meal int) (int, error) {
	var index int
	err := e.store.UpdatePlan("add_meal_option", func(p *models.WeeklyPlan) error {
		m, err := locateMeal(p, day, meal)
		if err != nil {
			return err
		}
		m.Options = append(m.Options, models.BlankOption())
		index = len(m.Options) - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

// RemoveMealOption deletes an option. Removing the last option of a meal is
// refused with ErrLastOption and nothing changes. Removing option 0 makes
// the next option the primary one. While an option of the same meal at or
// after ref is being calculated, the removal is refused with ErrOptionBusy.
func (e *Editor) RemoveMealOption(ref OptionRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for busy := range e.calculating {
		if busy.Day == ref.Day && busy.Meal == ref.Meal && busy.Option >= ref.Option {
			return ErrOptionBusy
		}
	}

	return e.store.UpdatePlan("remove_meal_option", func(p *models.WeeklyPlan) error {
		m, err := locateMeal(p, ref.Day, ref.Meal)
		if err != nil {
			return err
		}
		if ref.Option < 0 || ref.Option >= len(m.Options) {
			return ErrOutOfRange
		}
		if len(m.Options) <= 1 {
			return ErrLastOption
		}
		m.Options = append(m.Options[:ref.Option], m.Options[ref.Option+1:]...)
		return nil
	})
}

// IsCalculating reports whether ref has a calculation running.
func (e *Editor) IsCalculating(ref OptionRef) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.calculating[ref]
	return ok
}

// Calculating lists every option with a calculation running.
func (e *Editor) Calculating() []OptionRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	refs := make([]OptionRef, 0, len(e.calculating))
	for ref := range e.calculating {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Meal != b.Meal {
			return a.Meal < b.Meal
		}
		return a.Option < b.Option
	})
	return refs
}

func (e *Editor) mark(ref OptionRef) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.calculating[ref]; busy {
		return false
	}
	e.calculating[ref] = struct{}{}
	return true
}

func (e *Editor) unmark(ref OptionRef) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.calculating, ref)
}

// SmartCalculate fills the option's macros and source from the nutrition
// service. Calculations on different options run independently. The result
// is committed only if the option still holds the food and portion that were
// sent; otherwise ErrStale is returned and nothing changes. On any failure
// the option is left untouched.
func (e *Editor) SmartCalculate(ctx context.Context, ref OptionRef) (*models.MealOption, error) {
	if e.calc == nil {
		return nil, &ai.ServiceError{Op: "calculate nutrition", Err: ai.ErrNoAPIKey}
	}

	if !e.mark(ref) {
		return nil, ErrCalculating
	}
	defer e.unmark(ref)

	current, err := locateOption(e.store.Plan(), ref)
	if err != nil {
		return nil, err
	}
	food, portion := strings.TrimSpace(current.Food), strings.TrimSpace(current.Portion)
	if food == "" || portion == "" {
		return nil, ErrMissingInput
	}

	var nc *ai.NutritionContext
	if p := e.store.Profile(); p != nil {
		nc = &ai.NutritionContext{Objective: p.Nutrition.Objective, TargetWeight: p.TargetWeight}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.calc.CalculateNutrition(ctx, food, portion, nc)
	if err != nil {
		e.logger.Warn("nutrition calculation failed", zap.Stringer("option", ref), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &ai.ServiceError{Op: "calculate nutrition", Err: err}
	}
	calc, err := schema.ValidateMealOption(raw)
	if err != nil {
		e.logger.Warn("nutrition response rejected", zap.Stringer("option", ref), zap.Error(err))
		return nil, err
	}

	var updated models.MealOption
	err = e.store.UpdatePlan("smart_calculate", func(p *models.WeeklyPlan) error {
		opt, err := locateOption(p, ref)
		if err != nil {
			return ErrStale
		}
		if strings.TrimSpace(opt.Food) != food || strings.TrimSpace(opt.Portion) != portion {
			return ErrStale
		}
		opt.Calories = calc.Calories
		opt.Protein = calc.Protein
		opt.Carbs = calc.Carbs
		opt.Fats = calc.Fats
		opt.Source = calc.Source
		updated = *opt
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStale) {
			e.logger.Info("discarding stale nutrition result", zap.Stringer("option", ref))
		}
		return nil, err
	}
	return &updated, nil
}

// DayTotals sums the primary option of every meal of day.
func (e *Editor) DayTotals(day int) (models.Macros, error) {
	d := e.store.Plan().Day(day)
	if d == nil {
		return models.Macros{}, ErrOutOfRange
	}
	return d.Totals(), nil
}
