// ABOUTME: MCP tool implementations for nexusfit.
// ABOUTME: Exposes plan reads, regeneration, profile saves, meal option edits, history, library, and dashboard.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/editor"
	"github.com/harperreed/nexusfit/internal/energy"
	"github.com/harperreed/nexusfit/internal/library"
	"github.com/harperreed/nexusfit/internal/models"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

func (s *Server) registerTools() {
	// get_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get the current weekly training and nutrition plan, or one day of it",
	}, s.handleGetPlan)

	// regenerate_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "regenerate_plan",
		Description: "Generate a new weekly plan from the saved profile, replacing the current one",
	}, s.handleRegeneratePlan)

	// set_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_profile",
		Description: "Update profile fields and regenerate the plan to match, replacing meal edits",
	}, s.handleSetProfile)

	// sync_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report the plan sync state; dismiss clears a failure so automatic generation can run again",
	}, s.handleSyncStatus)

	// set_meal_option_field
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_meal_option_field",
		Description: "Set one field (food, portion, calories, protein, carbs, fats, source) of a meal option",
	}, s.handleSetMealOptionField)

	// add_meal_option
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal_option",
		Description: "Append a blank option to a meal",
	}, s.handleAddMealOption)

	// remove_meal_option
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_meal_option",
		Description: "Remove a meal option; a meal always keeps at least one",
	}, s.handleRemoveMealOption)

	// smart_calculate
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "smart_calculate",
		Description: "Fill a meal option's calories and macros from its food and portion using AI",
	}, s.handleSmartCalculate)

	// list_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recorded workout sessions, newest first",
	}, s.handleListSessions)

	// browse_library
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "browse_library",
		Description: "Browse exercises for an equipment category, grouped by muscle",
	}, s.handleBrowseLibrary)

	// get_dashboard
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get calorie targets, body metrics, and workout totals",
	}, s.handleGetDashboard)
}

// Tool input/output types

type getPlanInput struct {
	Day *int `json:"day,omitempty" jsonschema:"Day index 0 (Monday) to 6 (Sunday); omit for the whole week"`
}

type dayOutput struct {
	Index     int              `json:"index"`
	Plan      models.DailyPlan `json:"plan"`
	Totals    models.Macros    `json:"totals"`
	BurnKcal  float64          `json:"burn_kcal"`
	IsRestDay bool             `json:"is_rest_day"`
}

type emptyInput struct{}

type regenerateOutput struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Issues  []string `json:"issues,omitempty"`
}

type setProfileInput struct {
	Profile map[string]any `json:"profile" jsonschema:"Profile fields in camelCase (name, age, sex, weight, height, targetWeight, activityLevel, nutrition, availability, ...); omitted fields keep their current values"`
	NoSync  bool           `json:"no_sync,omitempty" jsonschema:"Save the profile but keep the current plan"`
}

type setProfileOutput struct {
	Profile     models.UserProfile `json:"profile"`
	Regenerated bool               `json:"regenerated"`
	Message     string             `json:"message"`
	Issues      []string           `json:"issues,omitempty"`
}

type syncStatusInput struct {
	Dismiss bool `json:"dismiss,omitempty" jsonschema:"Clear a failed sync before reporting"`
}

type syncStatusOutput struct {
	Status        string   `json:"status"`
	Trigger       string   `json:"trigger,omitempty"`
	Message       string   `json:"message,omitempty"`
	Issues        []string `json:"issues,omitempty"`
	PlanIsDefault bool     `json:"plan_is_default"`
}

type optionRefInput struct {
	Day    int `json:"day" jsonschema:"Day index 0 (Monday) to 6 (Sunday)"`
	Meal   int `json:"meal" jsonschema:"Meal index within the day"`
	Option int `json:"option" jsonschema:"Option index within the meal; 0 is the one counted in totals"`
}

func (in optionRefInput) ref() editor.OptionRef {
	return editor.OptionRef{Day: in.Day, Meal: in.Meal, Option: in.Option}
}

type setFieldInput struct {
	Day    int    `json:"day" jsonschema:"Day index 0 (Monday) to 6 (Sunday)"`
	Meal   int    `json:"meal" jsonschema:"Meal index within the day"`
	Option int    `json:"option" jsonschema:"Option index within the meal"`
	Field  string `json:"field" jsonschema:"One of food, portion, calories, protein, carbs, fats, source"`
	Value  string `json:"value" jsonschema:"New value; numeric fields take a non-negative number"`
}

type mealInput struct {
	Day  int `json:"day" jsonschema:"Day index 0 (Monday) to 6 (Sunday)"`
	Meal int `json:"meal" jsonschema:"Meal index within the day"`
}

type optionOutput struct {
	Ref     editor.OptionRef  `json:"ref"`
	Option  models.MealOption `json:"option"`
	Message string            `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listSessionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type sessionsOutput struct {
	Sessions []models.WorkoutSession `json:"sessions"`
	Summary  models.HistorySummary   `json:"summary"`
}

type browseLibraryInput struct {
	Category string `json:"category" jsonschema:"Equipment category such as calisthenics, free_weights, kettlebell, cardio"`
	Search   string `json:"search,omitempty" jsonschema:"Only keep items whose name, description or muscle group contains this"`
}

type libraryGroup struct {
	MuscleGroup string               `json:"muscle_group"`
	Items       []models.LibraryItem `json:"items"`
}

type browseLibraryOutput struct {
	Category string         `json:"category"`
	Count    int            `json:"count"`
	Groups   []libraryGroup `json:"groups"`
}

// Tool handlers

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getPlanInput) (*mcp.CallToolResult, any, error) {
	plan := s.store.Plan()
	if input.Day == nil {
		return nil, plan, nil
	}
	d := plan.Day(*input.Day)
	if d == nil {
		return nil, nil, fmt.Errorf("day %d out of range 0-%d", *input.Day, models.DaysPerPlan-1)
	}
	return nil, dayOutput{
		Index:     *input.Day,
		Plan:      *d,
		Totals:    d.Totals(),
		BurnKcal:  d.WorkoutKcal(),
		IsRestDay: len(d.Workout) == 0,
	}, nil
}

func (s *Server) handleRegeneratePlan(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, regenerateOutput, error) {
	if s.sync == nil {
		return nil, regenerateOutput{}, ErrAIUnavailable
	}

	err := s.sync.Regenerate(ctx)
	st := s.sync.State()
	if err != nil {
		s.logger.Warn("regenerate via MCP failed", zap.Error(err))
		return nil, regenerateOutput{}, fmt.Errorf("%s: %w", plansync.FailureMessage, err)
	}
	return nil, regenerateOutput{
		Status:  st.Status.String(),
		Message: fmt.Sprintf("New plan generated in %s.", st.FinishedAt.Sub(st.StartedAt).Round(100*time.Millisecond)),
		Issues:  st.Issues,
	}, nil
}

func (s *Server) handleSetProfile(ctx context.Context, req *mcp.CallToolRequest, input setProfileInput) (*mcp.CallToolResult, setProfileOutput, error) {
	profile := s.store.Profile()
	if profile == nil {
		profile = models.NewProfile("")
	}
	data, err := json.Marshal(input.Profile)
	if err != nil {
		return nil, setProfileOutput{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, setProfileOutput{}, fmt.Errorf("%w: %v", models.ErrConstraintViolation, err)
	}
	if err := s.store.ReplaceProfile(profile); err != nil {
		return nil, setProfileOutput{}, fmt.Errorf("failed to save profile: %w", err)
	}

	out := setProfileOutput{Profile: *s.store.Profile(), Message: "Profile saved."}
	if input.NoSync {
		return nil, out, nil
	}
	if s.sync == nil {
		out.Message = fmt.Sprintf("Profile saved. Plan not regenerated: %v.", ErrAIUnavailable)
		return nil, out, nil
	}

	if err := s.sync.Regenerate(ctx); err != nil {
		s.logger.Warn("regenerate after profile save failed", zap.Error(err))
		return nil, setProfileOutput{}, fmt.Errorf("profile saved, but %s: %w", plansync.FailureMessage, err)
	}
	st := s.sync.State()
	out.Regenerated = true
	out.Message = "Profile saved and a new plan generated."
	out.Issues = st.Issues
	return nil, out, nil
}

func (s *Server) handleSyncStatus(ctx context.Context, req *mcp.CallToolRequest, input syncStatusInput) (*mcp.CallToolResult, syncStatusOutput, error) {
	if s.sync == nil {
		return nil, syncStatusOutput{}, ErrAIUnavailable
	}
	if input.Dismiss {
		s.sync.DismissError()
	}

	st := s.sync.State()
	return nil, syncStatusOutput{
		Status:        st.Status.String(),
		Trigger:       string(st.Trigger),
		Message:       st.Message,
		Issues:        st.Issues,
		PlanIsDefault: s.store.Plan().IsEmpty(),
	}, nil
}

func (s *Server) handleSetMealOptionField(ctx context.Context, req *mcp.CallToolRequest, input setFieldInput) (*mcp.CallToolResult, optionOutput, error) {
	field, err := editor.ParseField(input.Field)
	if err != nil {
		return nil, optionOutput{}, err
	}
	ref := editor.OptionRef{Day: input.Day, Meal: input.Meal, Option: input.Option}
	if err := s.editor.SetMealOptionField(ref, field, input.Value); err != nil {
		return nil, optionOutput{}, fmt.Errorf("failed to set %s: %w", field, err)
	}
	return nil, s.optionOutput(ref, fmt.Sprintf("Set %s on %s", field, ref)), nil
}

func (s *Server) handleAddMealOption(ctx context.Context, req *mcp.CallToolRequest, input mealInput) (*mcp.CallToolResult, optionOutput, error) {
	idx, err := s.editor.AddMealOption(input.Day, input.Meal)
	if err != nil {
		return nil, optionOutput{}, fmt.Errorf("failed to add option: %w", err)
	}
	ref := editor.OptionRef{Day: input.Day, Meal: input.Meal, Option: idx}
	return nil, s.optionOutput(ref, fmt.Sprintf("Added option %d", idx)), nil
}

func (s *Server) handleRemoveMealOption(ctx context.Context, req *mcp.CallToolRequest, input optionRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.editor.RemoveMealOption(input.ref()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to remove option: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed %s", input.ref())}, nil
}

func (s *Server) handleSmartCalculate(ctx context.Context, req *mcp.CallToolRequest, input optionRefInput) (*mcp.CallToolResult, optionOutput, error) {
	ref := input.ref()
	opt, err := s.editor.SmartCalculate(ctx, ref)
	if err != nil {
		return nil, optionOutput{}, fmt.Errorf("smart calculate failed: %w", err)
	}
	return nil, optionOutput{
		Ref:     ref,
		Option:  *opt,
		Message: fmt.Sprintf("%s: %.0f kcal (source: %s)", opt.Food, opt.Calories, opt.Source),
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, sessionsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	history := s.store.History()
	out := sessionsOutput{Summary: models.SummarizeHistory(history)}
	if len(history) > input.Limit {
		history = history[:input.Limit]
	}
	out.Sessions = history
	if out.Sessions == nil {
		out.Sessions = []models.WorkoutSession{}
	}
	return nil, out, nil
}

func (s *Server) handleBrowseLibrary(ctx context.Context, req *mcp.CallToolRequest, input browseLibraryInput) (*mcp.CallToolResult, browseLibraryOutput, error) {
	if s.library == nil {
		return nil, browseLibraryOutput{}, ErrAIUnavailable
	}

	items, err := s.library.Browse(ctx, models.LibraryCategory(input.Category))
	if err != nil {
		return nil, browseLibraryOutput{}, fmt.Errorf("failed to browse library: %w", err)
	}
	items = library.Filter(items, input.Search)

	groups := library.GroupByMuscle(items)
	out := browseLibraryOutput{Category: input.Category, Count: len(items), Groups: []libraryGroup{}}
	for _, name := range library.OrderedGroups(groups) {
		out.Groups = append(out.Groups, libraryGroup{MuscleGroup: name, Items: groups[name]})
	}
	return nil, out, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, energy.Dashboard, error) {
	return nil, s.dashboard(), nil
}

func (s *Server) dashboard() energy.Dashboard {
	snap := s.store.Snapshot()
	return energy.NewDashboard(snap.Profile, snap.History, s.now())
}

func (s *Server) optionOutput(ref editor.OptionRef, msg string) optionOutput {
	out := optionOutput{Ref: ref, Message: msg}
	if d := s.store.Plan().Day(ref.Day); d != nil && ref.Meal < len(d.Nutrition) && ref.Option < len(d.Nutrition[ref.Meal].Options) {
		out.Option = d.Nutrition[ref.Meal].Options[ref.Option]
	}
	return out
}
