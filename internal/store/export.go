// ABOUTME: Export and import of the full application state.
// ABOUTME: Supports JSON, YAML, and a Markdown rendering of the weekly plan.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/nexusfit/internal/models"
)

// ExportData represents the full export format.
type ExportData struct {
	Version    string          `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Tool       string          `json:"tool" yaml:"tool"`
	State      models.AppState `json:"state" yaml:"state"`
}

// Export returns a copy of the state wrapped for export.
func (s *Store) Export() *ExportData {
	return &ExportData{
		Version:    fmt.Sprintf("%d", CurrentVersion),
		ExportedAt: s.now().UTC(),
		Tool:       "nexusfit",
		State:      s.Snapshot(),
	}
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Export(), "", "  ")
}

// ExportYAML exports all data as YAML.
func (s *Store) ExportYAML() ([]byte, error) {
	return yaml.Marshal(s.Export())
}

// ImportJSON loads an export file, a versioned state blob, or a blob saved by
// the legacy web client, and replaces the current state with it.
func (s *Store) ImportJSON(data []byte) error {
	var probe struct {
		Tool  string          `json:"tool"`
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}

	body := data
	if probe.Tool != "" {
		body = probe.State
	}
	state, version, notes, err := decodeState(body)
	if err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	for _, n := range notes {
		s.logger.Info("state repaired on import", zap.Int("version", version), zap.String("note", n))
	}
	return s.Import(state)
}

// ExportMarkdown renders the current plan as a Markdown document.
func (s *Store) ExportMarkdown() string {
	snap := s.Snapshot()
	plan := snap.CurrentPlan

	var sb strings.Builder
	sb.WriteString("# Weekly plan\n\n")
	if snap.Profile != nil && snap.Profile.Name != "" {
		fmt.Fprintf(&sb, "Prepared for **%s**.\n\n", snap.Profile.Name)
	}
	if plan.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", plan.Summary)
	}
	if plan.Motivation != "" {
		fmt.Fprintf(&sb, "> %s\n\n", plan.Motivation)
	}

	for _, day := range plan.WeeklyPlan {
		fmt.Fprintf(&sb, "## %s\n\n", day.Day)

		sb.WriteString("### Workout\n\n")
		if len(day.Workout) == 0 {
			sb.WriteString("Rest day.\n\n")
		} else {
			sb.WriteString("| Exercise | Sets | Reps | Rest | kcal |\n")
			sb.WriteString("|---|---|---|---|---|\n")
			for _, ex := range day.Workout {
				fmt.Fprintf(&sb, "| %s | %d | %s | %s | %.0f |\n", ex.Name, ex.Sets, ex.Reps, ex.Rest, ex.KcalEstimate)
			}
			sb.WriteString("\n")
		}

		sb.WriteString("### Nutrition\n\n")
		for _, meal := range day.Nutrition {
			fmt.Fprintf(&sb, "- **%s** (%s)", meal.MealName, meal.Time)
			if opt := meal.Primary(); opt != nil {
				fmt.Fprintf(&sb, ": %s, %s, %.0f kcal", opt.Food, opt.Portion, opt.Calories)
			}
			sb.WriteString("\n")
		}
		t := day.Totals()
		fmt.Fprintf(&sb, "\nTotal: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fats\n\n", t.Calories, t.Protein, t.Carbs, t.Fats)
	}

	if len(plan.References) > 0 {
		sb.WriteString("## References\n\n")
		for _, r := range plan.References {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}
	return sb.String()
}
