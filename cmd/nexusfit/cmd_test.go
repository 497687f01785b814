// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parseDay, profile files, renderers, the workout loop, and end-to-end commands.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/config"
	"github.com/harperreed/nexusfit/internal/energy"
	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/session"
	"github.com/harperreed/nexusfit/internal/storage"
	"github.com/harperreed/nexusfit/internal/store"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

func init() {
	color.NoColor = true
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"6", 6, false},
		{" 3 ", 3, false},
		{"monday", 0, false},
		{"Tuesday", 1, false},
		{"wed", 2, false},
		{"SUN", 6, false},
		{"7", 0, true},
		{"-1", 0, true},
		{"mo", 0, true},
		{"funday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDay(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("parseDay(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("parseDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	if n, err := parseIndex("meal", "2"); err != nil || n != 2 {
		t.Errorf("parseIndex(2) = %d, %v", n, err)
	}
	for _, bad := range []string{"-1", "x", ""} {
		if _, err := parseIndex("meal", bad); err == nil {
			t.Errorf("parseIndex(%q) expected error", bad)
		}
	}
}

func TestParseOptionRef(t *testing.T) {
	ref, err := parseOptionRef("fri", "1", "2")
	if err != nil {
		t.Fatalf("parseOptionRef failed: %v", err)
	}
	if ref.Day != 4 || ref.Meal != 1 || ref.Option != 2 {
		t.Errorf("parseOptionRef = %+v", ref)
	}
	if _, err := parseOptionRef("fri", "1", "a"); err == nil {
		t.Error("expected error for bad option index")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestReadProfileFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "profile.yaml")
	yamlBody := "name: Ana\nage: 31\nsex: Feminino\nweight: 68\nnutrition:\n  objective: Emagrecimento\n  mealsPerDay: 5\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0600); err != nil {
		t.Fatal(err)
	}
	p, err := readProfileFile(yamlPath)
	if err != nil {
		t.Fatalf("readProfileFile(yaml) failed: %v", err)
	}
	if p.Name != "Ana" || p.Age != 31 || p.Weight != 68 {
		t.Errorf("unexpected profile %+v", p)
	}
	if p.Sex != models.SexFemale || p.Nutrition.Objective != models.ObjectiveWeightLoss {
		t.Errorf("legacy values not normalized: sex=%q objective=%q", p.Sex, p.Nutrition.Objective)
	}
	if p.Height != 175 || p.Availability.DaysPerWeek != 3 {
		t.Errorf("missing fields should keep defaults, got height=%v days=%d", p.Height, p.Availability.DaysPerWeek)
	}

	jsonPath := filepath.Join(dir, "profile.json")
	if err := os.WriteFile(jsonPath, []byte(`{"name":"Rui","weight":90}`), 0600); err != nil {
		t.Fatal(err)
	}
	p, err = readProfileFile(jsonPath)
	if err != nil {
		t.Fatalf("readProfileFile(json) failed: %v", err)
	}
	if p.Name != "Rui" || p.Weight != 90 {
		t.Errorf("unexpected profile %+v", p)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"weight":-3}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := readProfileFile(badPath); err == nil {
		t.Error("expected validation error for negative weight")
	}

	if _, err := readProfileFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("warn", false); err != nil {
		t.Errorf("newLogger(warn) failed: %v", err)
	}
	l, err := newLogger("error", true)
	if err != nil {
		t.Fatalf("newLogger(error, debug) failed: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Error("verbose logger should enable debug")
	}
	if _, err := newLogger("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "nexusfit" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "nexusfit")
	}
	for _, name := range []string{"verbose", "backend", "data-dir"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	want := map[string][]string{
		"plan":      {"show", "regenerate"},
		"nutrition": {"show", "set", "add-option", "remove-option", "calc"},
		"profile":   {"show", "set"},
		"workout":   {"start"},
		"backups":   {"restore"},
	}
	for parent, subs := range want {
		cmd, _, err := rootCmd.Find([]string{parent})
		if err != nil {
			t.Fatalf("Find(%s) failed: %v", parent, err)
		}
		for _, sub := range subs {
			found := false
			for _, c := range cmd.Commands() {
				if c.Name() == sub {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected %s to have subcommand %s", parent, sub)
			}
		}
	}

	for _, name := range []string{"onboard", "history", "dashboard", "library", "export", "import", "migrate", "mcp", "install-skill"} {
		if _, _, err := rootCmd.Find([]string{name}); err != nil {
			t.Errorf("Expected command %s: %v", name, err)
		}
	}
}

func TestCmdAliases(t *testing.T) {
	for alias, want := range map[string]string{"meals": "nutrition", "sessions": "history", "dash": "dashboard", "lib": "library", "w": "workout"} {
		cmd, _, err := rootCmd.Find([]string{alias})
		if err != nil {
			t.Errorf("Find(%s) failed: %v", alias, err)
			continue
		}
		if cmd.Name() != want {
			t.Errorf("alias %s resolved to %s, want %s", alias, cmd.Name(), want)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := []string{"json", "yaml", "markdown"}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("ValidArgs = %v, want %v", exportCmd.ValidArgs, want)
	}
	for i, v := range want {
		if exportCmd.ValidArgs[i] != v {
			t.Errorf("ValidArgs[%d] = %q, want %q", i, exportCmd.ValidArgs[i], v)
		}
	}
	if f := exportCmd.Flags().Lookup("output"); f == nil || f.Shorthand != "o" {
		t.Error("Expected --output/-o flag on export")
	}
}

func TestMigrateSkipsStore(t *testing.T) {
	if migrateCmd.Annotations[skipStoreAnnotation] == "" {
		t.Error("migrate must open backends itself")
	}
}

// newTestStore returns a store backed by a JSON file in a temp dir.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	repo, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return store.Open(repo, nil)
}

func TestPrintWeek(t *testing.T) {
	var buf bytes.Buffer
	printWeek(&buf, models.DefaultPlan())
	out := buf.String()

	for _, want := range []string{"Default plan", "0 Monday", "6 Sunday", "rest", "1000 kcal", "References:"} {
		if !strings.Contains(out, want) {
			t.Errorf("week output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDay(t *testing.T) {
	plan := models.DefaultPlan()
	d := plan.Day(2)
	d.Workout = []models.Exercise{{Name: "Goblet squat", Sets: 3, Reps: "12", Rest: "60s", KcalEstimate: 45, MuscleGroup: "Legs"}}
	d.Nutrition[0].Options[0].Food = "Oats"

	var buf bytes.Buffer
	printDay(&buf, d)
	out := buf.String()

	for _, want := range []string{"Wednesday", "1. Goblet squat", "3x12", "[0] Breakfast", "* 0 Oats", "Total: 1000 kcal"} {
		if !strings.Contains(out, want) {
			t.Errorf("day output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil, 20)
	if !strings.Contains(buf.String(), "No workouts recorded yet.") {
		t.Errorf("unexpected empty output %q", buf.String())
	}

	at := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	history := []models.WorkoutSession{
		models.NewWorkoutSession("Monday", []models.Exercise{{KcalEstimate: 154}}, at.Add(48*time.Hour)),
		models.NewWorkoutSession("Wednesday", []models.Exercise{{KcalEstimate: 77}}, at),
	}
	buf.Reset()
	printHistory(&buf, history, 1)
	out := buf.String()
	if !strings.Contains(out, "Monday") || strings.Contains(out, "Wednesday") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "2 sessions, 231 kcal, 30.0g fat") {
		t.Errorf("summary should cover all sessions:\n%s", out)
	}
}

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	printDashboard(&buf, energy.NewDashboard(nil, nil, time.Now()))
	out := buf.String()

	for _, want := range []string{"Hi, Champion", "Daily target     2000 kcal", "Last 7 days", "0 sessions"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func startTestWorkout(t *testing.T) (*store.Store, *session.Recorder) {
	t.Helper()
	st := newTestStore(t)
	plan := models.DefaultPlan()
	plan.WeeklyPlan[0].Workout = []models.Exercise{
		{Name: "Squat", Sets: 3, Reps: "10", KcalEstimate: 60},
		{Name: "Push-up", Sets: 3, Reps: "12", KcalEstimate: 40},
	}
	if err := st.ReplacePlan(plan); err != nil {
		t.Fatalf("ReplacePlan failed: %v", err)
	}
	rec := session.New(st)
	if err := rec.Start(0, 0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return st, rec
}

func TestRunWorkoutCompletes(t *testing.T) {
	st, rec := startTestWorkout(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	s, err := runWorkout(ctx, strings.NewReader("\np\n?\np\ns\n"), &out, rec)
	if err != nil {
		t.Fatalf("runWorkout failed: %v", err)
	}
	if s == nil {
		t.Fatal("expected a recorded session")
	}
	if s.TotalKcal != 100 || s.CompletedExercises != 2 {
		t.Errorf("session = %+v", s)
	}
	if got := len(st.History()); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
	for _, want := range []string{"[1/2] Squat", "[2/2] Push-up", "Paused at", "Resumed.", "Commands:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if rec.Active() {
		t.Error("recorder should be idle after completion")
	}
}

func TestRunWorkoutFinishEarly(t *testing.T) {
	st, rec := startTestWorkout(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := runWorkout(ctx, strings.NewReader("f\n"), &bytes.Buffer{}, rec)
	if err != nil {
		t.Fatalf("runWorkout failed: %v", err)
	}
	if s == nil || s.CompletedExercises != 2 {
		t.Errorf("early finish should record every scheduled exercise, got %+v", s)
	}
	if got := len(st.History()); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
}

func TestRunWorkoutQuitAndEOF(t *testing.T) {
	for name, input := range map[string]string{"quit": "\nq\n", "eof": "\n"} {
		t.Run(name, func(t *testing.T) {
			st, rec := startTestWorkout(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s, err := runWorkout(ctx, strings.NewReader(input), &bytes.Buffer{}, rec)
			if err != nil {
				t.Fatalf("runWorkout failed: %v", err)
			}
			if s != nil {
				t.Errorf("expected nothing recorded, got %+v", s)
			}
			if len(st.History()) != 0 {
				t.Error("history should stay empty")
			}
			if rec.Active() {
				t.Error("recorder should be reset")
			}
		})
	}
}

// resetFlags restores every flag to its default between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate points config and data at temp dirs and clears API keys.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, env := range []string{config.EnvGeminiAPIKey, config.EnvGoogleAPIKey, config.EnvBackend, config.EnvDataDir} {
		t.Setenv(env, "")
	}
	return t.TempDir()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	err := Execute(context.Background())
	return out.String(), err
}

// openData reopens the file backend a test wrote to.
func openData(t *testing.T, dir string) *store.Store {
	t.Helper()
	repo, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return store.Open(repo, nil)
}

func TestOnboardAndEditWorkflow(t *testing.T) {
	dir := isolate(t)
	profilePath := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(profilePath, []byte("name: Ana\nweight: 68\ntargetWeight: 62\n"), 0600); err != nil {
		t.Fatal(err)
	}
	base := []string{"--backend", "file", "--data-dir", dir}
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(append([]string{}, base...), args...)...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, out)
		}
		return out
	}

	run("onboard", "--file", profilePath, "--no-sync")
	run("nutrition", "set", "tue", "1", "0", "food", "Grilled chicken")
	run("nutrition", "set", "tue", "1", "0", "calories", "420")
	run("nutrition", "add-option", "tue", "1")
	run("nutrition", "remove-option", "tue", "1", "3")

	if _, err := execute(t, append(append([]string{}, base...), "nutrition", "set", "tue", "1", "0", "calories", "-5")...); err == nil {
		t.Error("expected error for negative calories")
	}

	out := run("plan", "show", "--day", "tue")
	if !strings.Contains(out, "Grilled chicken") {
		t.Errorf("plan show missing edit:\n%s", out)
	}
	out = run("dashboard", "--json")
	if !strings.Contains(out, `"name": "Ana"`) {
		t.Errorf("dashboard JSON missing name:\n%s", out)
	}

	st := openData(t, dir)
	if !st.OnboardingComplete() || st.Profile().Name != "Ana" {
		t.Errorf("onboarding not persisted: %+v", st.Profile())
	}
	meal := st.Plan().Day(1).Nutrition[1]
	if meal.Options[0].Food != "Grilled chicken" || meal.Options[0].Calories != 420 {
		t.Errorf("edit not persisted: %+v", meal.Options[0])
	}
	if len(meal.Options) != 4 {
		t.Errorf("option count = %d, want 4 after add and remove", len(meal.Options))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := isolate(t)
	base := []string{"--backend", "file", "--data-dir", dir}
	exportPath := filepath.Join(t.TempDir(), "backup.json")

	if out, err := execute(t, append(append([]string{}, base...), "nutrition", "set", "0", "0", "0", "food", "Eggs")...); err != nil {
		t.Fatalf("set failed: %v\n%s", err, out)
	}
	if out, err := execute(t, append(append([]string{}, base...), "export", "json", "-o", exportPath)...); err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}

	other := t.TempDir()
	if out, err := execute(t, "--backend", "file", "--data-dir", other, "import", exportPath); err != nil {
		t.Fatalf("import failed: %v\n%s", err, out)
	}
	if got := openData(t, other).Plan().Day(0).Nutrition[0].Options[0].Food; got != "Eggs" {
		t.Errorf("imported food = %q, want Eggs", got)
	}

	out, err := execute(t, append(append([]string{}, base...), "export", "markdown")...)
	if err != nil {
		t.Fatalf("markdown export failed: %v", err)
	}
	if !strings.Contains(out, "# Weekly plan") || !strings.Contains(out, "Eggs") {
		t.Errorf("unexpected markdown:\n%s", out)
	}

	if _, err := execute(t, append(append([]string{}, base...), "export", "csv")...); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMigrateFileToSQLite(t *testing.T) {
	dir := isolate(t)
	if _, err := execute(t, "--data-dir", dir, "migrate", "--from", "file", "--to", "sqlite"); err == nil || !strings.Contains(err.Error(), "nothing to migrate") {
		t.Errorf("migrate from an empty data dir: err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nexusfit.db")); !os.IsNotExist(err) {
		t.Error("migrate from an empty data dir should not create a database")
	}

	if out, err := execute(t, "--backend", "file", "--data-dir", dir, "nutrition", "set", "0", "0", "0", "food", "Rice"); err != nil {
		t.Fatalf("set failed: %v\n%s", err, out)
	}

	if out, err := execute(t, "--data-dir", dir, "migrate", "--from", "file", "--to", "sqlite"); err != nil {
		t.Fatalf("migrate failed: %v\n%s", err, out)
	}
	if _, err := execute(t, "--data-dir", dir, "migrate", "--from", "file", "--to", "sqlite"); err == nil {
		t.Error("second migrate without --force should refuse a non-empty destination")
	}
	if out, err := execute(t, "--data-dir", dir, "migrate", "--from", "file", "--to", "sqlite", "--force"); err != nil {
		t.Fatalf("forced migrate failed: %v\n%s", err, out)
	}

	db, err := storage.Open(filepath.Join(dir, "nexusfit.db"))
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	defer db.Close()
	if got := store.Open(db, nil).Plan().Day(0).Nutrition[0].Options[0].Food; got != "Rice" {
		t.Errorf("migrated food = %q, want Rice", got)
	}
}

func TestAICommandsNeedKey(t *testing.T) {
	dir := isolate(t)
	base := []string{"--backend", "file", "--data-dir", dir}

	for _, args := range [][]string{
		{"plan", "regenerate"},
		{"nutrition", "calc", "0", "0", "0"},
		{"library", "cardio"},
	} {
		_, err := execute(t, append(append([]string{}, base...), args...)...)
		if err == nil || !strings.Contains(err.Error(), config.EnvGeminiAPIKey) {
			t.Errorf("%v: expected API key error, got %v", args, err)
		}
	}

	out, err := execute(t, append(append([]string{}, base...), "library")...)
	if err != nil {
		t.Fatalf("library category list failed: %v", err)
	}
	if !strings.Contains(out, "kettlebell") {
		t.Errorf("category list missing kettlebell:\n%s", out)
	}
}

func TestWorkoutStartRestDay(t *testing.T) {
	dir := isolate(t)
	if out, err := execute(t, "--backend", "file", "--data-dir", dir, "workout", "start", "mon"); err != nil {
		t.Fatalf("rest day should not error: %v\n%s", err, out)
	}
}

func TestBackupsRestore(t *testing.T) {
	dir := isolate(t)
	base := []string{"--backend", "sqlite", "--data-dir", dir}
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(append([]string{}, base...), args...)...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, out)
		}
		return out
	}

	run("nutrition", "set", "0", "0", "0", "food", "Porridge")
	run("nutrition", "set", "0", "0", "0", "food", "Pancakes")

	db, err := storage.Open(filepath.Join(dir, "nexusfit.db"))
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	revs, err := db.Backups(0)
	_ = db.Close()
	if err != nil || len(revs) == 0 {
		t.Fatalf("expected revisions, got %d (%v)", len(revs), err)
	}

	out := run("backups")
	if !strings.Contains(out, "bytes") {
		t.Errorf("backups list missing entries:\n%s", out)
	}
	run("backups", "restore", fmt.Sprint(revs[0].ID))

	db, err = storage.Open(filepath.Join(dir, "nexusfit.db"))
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	defer db.Close()
	if got := store.Open(db, nil).Plan().Day(0).Nutrition[0].Options[0].Food; got != "Porridge" {
		t.Errorf("restored food = %q, want Porridge", got)
	}

	if _, err := execute(t, append(append([]string{}, base...), "backups", "restore", "999999")...); err == nil {
		t.Error("expected error for unknown revision")
	}
}

func TestBackupsNeedSQLite(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "--backend", "file", "--data-dir", dir, "backups")
	if !errors.Is(err, errNoRevisions) {
		t.Errorf("expected errNoRevisions, got %v", err)
	}
}

// countingGenerator returns a valid seven-day plan and counts calls.
type countingGenerator struct {
	calls int
}

func (g *countingGenerator) GeneratePlan(ctx context.Context, p *models.UserProfile) ([]byte, error) {
	g.calls++
	days := make([]map[string]any, models.DaysPerPlan)
	for i := range days {
		days[i] = map[string]any{
			"day":     models.WeekdayNames[i],
			"workout": []any{map[string]any{"name": "Lunge", "sets": 3, "kcalEstimate": 45}},
			"nutrition": []any{map[string]any{
				"mealName": "Lunch",
				"options":  []any{map[string]any{"food": "Lentils", "portion": "150g", "calories": 170}},
			}},
		}
	}
	return json.Marshal(map[string]any{"weeklyPlan": days, "summary": "Plan for " + p.Name})
}

var _ plansync.Generator = (*countingGenerator)(nil)

// useTestGlobals points the command globals at a fresh store for direct calls.
func useTestGlobals(t *testing.T) *store.Store {
	t.Helper()
	prevCfg, prevLogger, prevStore := cfg, logger, st
	t.Cleanup(func() { cfg, logger, st = prevCfg, prevLogger, prevStore })

	cfg = &config.Config{}
	logger = zap.NewNop()
	st = newTestStore(t)
	return st
}

func TestSaveProfileRegeneratesPlan(t *testing.T) {
	s := useTestGlobals(t)
	gen := &countingGenerator{}

	if err := saveProfile(context.Background(), models.NewProfile("Ana"), gen); err != nil {
		t.Fatalf("saveProfile failed: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if got := s.Plan().Summary; got != "Plan for Ana" {
		t.Errorf("Summary = %q, want the regenerated plan", got)
	}
	if got := s.Profile().Name; got != "Ana" {
		t.Errorf("profile name = %q, want Ana", got)
	}
}

func TestSaveProfileWithoutGeneratorKeepsPlan(t *testing.T) {
	s := useTestGlobals(t)
	before := s.Plan().Summary

	if err := saveProfile(context.Background(), models.NewProfile("Rui"), nil); err != nil {
		t.Fatalf("saveProfile failed: %v", err)
	}
	if got := s.Plan().Summary; got != before {
		t.Errorf("Summary = %q, want unchanged %q", got, before)
	}

	bad := models.NewProfile("Rui")
	bad.Nutrition.MealsPerDay = 0
	gen := &countingGenerator{}
	if err := saveProfile(context.Background(), bad, gen); !errors.Is(err, models.ErrConstraintViolation) {
		t.Errorf("err = %v, want ErrConstraintViolation", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a rejected profile", gen.calls)
	}
}

func TestProfileSetWithoutKey(t *testing.T) {
	dir := isolate(t)
	profilePath := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(profilePath, []byte("name: Bea\nweight: 60\n"), 0600); err != nil {
		t.Fatal(err)
	}
	base := []string{"--backend", "file", "--data-dir", dir}

	for _, extra := range [][]string{nil, {"--no-sync"}} {
		args := append(append(append([]string{}, base...), "profile", "set", "--file", profilePath), extra...)
		if out, err := execute(t, args...); err != nil {
			t.Fatalf("%v failed: %v\n%s", extra, err, out)
		}
	}

	s := openData(t, dir)
	if p := s.Profile(); p == nil || p.Name != "Bea" {
		t.Errorf("profile = %+v, want Bea", p)
	}
	if !s.Plan().IsEmpty() {
		t.Error("plan should stay the default without an API key")
	}
}
