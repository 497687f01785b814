// ABOUTME: Tests for state export and import.
// ABOUTME: Covers JSON and YAML exports, Markdown rendering, and importing legacy blobs.
package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/nexusfit/internal/models"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t, &memRepo{})
	s.now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, s.CompleteOnboarding(models.NewProfile("Ana")))

	plan := models.DefaultPlan()
	plan.WeeklyPlan[0].Workout = []models.Exercise{{Name: "Deadlift", Sets: 4, Reps: "5", Rest: "2m", KcalEstimate: 80}}
	require.NoError(t, s.ReplacePlan(plan))
	return s
}

func TestExportJSONImportRoundTrip(t *testing.T) {
	src := seededStore(t)
	data, err := src.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tool": "nexusfit"`)

	dst := openTestStore(t, &memRepo{})
	require.NoError(t, dst.ImportJSON(data))

	assert.Equal(t, src.Profile(), dst.Profile())
	assert.Equal(t, "Deadlift", dst.Plan().WeeklyPlan[0].Workout[0].Name)
	assert.True(t, dst.OnboardingComplete())
}

func TestImportLegacyBlob(t *testing.T) {
	s := openTestStore(t, &memRepo{})
	legacy := `{"profile": null, "history": [{"id": "1", "dayName": "Monday", "totalKcal": 300}], "onboardingComplete": false}`
	require.NoError(t, s.ImportJSON([]byte(legacy)))

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, 300.0, h[0].TotalKcal)
	assert.Len(t, s.Plan().WeeklyPlan, models.DaysPerPlan)
}

func TestImportRejectsGarbage(t *testing.T) {
	s := openTestStore(t, &memRepo{})
	assert.Error(t, s.ImportJSON([]byte("not json")))
	assert.Error(t, s.ImportJSON([]byte(`{"version": 7, "state": {}}`)))
	assert.Equal(t, uint64(0), s.Revision())
}

func TestExportYAML(t *testing.T) {
	data, err := seededStore(t).ExportYAML()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "nexusfit", out["tool"])
	assert.Contains(t, string(data), "weeklyPlan:")
}

func TestExportMarkdown(t *testing.T) {
	md := seededStore(t).ExportMarkdown()

	assert.True(t, strings.HasPrefix(md, "# Weekly plan"))
	assert.Contains(t, md, "Prepared for **Ana**.")
	assert.Contains(t, md, "| Deadlift | 4 | 5 | 2m | 80 |")
	assert.Contains(t, md, "## Sunday\n\n### Workout\n\nRest day.")
	assert.Contains(t, md, "Total: 1000 kcal, 80g protein, 120g carbs, 20g fats")
	assert.Contains(t, md, "## References")
}
