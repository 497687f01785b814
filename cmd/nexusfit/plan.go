// ABOUTME: CLI commands for viewing and regenerating the weekly plan.
// ABOUTME: Renders the week overview or one day, and runs a manual plan sync.
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/models"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

var planDay string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "View or regenerate the weekly plan",
	Long: `View or regenerate the weekly training and nutrition plan.

Daily intake totals count only the first option of each meal; the other
options are alternatives.

EXAMPLES:

  nexusfit plan show               # Week overview
  nexusfit plan show --day tue     # Tuesday's workout and meals
  nexusfit plan regenerate         # Replace the plan with a new one`,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the week or one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := st.Plan()
		if planDay == "" {
			printWeek(cmd.OutOrStdout(), plan)
			return nil
		}
		idx, err := parseDay(planDay)
		if err != nil {
			return err
		}
		printDay(cmd.OutOrStdout(), plan.Day(idx))
		return nil
	},
}

var planRegenerateCmd = &cobra.Command{
	Use:     "regenerate",
	Aliases: []string{"sync"},
	Short:   "Generate a new plan from your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := aiClient(cmd.Context())
		if err != nil {
			return err
		}
		return regeneratePlan(cmd.Context(), client)
	},
}

// regeneratePlan runs one manual sync and reports the outcome.
func regeneratePlan(ctx context.Context, gen plansync.Generator) error {
	orch, err := newOrchestrator(gen)
	if err != nil {
		return err
	}
	defer orch.Close()

	fmt.Println("Generating your weekly plan...")
	if err := orch.Regenerate(ctx); err != nil {
		color.Red(plansync.FailureMessage)
		return fmt.Errorf("plan generation failed: %w", err)
	}

	state := orch.State()
	color.Green("✓ New plan generated in %s", state.FinishedAt.Sub(state.StartedAt).Round(100*time.Millisecond))
	printIssues(state.Issues)
	return nil
}

func printWeek(w io.Writer, plan *models.WeeklyPlan) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if plan.IsEmpty() {
		color.New(color.FgYellow).Fprintln(w, "Default plan: run 'nexusfit plan regenerate' for a personalised one.")
	}
	if plan.Summary != "" {
		fmt.Fprintln(w, plan.Summary)
		fmt.Fprintln(w)
	}

	bold.Fprintf(w, "%s %s %s %s\n", padRight("DAY", 11), padRight("WORKOUT", 16), padRight("BURN", 10), "INTAKE")
	for i := range plan.WeeklyPlan {
		d := &plan.WeeklyPlan[i]
		workout := "rest"
		if n := len(d.Workout); n > 0 {
			workout = fmt.Sprintf("%d exercises", n)
		}
		totals := d.Totals()
		fmt.Fprintf(w, "%s %s %s %.0f kcal\n",
			padRight(fmt.Sprintf("%d %s", i, d.Day), 11),
			padRight(workout, 16),
			padRight(fmt.Sprintf("%.0f kcal", d.WorkoutKcal()), 10),
			totals.Calories)
	}

	if plan.Motivation != "" {
		fmt.Fprintln(w)
		faint.Fprintln(w, plan.Motivation)
	}
	if len(plan.References) > 0 {
		fmt.Fprintln(w)
		faint.Fprintln(w, "References:")
		for _, ref := range plan.References {
			faint.Fprintf(w, "  - %s\n", ref)
		}
	}
}

func printDay(w io.Writer, d *models.DailyPlan) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintln(w, d.Day)
	fmt.Fprintln(w)

	bold.Fprintln(w, "Workout")
	if len(d.Workout) == 0 {
		faint.Fprintln(w, "  Rest day")
	}
	for i, ex := range d.Workout {
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, padRight(truncate(ex.Name, 30), 30),
			faint.Sprintf("%dx%s  rest %s  %.0f kcal  [%s]", ex.Sets, ex.Reps, ex.Rest, ex.KcalEstimate, ex.MuscleGroup))
	}
	fmt.Fprintln(w)

	printMeals(w, d)
}

func printMeals(w io.Writer, d *models.DailyPlan) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintln(w, "Nutrition")
	for m, meal := range d.Nutrition {
		fmt.Fprintf(w, "  [%d] %s %s\n", m, meal.MealName, faint.Sprint(meal.Time))
		for o, opt := range meal.Options {
			marker := " "
			if o == 0 {
				marker = "*"
			}
			fmt.Fprintf(w, "     %s %d %s %s\n", marker, o, padRight(truncate(opt.Food, 32), 32),
				faint.Sprintf("%s  %.0f kcal  P%.0f C%.0f F%.0f", opt.Portion, opt.Calories, opt.Protein, opt.Carbs, opt.Fats))
		}
	}
	totals := d.Totals()
	fmt.Fprintf(w, "  Total: %.0f kcal  protein %.0fg  carbs %.0fg  fats %.0fg\n",
		totals.Calories, totals.Protein, totals.Carbs, totals.Fats)
}

func init() {
	planShowCmd.Flags().StringVarP(&planDay, "day", "d", "", "day index (0-6) or weekday name")
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planRegenerateCmd)
	rootCmd.AddCommand(planCmd)
}
