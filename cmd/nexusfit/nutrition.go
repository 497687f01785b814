// ABOUTME: CLI commands for editing meal options in the weekly plan.
// ABOUTME: Sets fields, adds and removes options, and fills macros with AI.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/ai"
	"github.com/harperreed/nexusfit/internal/editor"
	"github.com/harperreed/nexusfit/internal/models"
)

var nutritionDay string

var nutritionCmd = &cobra.Command{
	Use:     "nutrition",
	Aliases: []string{"meals"},
	Short:   "View and edit meal options",
	Long: `View and edit the meal options of the weekly plan.

Meals are addressed by DAY MEAL OPTION. DAY is 0-6 or a weekday name, MEAL
and OPTION are the indexes shown by 'nexusfit nutrition show'. Option 0 is
the one counted in daily totals; the others are alternatives.

FIELDS:

  food, portion, source         free text
  calories, protein, carbs, fats non-negative numbers

EXAMPLES:

  nexusfit nutrition show --day mon
  nexusfit nutrition set mon 1 0 food "Grilled chicken"
  nexusfit nutrition set mon 1 0 portion 150g
  nexusfit nutrition calc mon 1 0          # Fill calories and macros with AI
  nexusfit nutrition add-option mon 1
  nexusfit nutrition remove-option mon 1 2`,
}

var nutritionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show meals for one day or the whole week",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := st.Plan()
		if nutritionDay != "" {
			idx, err := parseDay(nutritionDay)
			if err != nil {
				return err
			}
			d := plan.Day(idx)
			color.New(color.Bold).Fprintln(cmd.OutOrStdout(), d.Day)
			printMeals(cmd.OutOrStdout(), d)
			return nil
		}
		for i := range plan.WeeklyPlan {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			d := &plan.WeeklyPlan[i]
			color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "%d %s\n", i, d.Day)
			printMeals(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var nutritionSetCmd = &cobra.Command{
	Use:   "set <day> <meal> <option> <field> <value>",
	Short: "Set one field of a meal option",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseOptionRef(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		field, err := editor.ParseField(args[3])
		if err != nil {
			return err
		}
		ed := newEditor(nil)
		if err := ed.SetMealOptionField(ref, field, args[4]); err != nil {
			return fmt.Errorf("failed to set %s: %w", field, err)
		}
		color.Green("✓ Set %s on %s", field, ref)
		printDayTotals(ed, ref.Day)
		return nil
	},
}

var nutritionAddCmd = &cobra.Command{
	Use:   "add-option <day> <meal>",
	Short: "Append a blank option to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		meal, err := parseIndex("meal", args[1])
		if err != nil {
			return err
		}
		idx, err := newEditor(nil).AddMealOption(day, meal)
		if err != nil {
			return fmt.Errorf("failed to add option: %w", err)
		}
		color.Green("✓ Added option %s", editor.OptionRef{Day: day, Meal: meal, Option: idx})
		fmt.Println("  Fill it with 'nexusfit nutrition set' and 'nexusfit nutrition calc'.")
		return nil
	},
}

var nutritionRemoveCmd = &cobra.Command{
	Use:     "remove-option <day> <meal> <option>",
	Aliases: []string{"rm-option"},
	Short:   "Remove a meal option (a meal keeps at least one)",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseOptionRef(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		ed := newEditor(nil)
		if err := ed.RemoveMealOption(ref); err != nil {
			if errors.Is(err, editor.ErrLastOption) {
				color.Yellow("Meal %d keeps its only option.", ref.Meal)
				return nil
			}
			return fmt.Errorf("failed to remove option: %w", err)
		}
		color.Green("✓ Removed option %s", ref)
		if ref.Option == 0 {
			printDayTotals(ed, ref.Day)
		}
		return nil
	},
}

var nutritionCalcCmd = &cobra.Command{
	Use:   "calc <day> <meal> <option>",
	Short: "Fill calories and macros from food and portion using AI",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseOptionRef(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		client, err := aiClient(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Calculating %s...\n", ref)
		ed := newEditor(client)
		opt, err := ed.SmartCalculate(cmd.Context(), ref)
		var svcErr *ai.ServiceError
		switch {
		case errors.Is(err, editor.ErrMissingInput):
			return fmt.Errorf("set food and portion first: %w", err)
		case errors.Is(err, editor.ErrStale):
			color.Yellow("Option changed while calculating; nothing was saved.")
			return nil
		case errors.As(err, &svcErr):
			color.Red("Could not calculate this food. Try again.")
			return err
		case err != nil:
			return err
		}

		color.Green("✓ %s (%s): %.0f kcal  protein %.0fg  carbs %.0fg  fats %.0fg",
			opt.Food, opt.Portion, opt.Calories, opt.Protein, opt.Carbs, opt.Fats)
		color.New(color.Faint).Printf("  source: %s\n", opt.Source)
		printDayTotals(ed, ref.Day)
		return nil
	},
}

// printDayTotals shows the day's intake, which counts option 0 of each meal.
func printDayTotals(ed *editor.Editor, day int) {
	t, err := ed.DayTotals(day)
	if err != nil {
		return
	}
	color.New(color.Faint).Printf("  %s total: %.0f kcal  protein %.0fg  carbs %.0fg  fats %.0fg\n",
		models.WeekdayNames[day], t.Calories, t.Protein, t.Carbs, t.Fats)
}

func parseOptionRef(day, meal, option string) (editor.OptionRef, error) {
	d, err := parseDay(day)
	if err != nil {
		return editor.OptionRef{}, err
	}
	m, err := parseIndex("meal", meal)
	if err != nil {
		return editor.OptionRef{}, err
	}
	o, err := parseIndex("option", option)
	if err != nil {
		return editor.OptionRef{}, err
	}
	return editor.OptionRef{Day: d, Meal: m, Option: o}, nil
}

func init() {
	nutritionShowCmd.Flags().StringVarP(&nutritionDay, "day", "d", "", "day index (0-6) or weekday name")
	nutritionCmd.AddCommand(nutritionShowCmd)
	nutritionCmd.AddCommand(nutritionSetCmd)
	nutritionCmd.AddCommand(nutritionAddCmd)
	nutritionCmd.AddCommand(nutritionRemoveCmd)
	nutritionCmd.AddCommand(nutritionCalcCmd)
	rootCmd.AddCommand(nutritionCmd)
}
