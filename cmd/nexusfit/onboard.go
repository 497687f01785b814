// ABOUTME: CLI command that completes onboarding from a profile file.
// ABOUTME: Saves the profile and lets the sync orchestrator generate the first plan.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	plansync "github.com/harperreed/nexusfit/internal/sync"
)

var onboardFile string
var onboardNoSync bool

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Save your profile and generate the first plan",
	Long: `Complete onboarding from a profile file (JSON or YAML).

The profile is stored and onboarding is marked complete. If an API key is
configured, a weekly plan is generated right away; otherwise the default
placeholder plan stays until you run 'nexusfit plan regenerate'.

Fields missing from the file keep their defaults (70 kg, 175 cm, age 25,
weight loss, 4 meals per day, 3 training days per week).

PROFILE FILE (YAML):

  name: Ana
  age: 31
  sex: female
  weight: 68
  height: 165
  targetWeight: 62
  activityLevel: lightly_active
  nutrition:
    objective: weight_loss
    mealsPerDay: 4

EXAMPLES:

  nexusfit onboard --file profile.yaml
  nexusfit onboard --file profile.json --no-sync`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if onboardFile == "" {
			return fmt.Errorf("--file is required")
		}
		profile, err := readProfileFile(onboardFile)
		if err != nil {
			return err
		}
		if err := st.CompleteOnboarding(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		color.Green("✓ Profile saved for %s", displayName(profile.Name))

		if onboardNoSync {
			return nil
		}
		client, err := aiClient(cmd.Context())
		if err != nil {
			color.Yellow("Plan not generated: %v", err)
			return nil
		}

		orch, err := newOrchestrator(client, plansync.WithObserver(func(s plansync.State) {
			if s.Status == plansync.StatusInFlight {
				fmt.Println("Generating your weekly plan...")
			}
		}))
		if err != nil {
			return err
		}
		defer orch.Close()
		stop := context.AfterFunc(cmd.Context(), orch.Close)
		defer stop()

		orch.Start()
		orch.Wait()

		state := orch.State()
		switch state.Status {
		case plansync.StatusIdle:
			fmt.Println("Existing plan kept. Run 'nexusfit plan regenerate' for a new one.")
		case plansync.StatusSucceeded:
			color.Green("✓ Plan generated")
			printIssues(state.Issues)
		case plansync.StatusFailed:
			color.Red(state.Message)
			return fmt.Errorf("plan generation failed: %w", state.Err)
		}
		return nil
	},
}

func displayName(name string) string {
	if name == "" {
		return "Champion"
	}
	return name
}

func printIssues(issues []string) {
	if len(issues) == 0 {
		return
	}
	faint := color.New(color.Faint)
	faint.Printf("  %d field(s) repaired with defaults:\n", len(issues))
	for _, issue := range issues {
		faint.Printf("    %s\n", issue)
	}
}

func init() {
	onboardCmd.Flags().StringVarP(&onboardFile, "file", "f", "", "profile file (.json, .yaml)")
	onboardCmd.Flags().BoolVar(&onboardNoSync, "no-sync", false, "skip plan generation")
	rootCmd.AddCommand(onboardCmd)
}
