// ABOUTME: CLI commands for viewing and replacing the stored profile.
// ABOUTME: Profiles are shown as YAML, replaced from JSON or YAML files, and trigger a plan sync.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/nexusfit/internal/models"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

var (
	profileFile   string
	profileNoSync bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or replace your profile",
	Long: `View or replace the stored profile.

Saving a profile regenerates the weekly plan so it matches, replacing any
meal edits. Pass --no-sync to keep the current plan. Without an API key the
profile is saved and the plan is left as it is.

EXAMPLES:

  nexusfit profile show
  nexusfit profile set --file profile.yaml
  nexusfit profile set --file profile.yaml --no-sync`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := st.Profile()
		if profile == nil {
			fmt.Println("No profile yet. Run 'nexusfit onboard --file <profile>' first.")
			return nil
		}
		data, err := yaml.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the profile from a file and regenerate the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileFile == "" {
			return fmt.Errorf("--file is required")
		}
		profile, err := readProfileFile(profileFile)
		if err != nil {
			return err
		}
		if profileNoSync {
			return saveProfile(cmd.Context(), profile, nil)
		}

		client, err := aiClient(cmd.Context())
		if err != nil {
			if err := saveProfile(cmd.Context(), profile, nil); err != nil {
				return err
			}
			color.Yellow("Plan not regenerated: %v", err)
			return nil
		}
		return saveProfile(cmd.Context(), profile, client)
	},
}

// saveProfile stores the profile, then regenerates the plan when gen is set.
func saveProfile(ctx context.Context, profile *models.UserProfile, gen plansync.Generator) error {
	if err := st.ReplaceProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	color.Green("✓ Profile updated")
	if gen == nil {
		return nil
	}
	return regeneratePlan(ctx, gen)
}

func init() {
	profileSetCmd.Flags().StringVarP(&profileFile, "file", "f", "", "profile file (.json, .yaml)")
	profileSetCmd.Flags().BoolVar(&profileNoSync, "no-sync", false, "keep the current plan")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
