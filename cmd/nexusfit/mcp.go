// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the plan store for AI assistants.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/mcp"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "nexusfit": {
        "command": "nexusfit",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_plan               Whole week or one day
  regenerate_plan        Generate a new plan (needs API key)
  set_profile            Update profile fields and regenerate the plan
  sync_status            Sync state; dismiss clears a failure
  set_meal_option_field  Edit food, portion, or macros of an option
  add_meal_option        Append an option to a meal
  remove_meal_option     Remove an option (a meal keeps one)
  smart_calculate        Fill macros with AI (needs API key)
  list_sessions          Recorded workouts
  browse_library         Exercises by category (needs API key)
  get_dashboard          Calorie targets and progress

AVAILABLE RESOURCES:

  nexusfit://plan        Weekly plan with daily totals
  nexusfit://history     Recorded sessions with totals
  nexusfit://dashboard   Calorie targets and progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deps := mcp.Deps{Store: st, Logger: logger}

		client, err := aiClient(ctx)
		if err != nil {
			logger.Warn("AI tools disabled", zap.Error(err))
			client = nil
		}

		var orch *plansync.Orchestrator
		if client != nil {
			orch, err = newOrchestrator(client)
			if err != nil {
				return err
			}
			defer orch.Close()
			orch.Start()
			deps.Sync = orch
			deps.Library = newLibrary(client)
		}
		deps.Editor = newEditor(client)

		server, err := mcp.NewServer(deps)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
