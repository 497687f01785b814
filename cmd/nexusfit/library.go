// ABOUTME: CLI command for browsing the AI exercise library.
// ABOUTME: Lists categories, or exercises of one or all categories grouped by muscle.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/library"
	"github.com/harperreed/nexusfit/internal/models"
)

var (
	librarySearch string
	libraryAll    bool
)

var libraryCmd = &cobra.Command{
	Use:     "library [category]",
	Aliases: []string{"lib"},
	Short:   "Browse exercises by equipment category",
	Long: `Browse exercises suggested for an equipment category, grouped by muscle.

Without a category the known categories are listed. With --all every
category is fetched, a few at a time.

CATEGORIES:

  calisthenics, free_weights, bar, kettlebell, band, plates, pull_up_bar,
  bench, ergonomics, cardio, equipment, sport

EXAMPLES:

  nexusfit library                          # List categories
  nexusfit library kettlebell               # Kettlebell exercises
  nexusfit library free_weights -s chest    # Filter by name, description, or muscle
  nexusfit library --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !libraryAll {
			printCategories(cmd.OutOrStdout())
			return nil
		}

		client, err := aiClient(cmd.Context())
		if err != nil {
			return err
		}
		svc := newLibrary(client)

		if libraryAll {
			for _, page := range svc.BrowseAll(cmd.Context(), models.AllLibraryCategories) {
				color.New(color.Bold, color.Underline).Fprintln(cmd.OutOrStdout(), models.LibraryCategoryLabels[page.Category])
				if page.Err != nil {
					color.Red("  %v", page.Err)
					continue
				}
				printLibrary(cmd.OutOrStdout(), library.Filter(page.Items, librarySearch))
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		}

		items, err := svc.Browse(cmd.Context(), models.LibraryCategory(args[0]))
		if err != nil {
			return fmt.Errorf("failed to browse library: %w", err)
		}
		printLibrary(cmd.OutOrStdout(), library.Filter(items, librarySearch))
		return nil
	},
}

func printCategories(w io.Writer) {
	for _, c := range models.AllLibraryCategories {
		fmt.Fprintf(w, "%s %s\n", padRight(string(c), 14), color.New(color.Faint).Sprint(models.LibraryCategoryLabels[c]))
	}
}

func printLibrary(w io.Writer, items []models.LibraryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No exercises found.")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	library.SortByName(items)
	groups := library.GroupByMuscle(items)
	for _, name := range library.OrderedGroups(groups) {
		bold.Fprintf(w, "%s (%d)\n", name, len(groups[name]))
		for _, item := range groups[name] {
			fmt.Fprintf(w, "  %s %s\n", padRight(truncate(item.Name, 32), 32),
				faint.Sprintf("~%.0f kcal  %s", item.KcalEstimate, truncate(item.Description, 60)))
			if item.MediaURL != "" {
				faint.Fprintf(w, "  %s\n", item.MediaURL)
			}
		}
	}
}

func init() {
	libraryCmd.Flags().StringVarP(&librarySearch, "search", "s", "", "filter by name, description, or muscle group")
	libraryCmd.Flags().BoolVar(&libraryAll, "all", false, "browse every category")
	rootCmd.AddCommand(libraryCmd)
}
