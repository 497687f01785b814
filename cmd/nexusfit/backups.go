// ABOUTME: CLI commands for listing and restoring previous saved states.
// ABOUTME: Only the sqlite backend keeps revisions.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/storage"
)

var backupsLimit int

// errNoRevisions is returned when the active backend keeps no revisions.
var errNoRevisions = errors.New("previous states are only kept by the sqlite backend")

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List previous saved states",
	Long: `List previous saved states kept by the sqlite backend, newest first.

Every change (a new plan, a meal edit, a recorded workout) saves the whole
state; the previous one is kept as a revision. The config key
"keep_revisions" sets how many are kept (default 10).

EXAMPLES:

  nexusfit backups             # List revisions
  nexusfit backups restore 42  # Restore revision 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, ok := repo.(*storage.DB)
		if !ok {
			return errNoRevisions
		}
		revs, err := db.Backups(backupsLimit)
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		printBackups(cmd.OutOrStdout(), revs)
		return nil
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the current state with a previous one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid revision id: %q", args[0])
		}
		db, ok := repo.(*storage.DB)
		if !ok {
			return errNoRevisions
		}
		revs, err := db.Backups(0)
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		for _, r := range revs {
			if r.ID != id {
				continue
			}
			if err := st.ImportJSON(r.Data); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			color.Green("✓ Restored state saved at %s", r.SavedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		}
		return fmt.Errorf("no revision %d", id)
	},
}

func printBackups(w io.Writer, revs []storage.Revision) {
	if len(revs) == 0 {
		fmt.Fprintln(w, "No previous states kept yet.")
		return
	}
	faint := color.New(color.Faint)
	for _, r := range revs {
		fmt.Fprintf(w, "%s %s %s\n",
			padRight(strconv.FormatInt(r.ID, 10), 6),
			r.SavedAt.Local().Format("2006-01-02 15:04:05"),
			faint.Sprintf("%d bytes", len(r.Data)))
	}
}

func init() {
	backupsCmd.Flags().IntVarP(&backupsLimit, "limit", "n", 20, "max number of revisions")
	backupsCmd.AddCommand(backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
