// ABOUTME: CLI command for running a guided workout session.
// ABOUTME: Steps through a day's exercises and records the session on finish.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/session"
)

var workoutFrom int

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Run guided workouts",
}

var workoutStartCmd = &cobra.Command{
	Use:   "start <day>",
	Short: "Start the guided workout for a day",
	Long: `Step through a day's exercises one at a time.

CONTROLS (type then press enter):

  enter, n   exercise done, go to the next one
  s          skip this exercise
  p          pause or resume the timer
  f          finish now and record the session
  q          quit without recording

The session is recorded when you pass the last exercise or finish early.
Calories and estimated fat loss cover every exercise scheduled for the day.

EXAMPLES:

  nexusfit workout start monday
  nexusfit workout start 2 --from 3   # Resume at the fourth exercise`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}

		rec := session.New(st, session.WithLogger(logger))
		if err := rec.Start(day, workoutFrom); err != nil {
			if errors.Is(err, session.ErrRestDay) {
				color.Yellow("%s is a rest day.", models.WeekdayNames[day])
				return nil
			}
			return fmt.Errorf("failed to start workout: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go rec.Run(ctx)

		s, err := runWorkout(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), rec)
		if err != nil {
			return err
		}
		if s == nil {
			color.Yellow("Workout abandoned. Nothing was recorded.")
			return nil
		}
		color.Green("✓ Workout recorded: %.0f kcal burned, about %.1fg of fat",
			s.TotalKcal, s.TotalFatLostGrams)
		return nil
	},
}

// runWorkout drives rec from line commands read from in. It returns the
// recorded session, or nil when the workout was abandoned.
func runWorkout(ctx context.Context, in io.Reader, out io.Writer, rec *session.Recorder) (*models.WorkoutSession, error) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	printCurrent(out, rec)
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			rec.Abort()
			return nil, nil
		case line, ok = <-lines:
		}
		if !ok {
			rec.Abort()
			return nil, nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "n", "s":
			s, err := rec.Advance()
			if err != nil {
				return nil, fmt.Errorf("failed to advance: %w", err)
			}
			if s != nil {
				return s, nil
			}
			printCurrent(out, rec)
		case "p":
			if rec.Paused() {
				rec.Resume()
				fmt.Fprintln(out, "Resumed.")
			} else {
				rec.Pause()
				fmt.Fprintf(out, "Paused at %s. Type p to resume.\n", rec.Elapsed())
			}
		case "f":
			s, err := rec.CompleteSession()
			if err != nil {
				return nil, fmt.Errorf("failed to finish: %w", err)
			}
			return &s, nil
		case "q":
			rec.Abort()
			return nil, nil
		default:
			fmt.Fprintln(out, "Commands: enter/n next, s skip, p pause, f finish, q quit")
		}
	}
}

func printCurrent(w io.Writer, rec *session.Recorder) {
	ex, idx, total, err := rec.Current()
	if err != nil {
		return
	}
	faint := color.New(color.Faint)
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintf(w, "[%d/%d] %s\n", idx+1, total, ex.Name)
	fmt.Fprintf(w, "  %d sets x %s, rest %s\n", ex.Sets, ex.Reps, ex.Rest)
	if ex.Description != "" {
		faint.Fprintf(w, "  %s\n", ex.Description)
	}
	if ex.MediaURL != "" {
		faint.Fprintf(w, "  %s\n", ex.MediaURL)
	}
	faint.Fprintf(w, "  %s elapsed\n", rec.Elapsed().Round(time.Second))
}

func init() {
	workoutStartCmd.Flags().IntVar(&workoutFrom, "from", 0, "exercise index to start at")
	workoutCmd.AddCommand(workoutStartCmd)
	rootCmd.AddCommand(workoutCmd)
}
