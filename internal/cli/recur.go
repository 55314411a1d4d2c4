package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/recurrence"
)

var (
	flagFreq     string
	flagInterval int
	flagDays     string
	flagUntil    string
	flagClear    bool
)

var recurCmd = &cobra.Command{
	Use:   "recur <task>",
	Short: "Make a task repeat",
	Long: `Make a top-level task repeat from its date onward.

Examples:
  ritual recur 1 --freq daily
  ritual recur 2 --freq custom --days mon,wed,fri --until 2025-06-30
  ritual recur 3 --freq custom --interval 3
  ritual recur 1 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runRecur,
}

var excludeCmd = &cobra.Command{
	Use:   "exclude <task> <date>",
	Short: "Skip one occurrence of a recurring task",
	Long: `Skip one occurrence of a recurring task. The task is looked up on the
active date; its recurring definition gets the exclusion.`,
	Args: cobra.ExactArgs(2),
	RunE: runExclude,
}

func init() {
	recurCmd.Flags().StringVarP(&flagFreq, "freq", "f", "", "daily, weekdays, weekly, monthly, yearly or custom")
	recurCmd.Flags().IntVarP(&flagInterval, "interval", "i", 0, "for custom: repeat every N days")
	recurCmd.Flags().StringVar(&flagDays, "days", "", "for custom: days of the week, e.g. mon,wed")
	recurCmd.Flags().StringVar(&flagUntil, "until", "", "last date (YYYY-MM-DD)")
	recurCmd.Flags().BoolVar(&flagClear, "clear", false, "stop repeating")
}

func runRecur(cmd *cobra.Command, args []string) error {
	var p *models.RecurrencePattern
	if !flagClear {
		if flagFreq == "" {
			return errors.New("--freq is required (or --clear to stop repeating)")
		}
		var err error
		p, err = recurrence.Parse(recurrence.ParseOptions{
			Frequency: flagFreq,
			Interval:  flagInterval,
			Days:      flagDays,
			Until:     flagUntil,
		})
		if err != nil {
			return err
		}
	}

	return withWorkspace(cmd, func(w *workspace) error {
		date, t, err := w.target(args[0])
		if err != nil {
			return err
		}
		if err := w.session.SetRecurrence(date, t.ID, p); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if p == nil {
			fmt.Fprintf(out, "%s %s no longer repeats\n", styleSuccess.Render("Updated"), t.Title)
			return nil
		}
		fmt.Fprintf(out, "%s %s repeats %s\n", styleSuccess.Render("Updated"), t.Title, styleRecur.Render(recurrence.Describe(p)))
		if next, ok := nextOccurrence(p, t.Date); ok {
			fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Next:"), next)
		}
		return nil
	})
}

func runExclude(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		skip, err := w.activeDate(args[1])
		if err != nil {
			return err
		}

		defID := args[0]
		title := args[0]
		if _, t, err := w.target(args[0]); err == nil {
			if id, ok := t.DefinitionID(); ok {
				defID = id
			}
			title = t.Title
		}

		if err := w.session.ExcludeOccurrence(defID, skip); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s\n", styleSuccess.Render("Skipping"), title, skip)
		return nil
	})
}

// nextOccurrence returns the first date after anchor that p generates on.
// A malformed anchor yields nothing.
func nextOccurrence(p *models.RecurrencePattern, anchor string) (string, bool) {
	from, err := dates.Parse(anchor)
	if err != nil {
		slog.Warn("malformed task date, skipping next occurrence", "date", anchor)
		return "", false
	}
	next, ok := recurrence.NextOccurrence(p, from)
	if !ok {
		return "", false
	}
	return dates.Format(next), true
}
