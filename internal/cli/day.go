package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/calendar"
	"github.com/ritual-tui/ritual/internal/tree"
)

var dayCmd = &cobra.Command{
	Use:     "day [date]",
	Aliases: []string{"ls", "list"},
	Short:   "List the tasks of a day",
	Long: `List the tasks of a day, including upcoming occurrences of recurring tasks.
The numbers in front of each task can be used wherever a task is expected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

var statsCmd = &cobra.Command{
	Use:   "stats [date]",
	Short: "Show completion for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month with the days that have tasks",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runCalendar,
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runDay(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		date, err := w.activeDate(firstArg(args))
		if err != nil {
			return err
		}
		renderDay(cmd.OutOrStdout(), w.session, date)
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		date, err := w.activeDate(firstArg(args))
		if err != nil {
			return err
		}
		s := w.session
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, dayHeading(date, s.Today()))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Visible:"), renderStats(tree.Stats(s.View(date))))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Saved:  "), renderStats(s.Manager().Stats(s.Tasks, date)))
		fmt.Fprintf(out, "  %s %d\n", styleLabel.Render("Events: "), len(s.Timeline[date]))
		return nil
	})
}

func runCalendar(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		selected, err := w.activeDate("")
		if err != nil {
			return err
		}
		month, err := time.ParseInLocation("2006-01", selected[:7], time.Local)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			month, err = time.ParseInLocation("2006-01", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q (want YYYY-MM)", args[0])
			}
		}
		s := w.session
		v := calendar.MonthView(month.Year(), month.Month(), selected, s.Tasks, s.Today())
		renderCalendar(cmd.OutOrStdout(), v)
		return nil
	})
}
