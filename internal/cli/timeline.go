package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:     "timeline [date]",
	Aliases: []string{"log"},
	Short:   "Show what happened on a day",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runTimeline,
}

var timelineClearCmd = &cobra.Command{
	Use:   "clear [date]",
	Short: "Clear the timeline of a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTimelineClear,
}

func init() {
	timelineCmd.AddCommand(timelineClearCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		date, err := w.activeDate(firstArg(args))
		if err != nil {
			return err
		}
		s := w.session
		renderTimeline(cmd.OutOrStdout(), date, s.Today(), timeline.EventsForDate(s.Timeline, date),
			s.Settings.TimeFormat, s.Manager().Now())
		return nil
	})
}

func runTimelineClear(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		date, err := w.activeDate(firstArg(args))
		if err != nil {
			return err
		}
		n := len(w.session.Timeline[date])
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), styleHint.Render("Nothing to clear."))
			return nil
		}
		w.session.ClearTimeline(date)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d events from %s\n", styleSuccess.Render("Cleared"), n, date)
		return nil
	})
}
