package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/move"
)

var (
	flagFrom string
	flagTo   string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move unfinished tasks to another day",
	Long: `Move unfinished tasks to another day.

Without flags every past day's unfinished tasks move to today. With --from
only, that day's tasks move to today; with --to only, the active date's
tasks move there.`,
	Args: cobra.NoArgs,
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringVar(&flagFrom, "from", "", "day to move tasks from")
	moveCmd.Flags().StringVar(&flagTo, "to", "", "day to move tasks to")
}

func runMove(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		s := w.session
		out := cmd.OutOrStdout()
		now := s.Manager().Now()

		if flagFrom == "" && flagTo == "" {
			from := s.MoveUnfinishedToToday()
			if len(from) == 0 {
				fmt.Fprintln(out, styleHint.Render("No unfinished tasks on past days."))
				return nil
			}
			fmt.Fprintf(out, "%s unfinished tasks from %s to today\n", styleSuccess.Render("Moved"), strings.Join(from, ", "))
			return nil
		}

		from, err := w.activeDate(flagFrom)
		if err != nil {
			return err
		}
		to, err := dates.Resolve(flagTo, now)
		if err != nil {
			return err
		}
		if from == to {
			return fmt.Errorf("cannot move %s onto itself", from)
		}
		n := len(move.UnfinishedTasks(s.Tasks[from]))
		if n == 0 {
			fmt.Fprintf(out, "%s\n", styleHint.Render("No unfinished tasks on "+from+"."))
			return nil
		}
		s.Move(from, to)
		fmt.Fprintf(out, "%s unfinished tasks from %s to %s\n", styleSuccess.Render("Moved"), from, to)
		return nil
	})
}
