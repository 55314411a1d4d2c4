package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/undo"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last change",
	Args:  cobra.NoArgs,
	RunE:  runUndo,
}

func describeAction(t undo.ActionType) string {
	switch t {
	case undo.TaskAdd:
		return "add"
	case undo.TaskUpdate:
		return "update"
	case undo.TaskDelete:
		return "delete"
	case undo.TimelineClear:
		return "timeline clear"
	}
	return strings.ToLower(string(t))
}

func runUndo(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		action, ok := w.session.UndoLast()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), styleHint.Render("Nothing to undo."))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s from %s %s\n",
			styleSuccess.Render("Undid"),
			describeAction(action.Type),
			action.Timestamp.Local().Format("Jan 2 15:04"),
			styleHint.Render(fmt.Sprintf("(%d more)", w.session.Undo.Len())))
		return nil
	})
}
