package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/task"
)

var flagScope string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the active date",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var subCmd = &cobra.Command{
	Use:   "sub <task> <title>",
	Short: "Add a subtask",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSub,
}

var editCmd = &cobra.Command{
	Use:     "edit <task> <title>",
	Aliases: []string{"rename"},
	Short:   "Rename a task",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm <task>",
	Aliases: []string{"delete"},
	Short:   "Delete a task and its subtasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var doneCmd = &cobra.Command{
	Use:   "done <task>",
	Short: "Toggle a task between completed and todo",
	Args:  cobra.ExactArgs(1),
	RunE:  stateRunner(func(w *workspace, date, id string) error { return w.session.ToggleComplete(date, id) }),
}

var delegateCmd = &cobra.Command{
	Use:   "delegate <task>",
	Short: "Toggle a task between delegated and todo",
	Args:  cobra.ExactArgs(1),
	RunE:  stateRunner(func(w *workspace, date, id string) error { return w.session.Delegate(date, id) }),
}

var delayCmd = &cobra.Command{
	Use:   "delay <task>",
	Short: "Toggle a task between delayed and todo",
	Args:  cobra.ExactArgs(1),
	RunE:  stateRunner(func(w *workspace, date, id string) error { return w.session.ToggleDelayed(date, id) }),
}

var todoCmd = &cobra.Command{
	Use:   "todo <task>",
	Short: "Put a task back to todo",
	Args:  cobra.ExactArgs(1),
	RunE: stateRunner(func(w *workspace, date, id string) error {
		return w.session.SetState(date, id, models.TaskStateTodo)
	}),
}

var startCmd = &cobra.Command{
	Use:   "start <task>",
	Short: "Start a task, or stop it if it is running",
	Args:  cobra.ExactArgs(1),
	RunE:  stateRunner(func(w *workspace, date, id string) error { return w.session.ToggleStart(date, id) }),
}

func init() {
	scopeUsage := "which occurrences of a recurring task to change: this, all or from-today"
	for _, c := range []*cobra.Command{subCmd, editCmd, rmCmd} {
		c.Flags().StringVarP(&flagScope, "scope", "s", "", scopeUsage)
	}
}

// target resolves ref on the active date.
func (w *workspace) target(ref string) (date string, t models.Task, err error) {
	date, err = w.activeDate("")
	if err != nil {
		return "", models.Task{}, err
	}
	t, err = resolveRef(w.session.View(date), ref)
	return date, t, err
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		date, err := w.activeDate("")
		if err != nil {
			return err
		}
		created, err := w.session.AddTask(date, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
			styleSuccess.Render("Added"), created.Title, styleHint.Render("("+shortID(created.ID)+")"))
		return nil
	})
}

func runSub(cmd *cobra.Command, args []string) error {
	scope, err := task.ParseScope(flagScope)
	if err != nil {
		return err
	}
	return withWorkspace(cmd, func(w *workspace) error {
		date, parent, err := w.target(args[0])
		if err != nil {
			return err
		}
		title := strings.Join(args[1:], " ")
		if err := w.session.AddSubtask(date, parent.ID, title, scope); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s under %s\n", styleSuccess.Render("Added"), title, parent.Title)
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	scope, err := task.ParseScope(flagScope)
	if err != nil {
		return err
	}
	return withWorkspace(cmd, func(w *workspace) error {
		date, t, err := w.target(args[0])
		if err != nil {
			return err
		}
		title := strings.Join(args[1:], " ")
		if err := w.session.Rename(date, t.ID, title, scope); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", styleSuccess.Render("Renamed"), t.Title, strings.TrimSpace(title))
		return nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	scope, err := task.ParseScope(flagScope)
	if err != nil {
		return err
	}
	return withWorkspace(cmd, func(w *workspace) error {
		date, t, err := w.target(args[0])
		if err != nil {
			return err
		}
		if err := w.session.Delete(date, t.ID, scope); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleSuccess.Render("Deleted"), t.Title)
		return nil
	})
}

// stateRunner builds a command that applies fn to one task and reports the
// state it ends up in.
func stateRunner(fn func(w *workspace, date, id string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd, func(w *workspace) error {
			date, t, err := w.target(args[0])
			if err != nil {
				return err
			}
			if err := fn(w, date, t.ID); err != nil {
				return err
			}
			after, _, ok := task.Locate(w.session.View(date), t.ID)
			if !ok {
				return nil
			}
			status := string(after.State)
			if after.IsRunning() {
				status += ", running"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", stateBadge(after.State), after.Title, styleLabel.Render("("+status+")"))
			return nil
		})
	}
}
