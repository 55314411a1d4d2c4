// Package cli implements the ritual commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/config"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/recurrence"
	"github.com/ritual-tui/ritual/internal/session"
	"github.com/ritual-tui/ritual/internal/task"
	"github.com/ritual-tui/ritual/internal/validate"
)

var (
	flagData  string
	flagDebug bool
	flagDate  string
)

var rootCmd = &cobra.Command{
	Use:   "ritual",
	Short: "Plan your days, keep your routines, see what you did",
	Long: `Ritual keeps a list of tasks for every day. Tasks can recur, nest into
subtasks and move through todo, completed, delegated and delayed. Every
change made today is written to a timeline.

Tasks are addressed by the number shown in "ritual day" (2, 2.1) or by id.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runDay,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("Error: ")+err.Error())
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, styleHint.Render(hint))
		}
	}
	return err
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, session.ErrScopeRequired):
		return "Pass --scope this, --scope all or --scope from-today."
	case errors.Is(err, errNoTask):
		return "Run 'ritual day' to list tasks with their numbers."
	case errors.Is(err, errAmbiguousRef):
		return "Use more characters of the id."
	case errors.Is(err, config.ErrUnknownKey):
		return "Keys: " + strings.Join(config.Keys(), ", ")
	case errors.Is(err, models.ErrUnknownSetting):
		return "Settings: " + strings.Join(models.SettingKeys(), ", ")
	case errors.Is(err, recurrence.ErrInvalidPattern):
		return "Frequencies: daily, weekdays, weekly, monthly, yearly, custom (with --interval or --days)."
	case errors.Is(err, validate.ErrInvalidTitle):
		return fmt.Sprintf("Titles must be 1-%d characters.", validate.MaxTitleLength)
	case errors.Is(err, task.ErrNestedRecurrence):
		return "Only top-level tasks can recur."
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data file to use (overrides config and $RITUAL_DATA)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a debug log")
	rootCmd.PersistentFlags().StringVarP(&flagDate, "date", "d", "", "active date: YYYY-MM-DD, today, tomorrow, yesterday, +N or -N")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(delayCmd)
	rootCmd.AddCommand(delegateCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(recurCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
