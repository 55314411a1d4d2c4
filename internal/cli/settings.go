package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [key] [value]",
	Short: "Show or change the settings stored with your tasks",
	Long: `Show or change the settings stored in the data file.

With no arguments every setting is listed, with a key only that one is
printed, and with a key and a value the setting is changed.

Keys:
  auto_move     move unfinished tasks from past days to today on start (true or false)
  time_format   clock format in listings and the timeline (12h or 24h)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSettings,
}

func runSettings(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		out := cmd.OutOrStdout()
		s := w.session

		switch len(args) {
		case 0:
			for _, key := range models.SettingKeys() {
				v, err := s.Settings.Get(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", styleLabel.Render(fmt.Sprintf("%-12s", key+":")), v)
			}
		case 1:
			v, err := s.Settings.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
		default:
			if err := s.SetSetting(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s = %s\n", styleSuccess.Render("Set"), args[0], args[1])
		}
		return nil
	})
}
