package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change app configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration in effect",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config, data and undo file paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value in config.yaml.

Keys:
  data_file   data file location (empty for the default)
  backend     json or sqlite
  debug       true or false
  undo_file   undo history location (empty for next to the data file)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, key := range config.Keys() {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if v == "" {
			v = styleHint.Render("(default)")
		}
		fmt.Fprintf(out, "%s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", key+":")), v)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configPath, err := config.ConfigFile()
	if err != nil {
		return err
	}
	dataPath, err := cfg.DataPath()
	if err != nil {
		return err
	}
	undoPath, err := cfg.UndoPath()
	if err != nil {
		return err
	}
	logPath, err := config.LogFile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Config:"), configPath)
	fmt.Fprintf(out, "%s %s %s\n", styleLabel.Render("Data:  "), dataPath, styleHint.Render("("+cfg.Backend+")"))
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Undo:  "), undoPath)
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Log:   "), logPath)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFile()
	if err != nil {
		return err
	}
	// Load without env overrides so they are not written back.
	cfg, err := config.LoadYAMLOrDefault(path, config.NewApp)
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveApp(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", styleSuccess.Render("Set"), args[0], args[1])
	return nil
}
