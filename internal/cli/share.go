package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ritual-tui/ritual/internal/storage"
)

var (
	flagReplace bool
	flagMerge   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write all tasks, timeline and settings to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load tasks from an exported file",
	Long: `Load tasks from an exported file, either replacing everything or merging
the file's tasks and events into yours. Without --replace or --merge you are
asked, when running in a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the data file next to itself with a timestamp",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	importCmd.Flags().BoolVar(&flagReplace, "replace", false, "replace all local data with the file")
	importCmd.Flags().BoolVar(&flagMerge, "merge", false, "add the file's tasks and events to local data")
	importCmd.MarkFlagsMutuallyExclusive("replace", "merge")
}

func runExport(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		if err := storage.WriteSchemaFile(args[0], w.session.Schema()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleSuccess.Render("Exported to"), args[0])
		return nil
	})
}

// importMode asks whether to replace or merge. It only prompts on a terminal.
func importMode(in io.Reader, out io.Writer, interactive bool) (string, error) {
	switch {
	case flagReplace:
		return "replace", nil
	case flagMerge:
		return "merge", nil
	case !interactive:
		return "", errors.New("choose --replace or --merge")
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "(r)eplace local data or (m)erge into it? [r/m]: ")
		answer, err := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "r", "replace":
			return "replace", nil
		case "m", "merge":
			return "merge", nil
		}
		if err != nil {
			return "", errors.New("import cancelled")
		}
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	remote, err := storage.ReadSchemaFile(args[0])
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	mode, err := importMode(cmd.InOrStdin(), cmd.OutOrStdout(), interactive)
	if err != nil {
		return err
	}

	return withWorkspace(cmd, func(w *workspace) error {
		s := w.session
		if mode == "merge" {
			s.Replace(storage.Merge(s.Schema(), remote))
		} else {
			s.Replace(remote)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%sd). Run 'ritual undo' to revert.\n",
			styleSuccess.Render("Imported"), args[0], mode)
		return nil
	})
}

func runBackup(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(w *workspace) error {
		path, err := w.store.Backup(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleSuccess.Render("Backed up to"), path)
		return nil
	})
}
