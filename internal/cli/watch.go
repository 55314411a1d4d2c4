package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/session"
	"github.com/ritual-tui/ritual/internal/storage"
	"github.com/ritual-tui/ritual/internal/task"
)

var watchCmd = &cobra.Command{
	Use:   "watch [date]",
	Short: "Show a day and refresh it whenever the data file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

var watchQuit = key.NewBinding(
	key.WithKeys("q", "esc", "ctrl+c"),
	key.WithHelp("q", "quit"),
)

// dataChangedMsg signals that the data file was written by someone else.
type dataChangedMsg struct{}

// reloadedMsg carries a session rebuilt from the data file.
type reloadedMsg struct {
	session *session.Session
}

// watchErrMsg ends the watch with an error.
type watchErrMsg struct {
	err error
}

// watchModel shows one day and redraws it on every data file change.
type watchModel struct {
	ctx     context.Context
	store   storage.Store
	changes <-chan storage.Change
	ref     string
	session *session.Session
	width   int
	help    help.Model
	err     error
}

func newWatchModel(ctx context.Context, store storage.Store, changes <-chan storage.Change, ref string, s *session.Session) watchModel {
	return watchModel{
		ctx:     ctx,
		store:   store,
		changes: changes,
		ref:     ref,
		session: s,
		help:    help.New(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return waitForChangeCmd(m.changes)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, watchQuit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case dataChangedMsg:
		return m, reloadCmd(m.ctx, m.store)
	case reloadedMsg:
		m.session = msg.session
		return m, waitForChangeCmd(m.changes)
	case watchErrMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	if err := renderWatched(&b, m.session, m.ref); err != nil {
		return styleError.Render(err.Error()) + "\n"
	}
	body := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, m.width, "…")
		}
		body = strings.Join(lines, "\n")
	}
	footer := styleHint.Render("Watching "+m.store.Path()) + "  " + m.help.ShortHelpView([]key.Binding{watchQuit})
	return body + "\n\n" + footer + "\n"
}

// waitForChangeCmd blocks until the next data file change. A closed channel
// ends the program.
func waitForChangeCmd(changes <-chan storage.Change) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return tea.Quit()
		}
		return dataChangedMsg{}
	}
}

func reloadCmd(ctx context.Context, store storage.Store) tea.Cmd {
	return func() tea.Msg {
		s, err := reload(ctx, store)
		if err != nil {
			return watchErrMsg{err: fmt.Errorf("failed to reload %s: %w", store.Path(), err)}
		}
		return reloadedMsg{session: s}
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()
	if err := w.save(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	changes, err := storage.Watch(ctx, w.store.Path())
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.store.Path(), err)
	}

	ref := firstArg(args)
	if ref == "" {
		ref = flagDate
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return watchPlain(ctx, cmd.OutOrStdout(), w.store, changes, ref, w.session)
	}

	model := newWatchModel(ctx, w.store, changes, ref, w.session)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(watchModel); ok && m.err != nil && ctx.Err() == nil {
		return m.err
	}
	return nil
}

// watchPlain prints the day again after every change, for pipes and logs.
func watchPlain(ctx context.Context, out io.Writer, store storage.Store, changes <-chan storage.Change, ref string, s *session.Session) error {
	show := func(s *session.Session) error {
		if err := renderWatched(out, s, ref); err != nil {
			return err
		}
		fmt.Fprintln(out, styleHint.Render("\nWatching "+store.Path()+". Press Ctrl+C to stop."))
		return nil
	}

	if err := show(s); err != nil {
		return err
	}
	for range changes {
		s, err := reload(ctx, store)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := show(s); err != nil {
			return err
		}
	}
	return nil
}

func renderWatched(out io.Writer, s *session.Session, ref string) error {
	date, err := dates.Resolve(ref, s.Manager().Now())
	if err != nil {
		return err
	}
	renderDay(out, s, date)
	return nil
}

func reload(ctx context.Context, store storage.Store) (*session.Session, error) {
	schema, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return session.New(schema, task.NewManager(), nil), nil
}
