package ui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdujack2012/remic/internal/binding"
	"github.com/sdujack2012/remic/internal/prefs"
	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Provider     *binding.Provider[tree.Value]
	Fetcher      todo.Fetcher
	ThemeName    string
	HideFinished bool
	PrefsPath    string
	Logger       *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx       context.Context
	bound     *binding.Bound[tree.Value]
	store     *state.Store[tree.Value]
	saver     todo.Saver
	prefsPath string
	logger    *slog.Logger

	// Components
	keys    keyMap
	form    formKeys
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	// UI state
	theme        Theme
	width        int
	height       int
	ready        bool
	selected     int
	adding       bool
	showHelp     bool
	hideFinished bool
	status       string

	// Data state, refreshed from the binding's props
	items     []todo.Item
	loading   bool
	lastError string
	failures  int
	cycle     uint64
}

// New creates a new Bubble Tea model bound to opts.Provider.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	saver, _ := opts.Fetcher.(todo.Saver)

	keys := DefaultKeyMap()
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 200
	input.Prompt = "+ "

	m := Model{
		ctx:          ctx,
		bound:        binding.Connect(opts.Provider, todo.Selectors(), todo.Actions(opts.Fetcher)),
		store:        opts.Provider.Store(),
		saver:        saver,
		prefsPath:    prefsPath,
		logger:       logger,
		keys:         keys,
		form:         formKeys{Confirm: keys.Confirm, Cancel: keys.Cancel},
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:        input,
		theme:        GetTheme(opts.ThemeName),
		hideFinished: opts.HideFinished,
	}
	m.load()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		m.ready = true
		return m, nil

	case cycleMsg:
		m.cycle = uint64(msg)
		m.load()
		return m, nil

	case actionMsg:
		return m.handleAction(msg)

	case reloadMsg:
		m.load()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			m.logger.Warn("save to-dos failed", "err", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.adding {
		// Cursor blink and other input internals.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.adding {
		return m.handleFormKey(msg)
	}

	visible := m.visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.HideFinished):
		m.hideFinished = !m.hideFinished
		m.clampSelection()
		m.savePrefs()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.invoke(todo.ActionStartRetrieve)

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(visible)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(len(visible)-1, 0)

	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.current(); ok {
			return m, m.invoke(todo.ActionToggle, it.Key, !it.IsFinished)
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.current(); ok {
			return m, m.invoke(todo.ActionRemove, it.Key)
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		desc := todo.Normalize(m.input.Value())
		m.adding = false
		m.input.Blur()
		if desc == "" {
			return m, nil
		}
		item := todo.Item{Key: todo.NextKey(m.store.Get()), Description: desc}
		return m, m.invoke(todo.ActionAdd, item)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = msg.err.Error()
		m.logger.Warn("action failed", "action", msg.name, "err", msg.err)
		if msg.name == todo.ActionStartRetrieve && !errors.Is(msg.err, context.Canceled) {
			return m, recordFailureCmd(m.ctx, m.store, m.logger, msg.err)
		}
		m.load()
		return m, nil
	}

	m.status = ""
	m.load()
	switch msg.name {
	case todo.ActionAdd, todo.ActionToggle, todo.ActionRemove:
		if m.saver != nil {
			return m, saveCmd(m.ctx, m.saver, todo.Collection(msg.state))
		}
	}
	return m, nil
}

// load refreshes the data state from the binding's props.
func (m *Model) load() {
	props := m.bound.Props()
	m.items, _ = props[todo.SelectToDos].([]todo.Item)
	m.loading, _ = props[todo.SelectIsLoading].(bool)
	m.lastError, _ = props[todo.SelectLastError].(string)
	m.failures, _ = props[todo.SelectFailures].(int)
	m.clampSelection()
}

// visible returns the items shown under the current filter.
func (m Model) visible() []todo.Item {
	if !m.hideFinished {
		return m.items
	}
	out := make([]todo.Item, 0, len(m.items))
	for _, it := range m.items {
		if !it.IsFinished {
			out = append(out, it)
		}
	}
	return out
}

func (m Model) current() (todo.Item, bool) {
	visible := m.visible()
	if m.selected < 0 || m.selected >= len(visible) {
		return todo.Item{}, false
	}
	return visible[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.visible())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HideFinished: m.hideFinished}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "err", err)
	}
}

func (m Model) invoke(name string, args ...any) tea.Cmd {
	return invokeCmd(m.ctx, m.bound, name, args...)
}

// Messages

// cycleMsg is sent once per render cycle of the provider's scheduler.
type cycleMsg uint64

type actionMsg struct {
	name  string
	state tree.Value
	err   error
}

type reloadMsg struct{}

type savedMsg struct{ err error }

// Commands

func invokeCmd(ctx context.Context, b *binding.Bound[tree.Value], name string, args ...any) tea.Cmd {
	return func() tea.Msg {
		next, err := b.Invoke(ctx, name, args...)
		return actionMsg{name: name, state: next, err: err}
	}
}

func recordFailureCmd(ctx context.Context, store *state.Store[tree.Value], logger *slog.Logger, cause error) tea.Cmd {
	return func() tea.Msg {
		if _, err := store.Update(ctx, todo.RecordFailure(cause)); err != nil {
			logger.Error("record refresh failure", "err", err, "cause", cause)
		}
		return reloadMsg{}
	}
}

func saveCmd(ctx context.Context, saver todo.Saver, items tree.Map) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: saver.Save(ctx, items)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// opts.Context ends. Every render cycle of the provider is delivered to the
// program as a message.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	unsubscribe := opts.Provider.Scheduler().OnCycle(func(seq uint64) {
		p.Send(cycleMsg(seq))
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
