package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rail44/userlist/internal/listview"
	"github.com/rail44/userlist/internal/store"
	"github.com/rail44/userlist/internal/users"
)

const (
	title            = "User List"
	loadingText      = "Loading users..."
	placeholder      = "Search by name"
	verboseLogHeight = 3
)

// Options configures a Model
type Options struct {
	Fetcher users.Fetcher

	// Store defaults to an in-memory store, which forgets the term on exit
	Store     store.Store
	SortOrder listview.SortOrder
	Verbose   bool

	// Logger receives the view's records. When nil they are kept in
	// memory at LogLevel and shown in the footer in verbose mode.
	Logger   *slog.Logger
	LogLevel slog.Level
}

// Model is the Bubble Tea model of the user list view
type Model struct {
	state   listview.State
	fetcher users.Fetcher
	store   store.Store
	logger  *slog.Logger
	logs    *logBuffer
	verbose bool
	fetched bool
	width   int
	height  int
}

// NewModel creates the view and restores the last search term from the store
func NewModel(opts Options) *Model {
	logs := &logBuffer{}
	logger := opts.Logger
	if logger == nil {
		logger = newViewLogger(logs, opts.LogLevel)
	}

	order := opts.SortOrder
	if order == "" {
		order = listview.Ascending
	}

	st := opts.Store
	if st == nil {
		st = store.NewMemStore(nil)
	}

	m := &Model{
		state:   listview.State{SortOrder: order},
		fetcher: opts.Fetcher,
		store:   st,
		logger:  logger,
		logs:    logs,
		verbose: opts.Verbose,
	}

	term, _, err := m.store.Get(store.PastSearchTermKey)
	if err != nil {
		logger.Warn("failed to restore search term", slog.String("error", err.Error()))
	}
	m.state.SearchTerm = term

	return m
}

// State returns a snapshot of the view state
func (m *Model) State() listview.State {
	return m.state
}

// Init starts the one-shot fetch. Later calls do nothing.
func (m *Model) Init() tea.Cmd {
	if m.fetched {
		return nil
	}
	m.fetched = true
	m.state.Loading = true
	m.state.Err = ""
	return m.fetch()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case usersFetchedMsg:
		m.state.Loading = false
		if msg.err != nil {
			m.state.Err = users.FormatFetchError(msg.err)
			m.logger.Error("fetch failed", slog.String("error", msg.err.Error()))
			return m, nil
		}
		m.state.Users = msg.users
		m.logger.Info("users loaded", slog.Int("count", len(msg.users)))

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	}

	// Controls are hidden while loading or after a failure
	if m.state.Mode() != listview.ModeReady {
		return nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyCtrlS:
		m.ToggleSort()
	case tea.KeyBackspace:
		runes := []rune(m.state.SearchTerm)
		if len(runes) > 0 {
			m.SetSearchTerm(string(runes[:len(runes)-1]))
		}
	case tea.KeyCtrlU:
		m.SetSearchTerm("")
	case tea.KeySpace:
		m.SetSearchTerm(m.state.SearchTerm + " ")
	case tea.KeyRunes:
		m.SetSearchTerm(m.state.SearchTerm + string(msg.Runes))
	}
	return nil
}

// SetSearchTerm updates the term and writes it to the store right away
func (m *Model) SetSearchTerm(term string) {
	m.state.SearchTerm = term
	if err := m.store.Set(store.PastSearchTermKey, term); err != nil {
		m.logger.Warn("failed to persist search term", slog.String("error", err.Error()))
	}
}

// ToggleSort flips between ascending and descending
func (m *Model) ToggleSort() {
	m.state.SortOrder = m.state.SortOrder.Toggle()
	m.logger.Debug("sort order changed", slog.String("order", string(m.state.SortOrder)))
}

// View renders the UI
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n")

	switch m.state.Mode() {
	case listview.ModeLoading:
		s.WriteString(loadingStyle.Render(loadingText))
		s.WriteString("\n")
	case listview.ModeError:
		s.WriteString(errorStyle.Render("Error: " + m.state.Err))
		s.WriteString("\n")
	default:
		input := m.state.SearchTerm + "█"
		if m.state.SearchTerm == "" {
			input = placeholderStyle.Render(placeholder)
		}
		s.WriteString(inputStyle.Render(input))
		s.WriteString("\n")
		s.WriteString(buttonStyle.Render(m.state.SortOrder.ButtonLabel()))
		s.WriteString("\n\n")

		for _, line := range listview.Lines(m.state.Visible()) {
			s.WriteString(rowStyle.Render(line))
			s.WriteString("\n")
		}
	}

	if m.verbose {
		s.WriteString("\n")
		for _, entry := range m.logs.recent(verboseLogHeight) {
			line := fmt.Sprintf("[%s] %-5s: %s", entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)
			if m.width > 0 && lipgloss.Width(line) > m.width {
				line = ansi.Truncate(line, m.width, "...")
			}
			s.WriteString(logStyle.Render(line))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("type to search • tab: toggle sort • ctrl+u: clear • esc: quit"))

	return s.String()
}

func (m *Model) fetch() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		list, err := fetcher.Fetch(context.Background())
		return usersFetchedMsg{users: list, err: err}
	}
}

// PlainView renders state without styling, for non-terminal output
func PlainView(state listview.State) string {
	var s strings.Builder

	s.WriteString(title)
	s.WriteString("\n")

	switch state.Mode() {
	case listview.ModeLoading:
		s.WriteString(loadingText + "\n")
	case listview.ModeError:
		s.WriteString("Error: " + state.Err + "\n")
	default:
		fmt.Fprintf(&s, "%s: %s\n", placeholder, state.SearchTerm)
		fmt.Fprintf(&s, "[%s]\n", state.SortOrder.ButtonLabel())
		for _, line := range listview.Lines(state.Visible()) {
			s.WriteString(line)
			s.WriteString("\n")
		}
	}

	return s.String()
}

// Message types
type usersFetchedMsg struct {
	users []users.User
	err   error
}
