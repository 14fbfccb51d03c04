package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail44/userlist/internal/listview"
	"github.com/rail44/userlist/internal/store"
	"github.com/rail44/userlist/internal/users"
)

type fakeFetcher struct {
	users []users.User
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context) ([]users.User, error) {
	f.calls++
	return f.users, f.err
}

func fixedFetcher(f users.Fetcher) func(*slog.Logger) users.Fetcher {
	return func(*slog.Logger) users.Fetcher { return f }
}

// loggingFetcher records through the logger it was built with, as users.Client does
type loggingFetcher struct {
	logger *slog.Logger
}

func (f *loggingFetcher) Fetch(_ context.Context) ([]users.User, error) {
	f.logger.Info("fetching users")
	return sampleUsers(), nil
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("unreadable") }
func (failingStore) Set(string, string) error { return errors.New("read-only") }

func sampleUsers() []users.User {
	return []users.User{
		{ID: 1, Name: "Bob", Email: "bob@example.com"},
		{ID: 2, Name: "alice", Email: "alice@example.com"},
		{ID: 3, Name: "Clementine", Email: "clem@example.com"},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T, f *fakeFetcher, s store.Store) *Model {
	t.Helper()
	return NewModel(Options{Fetcher: f, Store: s, Logger: quietLogger()})
}

// load runs Init and feeds the fetch result back into the model
func load(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.True(t, m.State().Loading)
	m.Update(cmd())
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func visibleNames(m *Model) []string {
	var out []string
	for _, u := range m.State().Visible() {
		out = append(out, u.Name)
	}
	return out
}

func TestModel_InitFetchesOnce(t *testing.T) {
	f := &fakeFetcher{users: sampleUsers()}
	m := newTestModel(t, f, store.NewMemStore(nil))

	load(t, m)
	assert.Nil(t, m.Init())
	assert.Equal(t, 1, f.calls)

	state := m.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	assert.Equal(t, listview.ModeReady, state.Mode())
	assert.Len(t, state.Users, 3)
}

func TestModel_FetchFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	m := newTestModel(t, f, store.NewMemStore(nil))

	load(t, m)

	state := m.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "Error fetching users: connection refused", state.Err)
	assert.Empty(t, state.Users)
	assert.Equal(t, listview.ModeError, state.Mode())
	assert.Contains(t, m.View(), "Error: Error fetching users: connection refused")
	assert.NotContains(t, m.View(), "Sort by")
}

func TestModel_LoadingHidesControls(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, store.NewMemStore(nil))
	m.Init()

	view := m.View()
	assert.Contains(t, view, "Loading users...")
	assert.NotContains(t, view, "Sort by")
	assert.NotContains(t, view, "Search by name")

	typeString(m, "x")
	assert.Empty(t, m.State().SearchTerm)
}

func TestModel_SearchPersistsEveryEdit(t *testing.T) {
	s := store.NewMemStore(nil)
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, s)
	load(t, m)

	typeString(m, "E")
	v, _, _ := s.Get(store.PastSearchTermKey)
	assert.Equal(t, "E", v)
	assert.Equal(t, []string{"Clementine", "alice"}, visibleNames(m))

	typeString(m, "n")
	v, _, _ = s.Get(store.PastSearchTermKey)
	assert.Equal(t, "En", v)
	assert.Equal(t, []string{"Clementine"}, visibleNames(m))

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v, _, _ = s.Get(store.PastSearchTermKey)
	assert.Equal(t, "E", v)
	assert.Equal(t, "E", m.State().SearchTerm)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v, ok, _ := s.Get(store.PastSearchTermKey)
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Len(t, visibleNames(m), 3)
}

func TestModel_QIsSearchInput(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, store.NewMemStore(nil))
	load(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd)
	assert.Equal(t, "q", m.State().SearchTerm)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, "q ", m.State().SearchTerm)
}

func TestModel_RestoresSearchTerm(t *testing.T) {
	s := store.NewMemStore(map[string]string{store.PastSearchTermKey: "bo"})
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, s)
	assert.Equal(t, "bo", m.State().SearchTerm)

	load(t, m)
	assert.Equal(t, []string{"Bob"}, visibleNames(m))
}

func TestModel_StoreFailuresDoNotBlock(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, failingStore{})
	assert.Empty(t, m.State().SearchTerm)

	load(t, m)
	typeString(m, "bo")
	assert.Equal(t, "bo", m.State().SearchTerm)
}

func TestModel_ToggleSort(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, store.NewMemStore(nil))
	load(t, m)

	asc := visibleNames(m)
	assert.Equal(t, []string{"Bob", "Clementine", "alice"}, asc)
	assert.Contains(t, m.View(), "Sort by Descending")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, listview.Descending, m.State().SortOrder)
	assert.Equal(t, []string{"alice", "Clementine", "Bob"}, visibleNames(m))
	assert.Contains(t, m.View(), "Sort by Ascending")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, asc, visibleNames(m))
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, store.NewMemStore(nil))
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewListsRows(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{users: sampleUsers()}, store.NewMemStore(nil))
	load(t, m)

	view := m.View()
	assert.Contains(t, view, "User List")
	assert.Contains(t, view, "1. Bob - bob@example.com")
	assert.Contains(t, view, "3. alice - alice@example.com")
}

func TestModel_VerboseFooter(t *testing.T) {
	m := NewModel(Options{
		Fetcher:  &fakeFetcher{users: sampleUsers()},
		Store:    store.NewMemStore(nil),
		Verbose:  true,
		LogLevel: slog.LevelInfo,
	})
	load(t, m)

	assert.Contains(t, m.View(), "users loaded")
}

func TestPlainView(t *testing.T) {
	state := listview.State{Users: sampleUsers(), SearchTerm: "e", SortOrder: listview.Descending}
	assert.Equal(t,
		"User List\n"+
			"Search by name: e\n"+
			"[Sort by Ascending]\n"+
			"1. alice - alice@example.com\n"+
			"2. Clementine - clem@example.com\n",
		PlainView(state))

	assert.Equal(t, "User List\nLoading users...\n", PlainView(listview.State{Loading: true}))
}

func TestProgram_PlainRun(t *testing.T) {
	var out bytes.Buffer
	p := NewProgram(ProgramOptions{
		NewFetcher: fixedFetcher(&fakeFetcher{users: sampleUsers()}),
		Store:      store.NewMemStore(map[string]string{store.PastSearchTermKey: "cle"}),
		Plain:      true,
		Logger:     quietLogger(),
		Output:     &out,
	})
	assert.False(t, p.IsTUIEnabled())

	require.NoError(t, p.Run(context.Background()))
	assert.Contains(t, out.String(), "1. Clementine - clem@example.com")
}

func TestProgram_PlainRunFailure(t *testing.T) {
	var out bytes.Buffer
	p := NewProgram(ProgramOptions{
		NewFetcher: fixedFetcher(&fakeFetcher{err: errors.New("no route to host")}),
		Store:      store.NewMemStore(nil),
		Logger:     quietLogger(),
		Output:     &out,
	})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Equal(t, "User List\nError: Error fetching users: no route to host\n", out.String())
}

func TestModel_VerboseFooterTruncatesByWidth(t *testing.T) {
	m := NewModel(Options{
		Fetcher:  &fakeFetcher{users: sampleUsers()},
		Verbose:  true,
		LogLevel: slog.LevelInfo,
	})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m.logger.Warn(strings.Repeat("é", 31))

	view := m.View()
	assert.True(t, utf8.ValidString(view))

	var footer string
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "WARN") {
			footer = line
		}
	}
	require.NotEmpty(t, footer)
	assert.LessOrEqual(t, lipgloss.Width(footer), 40)
	assert.True(t, strings.HasSuffix(footer, "..."))
}

func TestNewModel_DefaultsStore(t *testing.T) {
	m := NewModel(Options{Fetcher: &fakeFetcher{users: sampleUsers()}, Logger: quietLogger()})
	assert.Empty(t, m.State().SearchTerm)

	load(t, m)
	typeString(m, "bo")
	assert.Equal(t, []string{"Bob"}, visibleNames(m))
}

func TestProgramModel_FetchLogsReachFooter(t *testing.T) {
	m := newProgramModel(ProgramOptions{
		NewFetcher: func(logger *slog.Logger) users.Fetcher {
			return &loggingFetcher{logger: logger}
		},
		Verbose:  true,
		LogLevel: slog.LevelInfo,
		Logger:   quietLogger(),
	}, true)
	load(t, m)

	assert.Contains(t, m.View(), "fetching users")
}
