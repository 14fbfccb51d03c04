package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rail44/userlist/internal/listview"
	"github.com/rail44/userlist/internal/store"
	"github.com/rail44/userlist/internal/users"
)

// ErrFetchFailed is returned by a plain run when the users could not be loaded
var ErrFetchFailed = errors.New("fetch failed")

// ProgramOptions contains options for creating a Program
type ProgramOptions struct {
	// NewFetcher builds the fetcher with the logger the view uses, so that
	// fetch records reach the verbose footer in TUI mode
	NewFetcher func(logger *slog.Logger) users.Fetcher

	Store     store.Store
	SortOrder listview.SortOrder
	Plain     bool // Use plain text output instead of TUI
	Verbose   bool
	LogLevel  slog.Level
	Logger    *slog.Logger // Used in plain mode
	Output    io.Writer    // Defaults to os.Stdout
}

// Program runs the user list either as a TUI or as a single plain render
type Program struct {
	model      *Model
	isTerminal bool // Whether stdout is a terminal
	plain      bool // Whether to use plain text output
	output     io.Writer
}

// NewProgram creates a new program with the given options
func NewProgram(opts ProgramOptions) *Program {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	isTerminal := false
	if f, ok := output.(*os.File); ok {
		isTerminal = term.IsTerminal(int(f.Fd()))
	}

	return &Program{
		model:      newProgramModel(opts, isTerminal && !opts.Plain),
		isTerminal: isTerminal,
		plain:      opts.Plain,
		output:     output,
	}
}

func newProgramModel(opts ProgramOptions, tui bool) *Model {
	modelOpts := Options{
		Store:     opts.Store,
		SortOrder: opts.SortOrder,
		Verbose:   opts.Verbose,
		LogLevel:  opts.LogLevel,
	}
	if !tui {
		// Without a terminal nothing shows the footer, so records go to the regular logger
		modelOpts.Logger = opts.Logger
		if modelOpts.Logger == nil {
			modelOpts.Logger = slog.Default()
		}
	}

	m := NewModel(modelOpts)
	m.fetcher = opts.NewFetcher(m.logger)
	return m
}

// IsTUIEnabled returns whether the TUI is enabled
func (p *Program) IsTUIEnabled() bool {
	return p.isTerminal && !p.plain
}

// Run blocks until the user quits the TUI, or until the plain render is written
func (p *Program) Run(ctx context.Context) error {
	if !p.IsTUIEnabled() {
		return p.runPlain()
	}

	teaProgram := tea.NewProgram(p.model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithOutput(p.output),
	)
	if _, err := teaProgram.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}

// runPlain drives the model through its fetch without a renderer
func (p *Program) runPlain() error {
	if cmd := p.model.Init(); cmd != nil {
		p.model.Update(cmd())
	}

	state := p.model.State()
	if _, err := io.WriteString(p.output, PlainView(state)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if state.Mode() == listview.ModeError {
		return fmt.Errorf("%w: %s", ErrFetchFailed, state.Err)
	}
	return nil
}
