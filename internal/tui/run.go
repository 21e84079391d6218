package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/ledger/internal/service"
)

// Run starts the browser full screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, loader SnapshotLoader, mutator service.BulkMutator, opts ...Option) error {
	if loader == nil || mutator == nil {
		return errors.New("tui: loader and mutator are required")
	}

	p := tea.NewProgram(
		New(loader, mutator, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run browser: %w", err)
	}

	if m, ok := final.(Model); ok && m.lastError != nil && m.snapshot == nil {
		return m.lastError
	}
	return nil
}
