package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loadTimeout bounds a single reload from storage.
const loadTimeout = 30 * time.Second

func (m Model) loadSnapshot() tea.Cmd {
	loader, accountID, rng := m.loader, m.accountID, m.rng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		snap, err := loader.Load(ctx, accountID, rng)
		return snapshotLoadedMsg{snapshot: snap, err: err}
	}
}

// deleteTransactions removes ids. The ids slice is owned by the command.
func (m Model) deleteTransactions(ids []string) tea.Cmd {
	mutator := m.mutator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		count, err := mutator.DeleteTransactions(ctx, ids)
		return deletedMsg{count: count, err: err}
	}
}
