package tui

import "github.com/Veraticus/ledger/internal/dashboard"

type snapshotLoadedMsg struct {
	err      error
	snapshot *dashboard.Snapshot
}

type deletedMsg struct {
	err   error
	count int
}
