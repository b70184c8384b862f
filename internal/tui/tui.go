package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"handla-cli/internal/events"
	"handla-cli/internal/store"
)

func Run(ctx context.Context, st *store.Store) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, st, events.NewBus())
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
