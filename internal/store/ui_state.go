package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// It lives next to the database so state is scoped per data dir.
// It is best effort: callers should tolerate missing/invalid data.
type UIState struct {
	Version int `json:"version"`

	// Tab is one of: products|categories|order|presets
	Tab string `json:"tab,omitempty"`

	// SelectedProduct is the product name under the cursor on the products tab.
	SelectedProduct string `json:"selectedProduct,omitempty"`

	ShowDetails bool `json:"showDetails,omitempty"`
}

func uiStatePath(dir string) string {
	return filepath.Join(dir, uiStateFileName)
}

func LoadUIState(dir string) (*UIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(uiStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted; treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveUIState(dir string, st *UIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, uiStateFileName+".*.tmp", uiStatePath(dir), b, 0o644)
}
