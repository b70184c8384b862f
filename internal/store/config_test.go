package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestConfig_SaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HANDLA_CONFIG_DIR", dir)

	cfg0, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (missing): %v", err)
	}
	if cfg0.Engine != "" || cfg0.Log != nil {
		t.Fatalf("expected zero config; got %#v", cfg0)
	}

	want := &GlobalConfig{
		Engine:  "bolt",
		DataDir: filepath.Join(dir, "lists"),
		Log:     &LogConfig{Level: "debug", File: true},
	}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}

	dataDir, err := DefaultDataDir(got)
	if err != nil || dataDir != filepath.Join(dir, "lists") {
		t.Fatalf("DefaultDataDir = %q, %v", dataDir, err)
	}
	dataDir, err = DefaultDataDir(&GlobalConfig{})
	if err != nil || dataDir != filepath.Join(dir, "data") {
		t.Fatalf("DefaultDataDir (fallback) = %q, %v", dataDir, err)
	}
}

func TestUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Missing file => default state.
	st0, err := LoadUIState(dir)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &UIState{Version: 1, Tab: "order", SelectedProduct: "Kaffe", ShowDetails: true}
	if err := SaveUIState(dir, want); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	got, err := LoadUIState(dir)
	if err != nil {
		t.Fatalf("LoadUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}
