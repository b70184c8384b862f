package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type GlobalConfig struct {
	// Engine selects the storage backend ("sqlite" or "bolt").
	Engine string `json:"engine,omitempty"`

	// DataDir overrides where the list database lives (default: <configDir>/data).
	DataDir string `json:"dataDir,omitempty"`

	Log *LogConfig `json:"log,omitempty"`
}

type LogConfig struct {
	// Level is a zap level name (debug|info|warn|error).
	Level string `json:"level,omitempty"`
	// File enables the rotating JSON log under <configDir>/logs.
	File bool `json:"file,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.handla).
	if v := strings.TrimSpace(os.Getenv("HANDLA_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".handla"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultDataDir resolves the data dir from cfg, falling back to <configDir>/data.
func DefaultDataDir(cfg *GlobalConfig) (string, error) {
	if cfg != nil && strings.TrimSpace(cfg.DataDir) != "" {
		return filepath.Clean(strings.TrimSpace(cfg.DataDir)), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so a concurrent CLI and TUI never see a half-written file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
