package cli

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"handla-cli/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global config (~/.handla/config.json)",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the config and where it lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, cfg, map[string]any{"path": path})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set engine, dataDir, log.level or log.file",
		Long:  "An empty value resets a key to its default.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigKey(cfg, args[0], strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, cfg, nil)
		},
	}
}

func setConfigKey(cfg *store.GlobalConfig, key, value string) error {
	logCfg := func() *store.LogConfig {
		if cfg.Log == nil {
			cfg.Log = &store.LogConfig{}
		}
		return cfg.Log
	}
	switch key {
	case "engine":
		if value != "" {
			kind, err := store.ParseEngineKind(value)
			if err != nil {
				return err
			}
			value = string(kind)
		}
		cfg.Engine = value
	case "dataDir":
		cfg.DataDir = value
	case "log.level":
		if value != "" {
			if _, err := zapcore.ParseLevel(value); err != nil {
				return err
			}
		}
		logCfg().Level = value
	case "log.file":
		on := false
		if value != "" {
			b, err := cast.ToBoolE(value)
			if err != nil {
				return err
			}
			on = b
		}
		logCfg().File = on
	default:
		return unknownConfigKeyError{key: key}
	}
	if cfg.Log != nil && *cfg.Log == (store.LogConfig{}) {
		cfg.Log = nil
	}
	return nil
}
