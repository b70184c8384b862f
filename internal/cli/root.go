package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"handla-cli/internal/format"
	"handla-cli/internal/logging"
	"handla-cli/internal/store"
	"handla-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Engine     string
	PrettyJSON bool
	Format     string

	flushLogs func()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "handla",
		Short:        "Handla: a local shopping list (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  handla

  # Generate the default list, then check things off
  handla init
  handla items toggle Ost

  # Drag "Te" (id 7) onto "Ost" (id 2) and commit the new order
  handla order move 7 2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal; it only logs to the file.
		interactive := cmd == cmd.Root() && len(args) == 0
		return setupLogging(cmd, app, interactive)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.flushLogs != nil {
			app.flushLogs()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("HANDLA_DIR", ""), "Path to the data dir (default: dataDir from config, else ~/.handla/data)")
	cmd.PersistentFlags().StringVar(&app.Engine, "engine", envOr("HANDLA_ENGINE", ""), "Storage engine (sqlite|bolt)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("HANDLA_FORMAT", "json"), "Output format (json|csv)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newOrderCmd(app))
	cmd.AddCommand(newPresetsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func setupLogging(cmd *cobra.Command, app *App, interactive bool) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		// A broken config file must not hide command output; the store open reports it.
		cfg = &store.GlobalConfig{}
	}
	opts := logging.Options{Level: envOr("HANDLA_LOG_LEVEL", "")}
	if cfg.Log != nil {
		if opts.Level == "" {
			opts.Level = cfg.Log.Level
		}
		if cfg.Log.File {
			if dir, err := store.ConfigDir(); err == nil {
				opts.File = filepath.Join(dir, "logs", "handla.log")
			}
		}
	}
	if !interactive {
		opts.Console = cmd.ErrOrStderr()
	}
	flush, err := logging.Setup(opts)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	app.flushLogs = flush
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := openStore(cmd.Context(), app)
	if err != nil {
		return err
	}
	defer st.Close()
	return tui.Run(cmd.Context(), st)
}

// openStore resolves the data dir and engine (flag, then env, then config) and opens the store.
func openStore(ctx context.Context, app *App) (*store.Store, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		dir, err = store.DefaultDataDir(cfg)
		if err != nil {
			return nil, err
		}
		app.Dir = dir
	}
	engine := app.Engine
	if strings.TrimSpace(engine) == "" {
		engine = cfg.Engine
	}
	kind, err := store.ParseEngineKind(engine)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, store.Options{Dir: dir, Engine: kind})
}

// withStore opens the store for one command and reports any error on stderr.
func withStore(cmd *cobra.Command, app *App, fn func(ctx context.Context, st *store.Store) error) error {
	ctx := cmd.Context()
	st, err := openStore(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()
	if err := fn(ctx, st); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func printer(app *App) format.Printer {
	return format.Printer{Format: app.Format, Pretty: app.PrettyJSON}
}

// writeData writes {"data": data[, "meta": meta]} as JSON, or the bare rows as CSV.
func writeData(cmd *cobra.Command, app *App, data any, meta map[string]any) error {
	return printer(app).Data(cmd.OutOrStdout(), data, meta)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
