package cli

import (
	"context"

	"handla-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <file.jsonl>",
		Short: "Write every product, category and preset to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				recs, err := st.Dump(ctx)
				if err != nil {
					return err
				}
				if err := store.WriteBackupJSONL(args[0], recs); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"path": args[0], "records": len(recs)}, nil)
			})
		},
	}
	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	var (
		replace bool
		only    []string
	)
	cmd := &cobra.Command{
		Use:   "restore <file.jsonl>",
		Short: "Load records from a backup file",
		Long: "Writes every record of the backup. With --only, records of other collections are skipped. " +
			"With --replace, the restored collections are cleared first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var colls []store.Collection
			for _, s := range only {
				c, err := store.ParseCollection(s)
				if err != nil {
					return writeErr(cmd, err)
				}
				colls = append(colls, c)
			}
			recs, err := store.ReadBackupJSONL(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			recs = store.FilterRecords(recs, colls...)
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				if err := st.Restore(ctx, recs, replace); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"path": args[0], "records": len(recs), "replaced": replace}, nil)
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Clear the restored collections before writing")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Restore only these collections (items,categories,presets)")
	return cmd
}
