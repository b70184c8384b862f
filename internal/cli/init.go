package cli

import (
	"context"

	"handla-cli/internal/shop"
	"handla-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var seedPath string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate the default shopping list",
		Long:  "Writes the default categories and products (or those of --seed) into an empty list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := shop.DefaultSeed()
			if seedPath != "" {
				seed, err = shop.LoadSeed(seedPath)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				existing, ok, err := st.Products(ctx)
				if err != nil {
					return err
				}
				if ok && !force {
					return listNotEmptyError{count: len(existing)}
				}
				if ok {
					if err := shop.Reset(ctx, st); err != nil {
						return err
					}
				}
				if err := shop.Init(ctx, st, seed); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{
					"dir":        st.Dir(),
					"engine":     st.EngineKind(),
					"categories": len(seed.Categories),
					"products":   len(seed.Products),
				}, nil)
			})
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML seed document (default: built-in list)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace a non-empty list (presets are kept)")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all products and categories",
		Long:  "Deletes every product and category. Presets are kept unless --all is given. There is no confirmation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				cleared := shop.DefaultResetCollections()
				if all {
					cleared = store.Collections()
				}
				if err := shop.Reset(ctx, st, cleared...); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"cleared": cleared}, nil)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also delete presets")
	return cmd
}
