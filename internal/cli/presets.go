package cli

import (
	"context"

	"handla-cli/internal/model"
	"handla-cli/internal/reorder"
	"handla-cli/internal/shop"
	"handla-cli/internal/store"

	"github.com/spf13/cobra"
)

func newPresetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Saved product orderings",
	}
	cmd.AddCommand(newPresetsListCmd(app))
	cmd.AddCommand(newPresetsShowCmd(app))
	cmd.AddCommand(newPresetsSaveCmd(app))
	cmd.AddCommand(newPresetsApplyCmd(app))
	cmd.AddCommand(newPresetsRmCmd(app))
	return cmd
}

func newPresetsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				presets, _, err := st.Presets(ctx)
				if err != nil {
					return err
				}
				if presets == nil {
					presets = []model.Preset{}
				}
				return writeData(cmd, app, presets, nil)
			})
		},
	}
	return cmd
}

func newPresetsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the products stored in a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				p, ok, err := st.Preset(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return errNotFound("preset", args[0])
				}
				return writeData(cmd, app, p, nil)
			})
		},
	}
	return cmd
}

func newPresetsSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current product order as a preset (replaces a preset with the same name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				seq := reorder.NewProducts(st, nil, snap.Products)
				p, err := reorder.SavePreset(ctx, st, nil, args[0], seq)
				if err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"name": p.Name, "products": len(p.Data)}, nil)
			})
		},
	}
	return cmd
}

func newPresetsApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <name>",
		Short: "Replace the product list with a preset's order and commit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				seq := reorder.NewProducts(st, nil, snap.Products)
				if _, err := reorder.ApplyPreset(ctx, st, args[0], seq); err != nil {
					return err
				}
				if err := seq.Commit(ctx); err != nil {
					return err
				}
				return writeData(cmd, app, seq.Items(), nil)
			})
		},
	}
	return cmd
}

func newPresetsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				if err := reorder.DeletePreset(ctx, st, nil, args[0]); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"name": args[0], "deleted": true}, nil)
			})
		},
	}
	return cmd
}
