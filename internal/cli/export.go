package cli

import (
	"context"

	"handla-cli/internal/format"
	"handla-cli/internal/shop"
	"handla-cli/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				products := snap.ByCategory()
				if by == "position" {
					products = snap.ByPosition()
				}
				return format.WriteCSV(cmd.OutOrStdout(), format.ProductRows(products))
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "category", "Row order (category|position)")
	return cmd
}

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show how much of the list is done",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				products, _, err := st.Products(ctx)
				if err != nil {
					return err
				}
				total, completed, percent, ok := shop.Progress(products)
				return writeData(cmd, app, map[string]any{
					"total":     total,
					"completed": completed,
					"percent":   percent,
					"started":   ok,
				}, nil)
			})
		},
	}
	return cmd
}
