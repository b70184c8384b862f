package cli

import (
	"context"

	"handla-cli/internal/model"
	"handla-cli/internal/reorder"
	"handla-cli/internal/shop"
	"handla-cli/internal/store"

	"github.com/spf13/cobra"
)

// dragEvents turns <active-id> <over-id> argument pairs into drag-end events.
func dragEvents(args []string) ([]reorder.DragEvent, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errMovePairs
	}
	out := make([]reorder.DragEvent, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		out = append(out, reorder.DragEvent{Active: args[i], Over: args[i+1]})
	}
	return out, nil
}

type dragger interface {
	DragEnd(reorder.DragEvent) (bool, error)
}

func applyDrags(seq dragger, events []reorder.DragEvent) error {
	for _, ev := range events {
		if _, err := seq.DragEnd(ev); err != nil {
			return err
		}
	}
	return nil
}

// commitDrags applies events and commits. Drags that leave the order unchanged make
// Commit fail with reorder.ErrNotDirty.
func commitDrags[T any](ctx context.Context, cmd *cobra.Command, app *App, seq *reorder.Sequence[T], events []reorder.DragEvent) error {
	if err := applyDrags(seq, events); err != nil {
		return err
	}
	if err := seq.Commit(ctx); err != nil {
		return err
	}
	return writeData(cmd, app, seq.Items(), nil)
}

func newOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Reorder products",
	}
	cmd.AddCommand(newOrderShowCmd(app))
	cmd.AddCommand(newOrderMoveCmd(app))
	return cmd
}

func newOrderShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show products in position order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				products := snap.ByPosition()
				if products == nil {
					products = []model.Product{}
				}
				return writeData(cmd, app, products, nil)
			})
		},
	}
	return cmd
}

func newOrderMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <active-id> <over-id> [<active-id> <over-id>...]",
		Short: "Drop product <active-id> onto the position of <over-id>, then commit",
		Long: "Each pair is one drag: the product with id <active-id> is moved to where the product with id <over-id> sits. " +
			"After all pairs are applied every product's id is rewritten to its new position.",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := dragEvents(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				seq := reorder.NewProducts(st, nil, snap.Products)
				return commitDrags(ctx, cmd, app, seq, events)
			})
		},
	}
	return cmd
}

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				snap, err := shop.Load(ctx, st)
				if err != nil {
					return err
				}
				cats := snap.Categories
				if cats == nil {
					cats = []model.Category{}
				}
				return writeData(cmd, app, cats, nil)
			})
		},
	}
	return cmd
}

func newCategoriesMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <active-id> <over-id> [<active-id> <over-id>...]",
		Short: "Reorder categories and refresh every product's category",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := dragEvents(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				cats, _, err := st.Categories(ctx)
				if err != nil {
					return err
				}
				seq := reorder.NewCategories(st, nil, cats)
				return commitDrags(ctx, cmd, app, seq, events)
			})
		},
	}
	return cmd
}
