package cli

import (
	"context"
	"os"
	"strconv"

	"handla-cli/internal/model"
	"handla-cli/internal/mutate"
	"handla-cli/internal/shop"
	"handla-cli/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"products"},
		Short:   "Product commands",
	}

	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	cmd.AddCommand(newItemsAmountCmd(app))
	cmd.AddCommand(newItemsStepCmd(app, "inc", "Increase the amount by one", mutate.Increment))
	cmd.AddCommand(newItemsStepCmd(app, "dec", "Decrease the amount by one (stops at zero)", mutate.Decrement))
	cmd.AddCommand(newItemsToggleCmd(app))
	cmd.AddCommand(newItemsDetailsCmd(app))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsImageCmd(app))

	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products (grouped by category, or by position with --by position)",
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
				if products == nil {
					products = []model.Product{}
				}
				return writeData(cmd, app, products, map[string]any{"empty": snap.Empty})
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "category", "Sort order (category|position)")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				p, ok, err := st.Product(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return writeData(cmd, app, nil, nil)
				}
				var meta map[string]any
				if p.HasImg {
					meta = map[string]any{"imageSize": humanize.Bytes(uint64(mutate.ImageSize(p.UploadedImg)))}
				}
				return writeData(cmd, app, p, meta)
			})
		},
	}
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var category string
	var amount int
	var details string
	var imagePath string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product at the end of the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.Product{
				Name:        args[0],
				CategoryKey: model.CategoryName(category),
				Amount:      amount,
				Details:     details,
			}
			if imagePath != "" {
				uri, err := readImage(imagePath)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.UploadedImg = uri
			}
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				added, err := mutate.AddProduct(ctx, st, p)
				if err != nil {
					return err
				}
				return writeData(cmd, app, added, nil)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category name (e.g. \"Skafferi\")")
	cmd.Flags().IntVar(&amount, "amount", 1, "Amount")
	cmd.Flags().StringVar(&details, "details", "", "Free-text details")
	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to attach")
	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a product (missing names are ignored)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
				if err := mutate.Delete(ctx, st, store.Items, args[0]); err != nil {
					return err
				}
				return writeData(cmd, app, map[string]any{"name": args[0], "deleted": true}, nil)
			})
		},
	}
	return cmd
}

func newItemsAmountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amount <name> <n>",
		Short: "Set the amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, &model.ValidationError{Field: "amount", Reason: "must be an integer"})
			}
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return mutate.SetAmount(ctx, st, args[0], n)
			})
		},
	}
	return cmd
}

func newItemsStepCmd(app *App, use, short string, step func(context.Context, *store.Store, string) (mutate.Result, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return step(ctx, st, args[0])
			})
		},
	}
	return cmd
}

func newItemsToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip the completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return mutate.Toggle(ctx, st, args[0])
			})
		},
	}
	return cmd
}

func newItemsDetailsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "details <name> <text>",
		Short: "Set the free-text details (empty text clears them)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return mutate.SetDetails(ctx, st, args[0], args[1])
			})
		},
	}
	return cmd
}

func newItemsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return mutate.Rename(ctx, st, args[0], args[1])
			})
		},
	}
	return cmd
}

func newItemsImageCmd(app *App) *cobra.Command {
	var file string
	var clearImage bool
	cmd := &cobra.Command{
		Use:   "image <name>",
		Short: "Attach an image file to a product (or remove it with --clear)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "" && !clearImage) || (file != "" && clearImage) {
				return writeErr(cmd, errImageArgs)
			}
			uri := ""
			if file != "" {
				var err error
				if uri, err = readImage(file); err != nil {
					return writeErr(cmd, err)
				}
			}
			return runMutation(cmd, app, func(ctx context.Context, st *store.Store) (mutate.Result, error) {
				return mutate.UpdateImage(ctx, st, args[0], uri)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Image file")
	cmd.Flags().BoolVar(&clearImage, "clear", false, "Remove the image")
	return cmd
}

func readImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return mutate.ImageDataURI(f)
}

// runMutation reports a helper result. A missing product is not an error: it prints
// {"data": null, "meta": {"found": false, ...}} and exits 0.
func runMutation(cmd *cobra.Command, app *App, fn func(ctx context.Context, st *store.Store) (mutate.Result, error)) error {
	return withStore(cmd, app, func(ctx context.Context, st *store.Store) error {
		res, err := fn(ctx, st)
		if err != nil {
			return err
		}
		meta := map[string]any{"found": res.Found, "changed": res.Changed}
		if !res.Found {
			return writeData(cmd, app, nil, meta)
		}
		return writeData(cmd, app, res.Product, meta)
	})
}
