package shop

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

// Snapshot is everything a view needs, read in one go. Empty reports whether the list
// has no products, which is when the UI offers to generate the default list.
type Snapshot struct {
	Products   []model.Product
	Categories []model.Category
	Presets    []model.Preset
	Empty      bool
}

// Load reads the three collections concurrently.
func Load(ctx context.Context, st *store.Store) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, ok, err := st.Products(ctx)
		snap.Products, snap.Empty = ps, !ok
		return err
	})
	g.Go(func() error {
		cs, _, err := st.Categories(ctx)
		snap.Categories = cs
		return err
	})
	g.Go(func() error {
		ps, _, err := st.Presets(ctx)
		snap.Presets = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	sort.SliceStable(snap.Categories, func(i, j int) bool { return snap.Categories[i].ID < snap.Categories[j].ID })
	return snap, nil
}

// ByCategory returns products sorted stably by their embedded category id. Products
// without a category sort first.
func (s Snapshot) ByCategory() []model.Product {
	out := model.CloneProducts(s.Products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CategoryID() < out[j].CategoryID() })
	return out
}

// ByPosition returns products sorted by id, the order the ordering view edits.
func (s Snapshot) ByPosition() []model.Product {
	out := model.CloneProducts(s.Products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Progress counts completed products. ok is false when there is nothing to report:
// no products, or none completed yet.
func Progress(products []model.Product) (total, completed, percent int, ok bool) {
	total = len(products)
	for _, p := range products {
		if p.IsCompleted {
			completed++
		}
	}
	if total == 0 || completed == 0 {
		return total, completed, 0, false
	}
	return total, completed, completed * 100 / total, true
}
