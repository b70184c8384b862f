package reorder

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"handla-cli/internal/events"
	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

var productAccessor = Accessor[model.Product]{
	ID:     func(p model.Product) int { return p.ID },
	WithID: func(p model.Product, id int) model.Product { return p.WithID(id) },
	Clone:  func(p model.Product) model.Product { return p.Clone() },
}

var categoryAccessor = Accessor[model.Category]{
	ID:     func(c model.Category) int { return c.ID },
	WithID: func(c model.Category, id int) model.Category { return c.WithID(id) },
	Clone:  func(c model.Category) model.Category { return c },
}

func orderFailure(key string, cause error) error {
	zap.L().Debug("order commit failed", zap.String("key", key), zap.Error(cause))
	return ErrUpdateOrder
}

// NewProducts returns a working order over products. Commit writes every product with
// id = position+1. Stored products the working order does not hold (added since it was
// loaded) are renumbered after it, so ids stay unique. Publishes products:changed.
func NewProducts(st *store.Store, bus events.Bus, products []model.Product) *Sequence[model.Product] {
	return NewSequence(products, productAccessor, func(ctx context.Context, items []model.Product) error {
		for _, p := range items {
			if err := st.PutProduct(ctx, p); err != nil {
				return orderFailure(p.Key(), err)
			}
		}
		live, _, err := st.Products(ctx)
		if err != nil {
			return orderFailure(string(store.Items), err)
		}
		rest := appendMissing(nil, items, live)
		for i, p := range rest {
			if err := st.PutProduct(ctx, p.WithID(len(items)+i+1)); err != nil {
				return orderFailure(p.Key(), err)
			}
		}
		events.Publish(bus, events.ProductsChanged)
		return nil
	})
}

// appendMissing appends to dst the products of live whose name is not in ordered,
// in their current id order (products without an id last).
func appendMissing(dst, ordered, live []model.Product) []model.Product {
	have := make(map[string]bool, len(ordered))
	for _, p := range ordered {
		have[p.Name] = true
	}
	var rest []model.Product
	for _, p := range live {
		if !have[p.Name] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i].ID, rest[j].ID
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	return append(dst, rest...)
}

// NewCategories returns a working order over categories. Commit writes every category with
// id = position+1, then re-derives the category reference embedded in every stored product
// so the category sort key follows the new order. Completion flags are left alone.
func NewCategories(st *store.Store, bus events.Bus, categories []model.Category) *Sequence[model.Category] {
	return NewSequence(categories, categoryAccessor, func(ctx context.Context, items []model.Category) error {
		for _, c := range items {
			if err := st.PutCategory(ctx, c); err != nil {
				return orderFailure(c.Key(), err)
			}
		}
		products, _, err := st.Products(ctx)
		if err != nil {
			return orderFailure(string(store.Items), err)
		}
		for _, p := range model.RefreshCategoryRefs(products, items) {
			if err := st.PutProduct(ctx, p); err != nil {
				return orderFailure(p.Key(), err)
			}
		}
		events.Publish(bus, events.CategoriesChanged, events.ProductsChanged)
		return nil
	})
}

// ProductIDs is a convenience for display: the ids in working order.
func ProductIDs(seq *Sequence[model.Product]) []int {
	out := make([]int, 0, seq.Len())
	for _, p := range seq.items {
		out = append(out, p.ID)
	}
	return out
}
