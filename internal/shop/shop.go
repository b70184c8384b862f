package shop

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

var (
	ErrInit  = errors.New("failed to generate list")
	ErrReset = errors.New("failed to delete list")
)

// Init writes the seed categories and then the seed products. Ids are assigned 1..N in
// seed order, every product starts not completed, and category references are resolved
// from the seed's categories. Records with the same name are overwritten.
func Init(ctx context.Context, st *store.Store, seed Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}
	cats := make([]model.Category, 0, len(seed.Categories))
	for i, name := range seed.Categories {
		c := model.Category{Name: name, ID: i + 1}
		cats = append(cats, c)
		if err := st.PutCategory(ctx, c); err != nil {
			return initFailure(c.Key(), err)
		}
	}
	for i, sp := range seed.Products {
		p := sp.product().WithID(i + 1).WithCompleted(false)
		ref, _ := model.ResolveCategory(cats, p.CategoryKey)
		p = p.WithCategory(ref)
		if err := st.PutProduct(ctx, p); err != nil {
			return initFailure(p.Key(), err)
		}
	}
	return nil
}

func initFailure(key string, cause error) error {
	zap.L().Debug("init failed", zap.String("key", key), zap.Error(cause))
	return ErrInit
}

// DefaultResetCollections is what Reset clears when no collection is named.
// Presets survive a reset.
func DefaultResetCollections() []store.Collection {
	return []store.Collection{store.Items, store.Categories}
}

// Reset clears the given collections, or DefaultResetCollections when none are given.
func Reset(ctx context.Context, st *store.Store, collections ...store.Collection) error {
	if len(collections) == 0 {
		collections = DefaultResetCollections()
	}
	for _, c := range collections {
		if err := st.Clear(ctx, c); err != nil {
			zap.L().Debug("reset failed", zap.String("collection", string(c)), zap.Error(err))
			return ErrReset
		}
	}
	return nil
}
