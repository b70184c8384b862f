package store

import (
	"context"

	"handla-cli/internal/model"
)

func (s *Store) Products(ctx context.Context) ([]model.Product, bool, error) {
	return GetAll[model.Product](ctx, s, Items)
}

func (s *Store) Product(ctx context.Context, name string) (model.Product, bool, error) {
	return Get[model.Product](ctx, s, Items, name)
}

// PutProduct writes p under its name.
func (s *Store) PutProduct(ctx context.Context, p model.Product) error {
	return s.Put(ctx, Items, p.Key(), p)
}

func (s *Store) Categories(ctx context.Context) ([]model.Category, bool, error) {
	return GetAll[model.Category](ctx, s, Categories)
}

func (s *Store) PutCategory(ctx context.Context, c model.Category) error {
	return s.Put(ctx, Categories, c.Key(), c)
}

func (s *Store) Presets(ctx context.Context) ([]model.Preset, bool, error) {
	return GetAll[model.Preset](ctx, s, Presets)
}

func (s *Store) Preset(ctx context.Context, name string) (model.Preset, bool, error) {
	return Get[model.Preset](ctx, s, Presets, name)
}

func (s *Store) PutPreset(ctx context.Context, p model.Preset) error {
	return s.Put(ctx, Presets, p.Key(), p)
}
