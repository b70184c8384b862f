package reorder

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"handla-cli/internal/events"
	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

var (
	ErrSavePreset   = errors.New("failed to save preset")
	ErrDeletePreset = errors.New("failed to delete preset")
	ErrLoadPreset   = errors.New("failed to load preset")
)

type PresetNotFoundError struct {
	Name string
}

func (e PresetNotFoundError) Error() string { return "preset not found: " + e.Name }

// SavePreset stores a copy of the working order under name. Ids in the copy are the
// positions, so applying and committing the preset later reproduces it exactly.
// An existing preset with the same name is replaced. The sequence state is not changed.
func SavePreset(ctx context.Context, st *store.Store, bus events.Bus, name string, seq *Sequence[model.Product]) (model.Preset, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidatePresetName(name); err != nil {
		return model.Preset{}, err
	}
	p := model.NewPreset(name, Reindex(seq.items, productAccessor))
	if err := st.PutPreset(ctx, p); err != nil {
		zap.L().Debug("save preset failed", zap.String("preset", name), zap.Error(err))
		return model.Preset{}, ErrSavePreset
	}
	events.Publish(bus, events.PresetsChanged)
	return p, nil
}

func DeletePreset(ctx context.Context, st *store.Store, bus events.Bus, name string) error {
	if err := st.Delete(ctx, store.Presets, name); err != nil {
		zap.L().Debug("delete preset failed", zap.String("preset", name), zap.Error(err))
		return ErrDeletePreset
	}
	events.Publish(bus, events.PresetsChanged)
	return nil
}

// ApplyPreset loads the named preset into seq and marks it selected. Stored products the
// preset does not name are kept after the preset's entries. Nothing is written until
// seq.Commit.
func ApplyPreset(ctx context.Context, st *store.Store, name string, seq *Sequence[model.Product]) (model.Preset, error) {
	p, ok, err := st.Preset(ctx, name)
	if err != nil {
		zap.L().Debug("load preset failed", zap.String("preset", name), zap.Error(err))
		return model.Preset{}, ErrLoadPreset
	}
	if !ok {
		return model.Preset{}, PresetNotFoundError{Name: name}
	}
	live, _, err := st.Products(ctx)
	if err != nil {
		zap.L().Debug("load products failed", zap.String("preset", name), zap.Error(err))
		return model.Preset{}, ErrLoadPreset
	}
	data := Reindex(p.Data, productAccessor)
	seq.Apply(appendMissing(data, data, live))
	return p, nil
}
