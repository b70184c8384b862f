package shop

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

func openTestStore(t *testing.T, kind store.EngineKind) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.Options{Dir: t.TempDir(), Engine: kind})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestDefaultSeed(t *testing.T) {
	t.Parallel()
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if len(seed.Categories) != 5 || len(seed.Products) != 14 {
		t.Fatalf("unexpected seed size: %d categories, %d products", len(seed.Categories), len(seed.Products))
	}
	if seed.Categories[0] != model.CategoryDairy || seed.Categories[4] != model.CategoryFish {
		t.Fatalf("unexpected category order: %v", seed.Categories)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()
	for _, kind := range []store.EngineKind{store.EngineSQLite, store.EngineBolt} {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			st := openTestStore(t, kind)
			seed, err := DefaultSeed()
			if err != nil {
				t.Fatalf("DefaultSeed: %v", err)
			}
			if err := Init(ctx, st, seed); err != nil {
				t.Fatalf("Init: %v", err)
			}

			snap, err := Load(ctx, st)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if snap.Empty || len(snap.Products) != 14 || len(snap.Categories) != 5 {
				t.Fatalf("unexpected snapshot: empty=%v products=%d categories=%d", snap.Empty, len(snap.Products), len(snap.Categories))
			}
			byPos := snap.ByPosition()
			for i, p := range byPos {
				if p.ID != i+1 || p.IsCompleted || p.Amount != 1 {
					t.Fatalf("product %d: %+v", i, p)
				}
			}
			if byPos[0].Name != "Laktosfri Mjölk" || byPos[13].Name != "Mjukost" {
				t.Fatalf("unexpected order: %s .. %s", byPos[0].Name, byPos[13].Name)
			}
			kaviar, _, _ := st.Product(ctx, "Kaviar")
			if kaviar.CategoryID() != 5 {
				t.Fatalf("expected Kaviar in category 5; got %+v", kaviar.Category)
			}

			byCat := snap.ByCategory()
			for i := 1; i < len(byCat); i++ {
				if byCat[i-1].CategoryID() > byCat[i].CategoryID() {
					t.Fatalf("ByCategory not sorted at %d", i)
				}
			}
		})
	}
}

func TestReset_KeepsPresetsByDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t, store.EngineSQLite)
	seed, _ := DefaultSeed()
	if err := Init(ctx, st, seed); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := st.PutPreset(ctx, model.NewPreset("Vardag", nil)); err != nil {
		t.Fatalf("PutPreset: %v", err)
	}

	if err := Reset(ctx, st); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	snap, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.Empty || len(snap.Categories) != 0 || len(snap.Presets) != 1 {
		t.Fatalf("unexpected snapshot after reset: %+v", snap)
	}

	if err := Reset(ctx, st, store.Collections()...); err != nil {
		t.Fatalf("Reset all: %v", err)
	}
	if _, ok, _ := st.Presets(ctx); ok {
		t.Fatalf("expected presets cleared")
	}
}

func TestLoadSeed_Validates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("categories: [Skafferi]\nproducts:\n  - name: Salt\n    category: Skafferi\n    amount: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	seed, err := LoadSeed(good)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if got := seed.Products[0].product(); got.Amount != 2 || got.CategoryKey != model.CategoryPantry {
		t.Fatalf("unexpected product: %+v", got)
	}

	tests := map[string]string{
		"unknown category": "products:\n  - name: Salt\n    category: Godis\n",
		"duplicate name":   "products:\n  - name: Salt\n  - name: Salt\n",
		"negative amount":  "products:\n  - name: Salt\n    amount: -1\n",
		"empty name":       "products:\n  - name: \"  \"\n",
	}
	for name, doc := range tests {
		if _, err := ParseSeed([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		products  []model.Product
		completed int
		percent   int
		ok        bool
	}{
		{name: "empty"},
		{name: "none done", products: []model.Product{{Name: "a"}, {Name: "b"}}},
		{name: "one of three", products: []model.Product{{Name: "a", IsCompleted: true}, {Name: "b"}, {Name: "c"}}, completed: 1, percent: 33, ok: true},
		{name: "all", products: []model.Product{{Name: "a", IsCompleted: true}}, completed: 1, percent: 100, ok: true},
	}
	for _, tt := range tests {
		total, completed, percent, ok := Progress(tt.products)
		if total != len(tt.products) || completed != tt.completed || percent != tt.percent || ok != tt.ok {
			t.Fatalf("%s: got (%d,%d,%d,%v)", tt.name, total, completed, percent, ok)
		}
	}
}
