package reorder

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"handla-cli/internal/events"
	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.Options{Dir: t.TempDir(), Engine: store.EngineBolt})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func names(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func fixture() []model.Product {
	return []model.Product{
		{Name: "Mjölk", ID: 1, Amount: 1},
		{Name: "Ost", ID: 2, Amount: 1},
		{Name: "Bröd", ID: 3, Amount: 2},
		{Name: "Smör", ID: 4, Amount: 1, IsCompleted: true},
		{Name: "Te", ID: 5, Amount: 1},
	}
}

func TestArrayMove(t *testing.T) {
	t.Parallel()
	in := []string{"a", "b", "c", "d"}
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a", "d"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 1, []string{"a", "b", "c", "d"}},
		{2, 3, []string{"a", "b", "d", "c"}},
	}
	for _, tt := range tests {
		got := ArrayMove(in, tt.from, tt.to)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ArrayMove(%d,%d) = %v; want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !reflect.DeepEqual(in, []string{"a", "b", "c", "d"}) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestDragEnd_MatchesIDsNotIndices(t *testing.T) {
	t.Parallel()
	seq := NewProducts(nil, nil, fixture())

	// id 2 sits at index 1; id 5 at index 4.
	moved, err := seq.DragEnd(DragEvent{Active: "2", Over: 5})
	if err != nil || !moved {
		t.Fatalf("DragEnd: moved=%v err=%v", moved, err)
	}
	want := []string{"Mjölk", "Bröd", "Smör", "Te", "Ost"}
	if got := names(seq.Items()); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v; want %v", got, want)
	}
	if seq.State() != Dirty {
		t.Fatalf("expected dirty; got %v", seq.State())
	}

	// String ids are decimal: leading zeros never switch to octal.
	moved, err = seq.DragEnd(DragEvent{Active: "05", Over: " 01"})
	if err != nil || !moved {
		t.Fatalf("DragEnd(05, 01): moved=%v err=%v", moved, err)
	}
	if got := names(seq.Items())[0]; got != "Te" {
		t.Fatalf("expected Te first; got %s", got)
	}
	for _, tt := range []struct {
		ev   DragEvent
		want int
	}{
		{ev: DragEvent{Active: "05", Over: "010"}, want: 10},
		{ev: DragEvent{Active: "08", Over: "1"}, want: 8},
	} {
		var unknown UnknownIDError
		if _, err := seq.DragEnd(tt.ev); !errors.As(err, &unknown) || unknown.ID != tt.want {
			t.Fatalf("DragEnd(%+v): expected UnknownIDError{%d}; got %v", tt.ev, tt.want, err)
		}
	}
	if moved, err := seq.DragEnd(DragEvent{Active: "3.0", Over: "2"}); err != nil || !moved {
		t.Fatalf("DragEnd(3.0, 2): moved=%v err=%v", moved, err)
	}
}

func TestDragEnd_NoOps(t *testing.T) {
	t.Parallel()
	seq := NewProducts(nil, nil, fixture())

	for _, ev := range []DragEvent{
		{Active: 3, Over: nil},
		{Active: 3, Over: 3},
		{Active: 3.0, Over: "3"},
	} {
		moved, err := seq.DragEnd(ev)
		if err != nil || moved {
			t.Fatalf("DragEnd(%+v): moved=%v err=%v", ev, moved, err)
		}
	}
	if seq.State() != Clean {
		t.Fatalf("expected clean; got %v", seq.State())
	}

	var unknown UnknownIDError
	if _, err := seq.DragEnd(DragEvent{Active: 9, Over: 1}); !errors.As(err, &unknown) || unknown.ID != 9 {
		t.Fatalf("expected UnknownIDError{9}; got %v", err)
	}
	if _, err := seq.DragEnd(DragEvent{Active: "x", Over: 1}); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestCommit_CleanIsUsageError(t *testing.T) {
	t.Parallel()
	seq := NewProducts(openTestStore(t), nil, fixture())
	if err := seq.Commit(context.Background()); !errors.Is(err, ErrNotDirty) {
		t.Fatalf("expected ErrNotDirty; got %v", err)
	}
}

func TestCommit_IDsArePositionsAndPermutationHolds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	for _, p := range fixture() {
		if err := st.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}
	bus := events.NewBus()
	changed := 0
	if err := bus.Subscribe(events.ProductsChanged, func() { changed++ }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	seq := NewProducts(st, bus, fixture())
	for i := 0; i < 25; i++ {
		ids := ProductIDs(seq)
		a, b := ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]
		if _, err := seq.DragEnd(DragEvent{Active: a, Over: b}); err != nil {
			t.Fatalf("DragEnd: %v", err)
		}
	}
	if !seq.Pending() {
		t.Skip("random walk ended on the original order")
	}
	want := names(seq.Items())
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if seq.State() != Clean || changed != 1 {
		t.Fatalf("state=%v events=%d", seq.State(), changed)
	}

	stored, _, err := st.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(stored) != len(fixture()) {
		t.Fatalf("commit changed the record count: %d", len(stored))
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].ID < stored[j].ID })
	for i, p := range stored {
		if p.ID != i+1 {
			t.Fatalf("ids are not 1..N: %v", stored)
		}
	}
	if got := names(stored); !reflect.DeepEqual(got, want) {
		t.Fatalf("stored order = %v; want %v", got, want)
	}
	byName := map[string]model.Product{}
	for _, p := range stored {
		byName[p.Name] = p
	}
	for _, p := range fixture() {
		got := byName[p.Name]
		if got.Amount != p.Amount || got.IsCompleted != p.IsCompleted {
			t.Fatalf("%s: fields changed by commit: %+v", p.Name, got)
		}
	}
}

type failingEngine struct{}

var errDisk = errors.New("quota exceeded")

func (failingEngine) GetAll(context.Context, store.Collection) ([][]byte, error) { return nil, errDisk }
func (failingEngine) Get(context.Context, store.Collection, string) ([]byte, bool, error) {
	return nil, false, errDisk
}
func (failingEngine) Put(context.Context, store.Collection, string, []byte) error { return errDisk }
func (failingEngine) Delete(context.Context, store.Collection, string) error      { return errDisk }
func (failingEngine) Clear(context.Context, store.Collection) error               { return errDisk }
func (failingEngine) Close() error                                                { return nil }

func TestCommit_StorageFailureKeepsPendingState(t *testing.T) {
	t.Parallel()
	seq := NewProducts(store.New(failingEngine{}), nil, fixture())
	if _, err := seq.Move(0, 4); err != nil {
		t.Fatalf("Move: %v", err)
	}
	err := seq.Commit(context.Background())
	if !errors.Is(err, ErrUpdateOrder) || errors.Is(err, errDisk) {
		t.Fatalf("expected generic ErrUpdateOrder; got %v", err)
	}
	if seq.State() != Dirty {
		t.Fatalf("expected dirty after failed commit; got %v", seq.State())
	}
}

func TestCategoryCommit_RefreshesProductRefs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	cats := []model.Category{
		{Name: model.CategoryDairy, ID: 1},
		{Name: model.CategoryBread, ID: 2},
		{Name: model.CategoryPantry, ID: 3},
	}
	for _, c := range cats {
		if err := st.PutCategory(ctx, c); err != nil {
			t.Fatalf("PutCategory: %v", err)
		}
	}
	products := []model.Product{
		{Name: "Ost", ID: 1, Amount: 1, CategoryKey: model.CategoryDairy, IsCompleted: true},
		{Name: "Te", ID: 2, Amount: 1, CategoryKey: model.CategoryPantry},
	}
	for _, p := range model.RefreshCategoryRefs(products, cats) {
		if err := st.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}

	seq := NewCategories(st, nil, cats)
	if _, err := seq.DragEnd(DragEvent{Active: 3, Over: 1}); err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	te, _, _ := st.Product(ctx, "Te")
	ost, _, _ := st.Product(ctx, "Ost")
	if te.CategoryID() != 1 || ost.CategoryID() != 2 {
		t.Fatalf("refs not refreshed: te=%+v ost=%+v", te.Category, ost.Category)
	}
	if !ost.IsCompleted {
		t.Fatalf("category commit must not reset completion")
	}
}

func TestPreset_ApplyThenCommitReproducesPreset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	for _, p := range fixture() {
		if err := st.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}

	seq := NewProducts(st, nil, fixture())
	if _, err := seq.Move(4, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	saved, err := SavePreset(ctx, st, nil, " Helg ", seq)
	if err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	if saved.Name != "Helg" || seq.State() != Dirty {
		t.Fatalf("unexpected preset %q or state %v", saved.Name, seq.State())
	}

	// Back to a different committed order before applying.
	seq.Reset(fixture())
	if _, err := seq.Move(0, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := ApplyPreset(ctx, st, "Helg", seq); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if seq.State() != Selected {
		t.Fatalf("expected selected; got %v", seq.State())
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit after apply: %v", err)
	}

	stored, _, _ := st.Products(ctx)
	sort.Slice(stored, func(i, j int) bool { return stored[i].ID < stored[j].ID })
	if !reflect.DeepEqual(stored, saved.Data) {
		t.Fatalf("stored = %+v\nwant %+v", stored, saved.Data)
	}

	var nf PresetNotFoundError
	if _, err := ApplyPreset(ctx, st, "saknas", seq); !errors.As(err, &nf) {
		t.Fatalf("expected PresetNotFoundError; got %v", err)
	}
	if err := DeletePreset(ctx, st, nil, "Helg"); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if _, ok, _ := st.Presets(ctx); ok {
		t.Fatalf("expected no presets left")
	}
}

func TestPreset_ApplyKeepsProductsAddedSinceSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	base := []model.Product{
		{Name: "A", ID: 1, Amount: 1},
		{Name: "B", ID: 2, Amount: 1},
		{Name: "C", ID: 3, Amount: 1},
	}
	for _, p := range base {
		if err := st.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}
	if _, err := SavePreset(ctx, st, nil, "abc", NewProducts(st, nil, base)); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}

	// D is added after the preset and dragged to the top.
	if err := st.PutProduct(ctx, model.Product{Name: "D", ID: 4, Amount: 1}); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}
	live, _, _ := st.Products(ctx)
	seq := NewProducts(st, nil, live)
	if _, err := seq.DragEnd(DragEvent{Active: 4, Over: 1}); err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := ApplyPreset(ctx, st, "abc", seq); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit after apply: %v", err)
	}
	want := []string{"A", "B", "C", "D"}
	if got := names(seq.Items()); !reflect.DeepEqual(got, want) {
		t.Fatalf("working order = %v; want %v", got, want)
	}
	stored, _, _ := st.Products(ctx)
	sort.Slice(stored, func(i, j int) bool { return stored[i].ID < stored[j].ID })
	if got := names(stored); !reflect.DeepEqual(got, want) {
		t.Fatalf("stored order = %v; want %v", got, want)
	}
	for i, p := range stored {
		if p.ID != i+1 {
			t.Fatalf("ids are not 1..N: %+v", stored)
		}
	}
}

func TestCommit_RenumbersProductsMissingFromWorkingOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	for _, p := range fixture() {
		if err := st.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}
	seq := NewProducts(st, nil, fixture())

	// Added behind the working order's back, reusing a taken id.
	if err := st.PutProduct(ctx, model.Product{Name: "Kaffe", ID: 1, Amount: 1}); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}
	if _, err := seq.Move(0, 4); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := seq.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	kaffe, ok, _ := st.Product(ctx, "Kaffe")
	if !ok || kaffe.ID != len(fixture())+1 {
		t.Fatalf("expected Kaffe renumbered after the working order; got %+v", kaffe)
	}
}
