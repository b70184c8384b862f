package mutate

import (
	"context"
	"strings"

	"handla-cli/internal/model"
	"handla-cli/internal/store"
)

// Result reports the outcome of a read-modify-write helper.
// Found is false when the key had no record (a silent no-op).
// Changed is true when a record was written.
type Result struct {
	Product model.Product
	Found   bool
	Changed bool
}

// update fetches name, applies fn to a copy and writes the copy back under the same key.
// fn returns write=false to leave the stored record untouched.
// There is no concurrency check: the last writer wins.
func update(ctx context.Context, st *store.Store, name string, op error, fn func(model.Product) (model.Product, bool)) (Result, error) {
	cur, ok, err := st.Product(ctx, name)
	if err != nil {
		return Result{}, storageFailure(op, name, err)
	}
	if !ok {
		return Result{}, nil
	}
	next, write := fn(cur.Clone())
	if !write {
		return Result{Product: cur, Found: true}, nil
	}
	if err := st.PutProduct(ctx, next); err != nil {
		return Result{Product: cur, Found: true}, storageFailure(op, name, err)
	}
	return Result{Product: next, Found: true, Changed: true}, nil
}

// SetAmount writes amount n. Negative amounts are rejected before storage is touched.
func SetAmount(ctx context.Context, st *store.Store, name string, n int) (Result, error) {
	if err := model.ValidateAmount(n); err != nil {
		return Result{}, err
	}
	return update(ctx, st, name, ErrUpdateAmount, func(p model.Product) (model.Product, bool) {
		return p.WithAmount(n), true
	})
}

func Increment(ctx context.Context, st *store.Store, name string) (Result, error) {
	return update(ctx, st, name, ErrUpdateAmount, func(p model.Product) (model.Product, bool) {
		return p.WithAmount(p.Amount + 1), true
	})
}

// Decrement lowers the amount by one. At zero it is a no-op and the stored value is kept.
func Decrement(ctx context.Context, st *store.Store, name string) (Result, error) {
	return update(ctx, st, name, ErrUpdateAmount, func(p model.Product) (model.Product, bool) {
		if p.Amount-1 < 0 {
			return p, false
		}
		return p.WithAmount(p.Amount - 1), true
	})
}

// ToggleComplete writes the negation of prev, the completion state the caller displayed
// before the toggle.
func ToggleComplete(ctx context.Context, st *store.Store, name string, prev bool) (Result, error) {
	return update(ctx, st, name, ErrToggle, func(p model.Product) (model.Product, bool) {
		return p.WithCompleted(!prev), true
	})
}

// Toggle flips the stored completion flag. Callers without a displayed state use it
// instead of ToggleComplete.
func Toggle(ctx context.Context, st *store.Store, name string) (Result, error) {
	return update(ctx, st, name, ErrToggle, func(p model.Product) (model.Product, bool) {
		return p.WithCompleted(!p.IsCompleted), true
	})
}

func SetDetails(ctx context.Context, st *store.Store, name, details string) (Result, error) {
	details = strings.TrimSpace(details)
	return update(ctx, st, name, ErrUpdateDetails, func(p model.Product) (model.Product, bool) {
		return p.WithDetails(details), true
	})
}

// UpdateImage stores dataURI inline on the product. An empty value removes the image.
func UpdateImage(ctx context.Context, st *store.Store, name, dataURI string) (Result, error) {
	if err := model.ValidateImage(dataURI); err != nil {
		return Result{}, err
	}
	return update(ctx, st, name, ErrUpdateImage, func(p model.Product) (model.Product, bool) {
		return p.WithImage(dataURI), true
	})
}

// Rename moves a product to a new key. The new record is written before the old key is
// deleted; the two writes are independent.
func Rename(ctx context.Context, st *store.Store, oldName, newName string) (Result, error) {
	newName = strings.TrimSpace(newName)
	if err := model.ValidateProductName(newName); err != nil {
		return Result{}, err
	}
	cur, ok, err := st.Product(ctx, oldName)
	if err != nil {
		return Result{}, storageFailure(ErrRename, oldName, err)
	}
	if !ok {
		return Result{}, nil
	}
	if newName == oldName {
		return Result{Product: cur, Found: true}, nil
	}
	if _, exists, err := st.Product(ctx, newName); err != nil {
		return Result{}, storageFailure(ErrRename, newName, err)
	} else if exists {
		return Result{Product: cur, Found: true}, ExistsError{Kind: "product", Key: newName}
	}

	next := cur.WithName(newName)
	if err := st.PutProduct(ctx, next); err != nil {
		return Result{Product: cur, Found: true}, storageFailure(ErrRename, newName, err)
	}
	if err := st.Delete(ctx, store.Items, oldName); err != nil {
		return Result{Product: next, Found: true, Changed: true}, storageFailure(ErrRename, oldName, err)
	}
	return Result{Product: next, Found: true, Changed: true}, nil
}

// AddProduct creates a new product at the end of the list. Its category reference is
// resolved from the stored categories.
func AddProduct(ctx context.Context, st *store.Store, p model.Product) (model.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Details = strings.TrimSpace(p.Details)
	if err := model.ValidateProduct(p); err != nil {
		return model.Product{}, err
	}
	if _, exists, err := st.Product(ctx, p.Name); err != nil {
		return model.Product{}, storageFailure(ErrAddProduct, p.Name, err)
	} else if exists {
		return model.Product{}, ExistsError{Kind: "product", Key: p.Name}
	}

	products, _, err := st.Products(ctx)
	if err != nil {
		return model.Product{}, storageFailure(ErrAddProduct, p.Name, err)
	}
	maxID := 0
	for _, x := range products {
		if x.ID > maxID {
			maxID = x.ID
		}
	}
	categories, _, err := st.Categories(ctx)
	if err != nil {
		return model.Product{}, storageFailure(ErrAddProduct, p.Name, err)
	}
	ref, _ := model.ResolveCategory(categories, p.CategoryKey)

	next := p.WithID(maxID + 1).WithCategory(ref).WithImage(p.UploadedImg)
	if err := st.PutProduct(ctx, next); err != nil {
		return model.Product{}, storageFailure(ErrAddProduct, p.Name, err)
	}
	return next, nil
}

// Delete removes one record. A missing key is not an error.
func Delete(ctx context.Context, st *store.Store, c store.Collection, key string) error {
	if err := st.Delete(ctx, c, key); err != nil {
		return storageFailure(ErrDelete, key, err)
	}
	return nil
}

// DeleteAll clears every given collection, stopping at the first failure.
func DeleteAll(ctx context.Context, st *store.Store, collections ...store.Collection) error {
	for _, c := range collections {
		if err := st.Clear(ctx, c); err != nil {
			return storageFailure(ErrDelete, string(c), err)
		}
	}
	return nil
}
