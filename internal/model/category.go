package model

type CategoryName string

const (
	CategoryDairy  CategoryName = "Mejeri & Ost"
	CategoryBread  CategoryName = "Bröd & Kakor"
	CategoryMeat   CategoryName = "Kött, Fågel & Fisk"
	CategoryPantry CategoryName = "Skafferi"
	CategoryFish   CategoryName = "Sill, kaviar & rom"
)

// CategoryNames lists the enumerated category names in their default order.
func CategoryNames() []CategoryName {
	return []CategoryName{
		CategoryDairy,
		CategoryBread,
		CategoryMeat,
		CategoryPantry,
		CategoryFish,
	}
}

func (n CategoryName) Valid() bool {
	for _, c := range CategoryNames() {
		if c == n {
			return true
		}
	}
	return false
}

type Category struct {
	Name CategoryName `json:"name" yaml:"name"`
	ID   int          `json:"id" yaml:"id"`
}

func (c Category) Key() string { return string(c.Name) }

func (c Category) WithID(id int) Category {
	c.ID = id
	return c
}

// CategoryRef is the {name, id} snapshot of a category embedded in a product.
// It is derived data and must be recomputed whenever the category order changes.
type CategoryRef struct {
	Name CategoryName `json:"name"`
	ID   int          `json:"id"`
}

func (c Category) Ref() CategoryRef {
	return CategoryRef{Name: c.Name, ID: c.ID}
}

// ResolveCategory finds the category matching key and returns its embeddable reference.
func ResolveCategory(categories []Category, key CategoryName) (*CategoryRef, bool) {
	if key == "" {
		return nil, false
	}
	for _, c := range categories {
		if c.Name == key {
			ref := c.Ref()
			return &ref, true
		}
	}
	return nil, false
}

// RefreshCategoryRefs returns copies of products with their category reference
// re-derived from categories. Products whose key matches no category lose their reference.
func RefreshCategoryRefs(products []Product, categories []Category) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		ref, _ := ResolveCategory(categories, p.CategoryKey)
		out = append(out, p.WithCategory(ref))
	}
	return out
}
