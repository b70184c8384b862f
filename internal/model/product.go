package model

type Product struct {
	Name        string       `json:"name"`
	CategoryKey CategoryName `json:"categoryKey,omitempty"`

	// ID is a display/sort position (1-based). It is reassigned on every
	// reorder commit and is never an identity; Name is the key.
	ID int `json:"id,omitempty"`

	IsCompleted bool         `json:"isCompleted"`
	Amount      int          `json:"amount"`
	Details     string       `json:"details,omitempty"`
	Category    *CategoryRef `json:"category,omitempty"`
	HasImg      bool         `json:"hasImg,omitempty"`
	UploadedImg string       `json:"uploadedImg,omitempty"`
}

func (p Product) Key() string { return p.Name }

// Clone returns a deep copy; the embedded category reference is not shared.
func (p Product) Clone() Product {
	if p.Category != nil {
		ref := *p.Category
		p.Category = &ref
	}
	return p
}

func (p Product) WithAmount(n int) Product {
	p = p.Clone()
	p.Amount = n
	return p
}

func (p Product) WithCompleted(done bool) Product {
	p = p.Clone()
	p.IsCompleted = done
	return p
}

func (p Product) WithDetails(details string) Product {
	p = p.Clone()
	p.Details = details
	return p
}

func (p Product) WithName(name string) Product {
	p = p.Clone()
	p.Name = name
	return p
}

func (p Product) WithID(id int) Product {
	p = p.Clone()
	p.ID = id
	return p
}

// WithImage sets the inline image. An empty data URI clears it.
func (p Product) WithImage(dataURI string) Product {
	p = p.Clone()
	p.UploadedImg = dataURI
	p.HasImg = dataURI != ""
	return p
}

func (p Product) WithCategory(ref *CategoryRef) Product {
	p = p.Clone()
	if ref != nil {
		r := *ref
		p.Category = &r
	} else {
		p.Category = nil
	}
	return p
}

// CategoryID returns the embedded category id, or 0 when the product has none.
func (p Product) CategoryID() int {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}

// CloneProducts deep-copies a product slice.
func CloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
