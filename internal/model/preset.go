package model

// Preset is a named, fully denormalized snapshot of a product ordering.
type Preset struct {
	Name string    `json:"name"`
	Data []Product `json:"data"`
}

func (p Preset) Key() string { return p.Name }

// NewPreset copies products so later changes to the live list do not leak into the preset.
func NewPreset(name string, products []Product) Preset {
	data := CloneProducts(products)
	if data == nil {
		data = []Product{}
	}
	return Preset{Name: name, Data: data}
}
