package format

import (
	"errors"
	"io"

	"github.com/gocarina/gocsv"

	"handla-cli/internal/model"
)

var ErrNotTabular = errors.New("csv output is only available for lists")

// ProductRow is the flat CSV shape of a product. Images are reported, not inlined.
type ProductRow struct {
	Position  int    `csv:"position"`
	Name      string `csv:"name"`
	Category  string `csv:"category"`
	Amount    int    `csv:"amount"`
	Completed bool   `csv:"completed"`
	Details   string `csv:"details"`
	HasImage  bool   `csv:"has_image"`
}

type CategoryRow struct {
	Position int    `csv:"position"`
	Name     string `csv:"name"`
}

type PresetRow struct {
	Name     string `csv:"name"`
	Products int    `csv:"products"`
}

func ProductRows(products []model.Product) []ProductRow {
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductRow{
			Position:  p.ID,
			Name:      p.Name,
			Category:  string(p.CategoryKey),
			Amount:    p.Amount,
			Completed: p.IsCompleted,
			Details:   p.Details,
			HasImage:  p.HasImg,
		})
	}
	return rows
}

func CategoryRows(categories []model.Category) []CategoryRow {
	rows := make([]CategoryRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, CategoryRow{Position: c.ID, Name: string(c.Name)})
	}
	return rows
}

func PresetRows(presets []model.Preset) []PresetRow {
	rows := make([]PresetRow, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, PresetRow{Name: p.Name, Products: len(p.Data)})
	}
	return rows
}

// Rows converts known record slices to their CSV row type. Row slices pass through.
func Rows(v any) (any, error) {
	switch x := v.(type) {
	case []model.Product:
		return ProductRows(x), nil
	case model.Product:
		return ProductRows([]model.Product{x}), nil
	case []model.Category:
		return CategoryRows(x), nil
	case []model.Preset:
		return PresetRows(x), nil
	case model.Preset:
		return ProductRows(x.Data), nil
	case []ProductRow, []CategoryRow, []PresetRow:
		return x, nil
	default:
		return nil, ErrNotTabular
	}
}

func WriteCSV(w io.Writer, v any) error {
	rows, err := Rows(v)
	if err != nil {
		return err
	}
	return gocsv.Marshal(rows, w)
}
