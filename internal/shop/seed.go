// Package shop builds whole-list operations on top of the store: generating the default
// list, resetting, and loading a consistent snapshot for display.
package shop

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"handla-cli/internal/model"
)

//go:embed seed.yaml
var defaultSeed []byte

type SeedProduct struct {
	Name     string             `yaml:"name"`
	Category model.CategoryName `yaml:"category"`
	Details  string             `yaml:"details,omitempty"`
	// Amount defaults to 1 when omitted.
	Amount *int `yaml:"amount,omitempty"`
}

// Seed is a list document: categories in display order, products in list order.
type Seed struct {
	Categories []model.CategoryName `yaml:"categories"`
	Products   []SeedProduct        `yaml:"products"`
}

func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeed)
}

func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	s, err := ParseSeed(b)
	if err != nil {
		return Seed{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, err
	}
	if err := s.Validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}

// Validate checks names, amounts and category keys, and rejects duplicates.
func (s Seed) Validate() error {
	seenCat := map[model.CategoryName]bool{}
	for _, c := range s.Categories {
		if err := model.ValidateCategoryKey(c); err != nil {
			return err
		}
		if seenCat[c] {
			return &model.ValidationError{Field: "categories", Reason: "duplicate " + string(c)}
		}
		seenCat[c] = true
	}
	seen := map[string]bool{}
	for _, sp := range s.Products {
		p := sp.product()
		if err := model.ValidateProduct(p); err != nil {
			return err
		}
		if seen[p.Name] {
			return &model.ValidationError{Field: "products", Reason: "duplicate " + p.Name}
		}
		seen[p.Name] = true
	}
	return nil
}

func (sp SeedProduct) product() model.Product {
	amount := 1
	if sp.Amount != nil {
		amount = *sp.Amount
	}
	return model.Product{
		Name:        strings.TrimSpace(sp.Name),
		CategoryKey: sp.Category,
		Details:     strings.TrimSpace(sp.Details),
		Amount:      amount,
	}
}
