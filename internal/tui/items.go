package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"handla-cli/internal/model"
)

type productItem struct {
	p model.Product
	// positional is set on the order tab, where the id is shown.
	positional bool
}

func (i productItem) Title() string {
	box := "[ ]"
	if i.p.IsCompleted {
		box = "[x]"
	}
	var b strings.Builder
	if i.positional {
		fmt.Fprintf(&b, "%3d  ", i.p.ID)
	} else {
		b.WriteString(box + " ")
	}
	fmt.Fprintf(&b, "%-3s %s", fmt.Sprintf("%d×", i.p.Amount), i.p.Name)
	if i.p.HasImg {
		b.WriteString(" ▣")
	}
	if i.p.Details != "" {
		b.WriteString("  · " + i.p.Details)
	}
	return b.String()
}

func (i productItem) FilterValue() string { return i.p.Name }
func (i productItem) Completed() bool     { return !i.positional && i.p.IsCompleted }

// headerItem is a non-selectable-looking category heading on the products tab.
type headerItem struct {
	name string
}

func (i headerItem) Title() string       { return "── " + i.name }
func (i headerItem) FilterValue() string { return "" }

type categoryItem struct {
	c     model.Category
	count int
}

func (i categoryItem) Title() string {
	return fmt.Sprintf("%3d  %s (%d)", i.c.ID, i.c.Name, i.count)
}
func (i categoryItem) FilterValue() string { return string(i.c.Name) }

type presetItem struct {
	p model.Preset
}

func (i presetItem) Title() string {
	names := make([]string, 0, 3)
	for _, p := range i.p.Data {
		if len(names) == 3 {
			names = append(names, "…")
			break
		}
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%s  (%d)  %s", i.p.Name, len(i.p.Data), strings.Join(names, ", "))
}
func (i presetItem) FilterValue() string { return i.p.Name }

// groupedProductItems lays out products (already in category order) under category headings.
func groupedProductItems(products []model.Product) []list.Item {
	out := make([]list.Item, 0, len(products)+8)
	last := -1
	for _, p := range products {
		if id := p.CategoryID(); id != last || len(out) == 0 {
			name := "Uncategorized"
			if p.Category != nil {
				name = string(p.Category.Name)
			}
			out = append(out, headerItem{name: name})
			last = id
		}
		out = append(out, productItem{p: p})
	}
	return out
}

func positionalProductItems(products []model.Product) []list.Item {
	out := make([]list.Item, 0, len(products))
	for _, p := range products {
		out = append(out, productItem{p: p, positional: true})
	}
	return out
}

func categoryItems(categories []model.Category, products []model.Product) []list.Item {
	counts := map[model.CategoryName]int{}
	for _, p := range products {
		counts[p.CategoryKey]++
	}
	out := make([]list.Item, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryItem{c: c, count: counts[c.Name]})
	}
	return out
}

func presetItems(presets []model.Preset) []list.Item {
	out := make([]list.Item, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetItem{p: p})
	}
	return out
}
