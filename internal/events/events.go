// Package events carries in-process change notifications so views can refetch
// after a bulk write (reorder commit, seed, reset).
package events

import "github.com/asaskevich/EventBus"

const (
	ProductsChanged   = "products:changed"
	CategoriesChanged = "categories:changed"
	PresetsChanged    = "presets:changed"
)

type Bus = EventBus.Bus

func NewBus() Bus { return EventBus.New() }

// Publish is a no-op on a nil bus; CLI one-shot commands run without one.
func Publish(bus Bus, topics ...string) {
	if bus == nil {
		return
	}
	for _, t := range topics {
		bus.Publish(t)
	}
}
