// Package catalog holds the fixed list of sellable items. The catalog is
// loaded once at process start and never mutated afterwards; every component
// that needs it receives the same immutable value.
package catalog

import (
	"github.com/Adnan1921/radnja-tracker/internal/core"
)

// Item is one catalog entry. QuickAmounts are the price suggestions shown
// as one-tap shortcuts in the register UI.
type Item struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Icon         string       `json:"icon"`
	QuickAmounts []core.Money `json:"quickAmounts"`
}

// Catalog is an immutable set of items with id lookup.
type Catalog struct {
	items []Item
	byID  map[int]Item
}

// lumpItem is the synthetic entry for lump daily takings. It is never part
// of the selectable listing; core.LumpItemID references it.
var lumpItem = Item{ID: core.LumpItemID, Name: "Dnevni pazar", Icon: "💰"}

// Default returns the shop's item catalog.
func Default() *Catalog {
	return New([]Item{
		{ID: 1, Name: "Torba", Icon: "👜", QuickAmounts: km(60, 65, 70, 75, 80, 85, 90)},
		{ID: 2, Name: "Naočale", Icon: "🕶️", QuickAmounts: km(20, 30)},
		{ID: 3, Name: "Kapa", Icon: "🧢", QuickAmounts: km(20, 25)},
		{ID: 4, Name: "Novčanik", Icon: "👛", QuickAmounts: km(25, 30, 35, 40)},
		{ID: 5, Name: "Kais", Icon: "🪢", QuickAmounts: km(40, 60)},
		{ID: 6, Name: "Ostalo", Icon: "📦"},
	})
}

// New builds a catalog from the given items.
func New(items []Item) *Catalog {
	c := &Catalog{
		items: append([]Item(nil), items...),
		byID:  make(map[int]Item, len(items)),
	}
	for _, it := range c.items {
		c.byID[it.ID] = it
	}
	return c
}

// Items returns the selectable entries in declaration order. The returned
// slice is a copy; callers cannot mutate the catalog through it.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// ByID resolves an item id. The lump sentinel id resolves to the synthetic
// "Dnevni pazar" entry.
func (c *Catalog) ByID(id int) (Item, bool) {
	if id == core.LumpItemID {
		return lumpItem, true
	}
	it, ok := c.byID[id]
	return it, ok
}

func km(amounts ...int64) []core.Money {
	out := make([]core.Money, len(amounts))
	for i, a := range amounts {
		out[i] = core.Money{Cents: a * 100}
	}
	return out
}
