package component

import "sort"

// Item identifies one stackable item kind.
type Item string

// Inventory maps item → count. Deep-owned per entity, same as Experience:
// two entities never share a backing map.
type Inventory struct {
	null  bool
	items map[Item]int
}

// NoInventory is the shared absent instance. Adds and takes through it are
// no-ops.
var NoInventory = &Inventory{null: true}

func NewInventory() *Inventory {
	return &Inventory{items: make(map[Item]int, 4)}
}

func NewInventoryFrom(seed map[Item]int) *Inventory {
	inv := NewInventory()
	for item, n := range seed {
		if n > 0 {
			inv.items[item] = n
		}
	}
	return inv
}

func (i *Inventory) IsAbsent() bool { return i.null }

func (i *Inventory) Count(item Item) int {
	if i.null {
		return 0
	}
	return i.items[item]
}

func (i *Inventory) Empty() bool {
	if i.null {
		return true
	}
	for _, n := range i.items {
		if n > 0 {
			return false
		}
	}
	return true
}

func (i *Inventory) Add(item Item, n int) {
	if i.null || n <= 0 {
		return
	}
	i.items[item] += n
}

// Take removes up to n of the item and returns how many were actually
// removed. Emptied entries are deleted so Items stays minimal.
func (i *Inventory) Take(item Item, n int) int {
	if i.null || n <= 0 {
		return 0
	}
	have := i.items[item]
	if have == 0 {
		return 0
	}
	if n > have {
		n = have
	}
	if n == have {
		delete(i.items, item)
	} else {
		i.items[item] = have - n
	}
	return n
}

// Items returns the held item kinds in sorted order.
func (i *Inventory) Items() []Item {
	if i.null {
		return nil
	}
	out := make([]Item, 0, len(i.items))
	for item := range i.items {
		out = append(out, item)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
