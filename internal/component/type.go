package component

import "fmt"

// Category is an entity's top-level classification. It decides which wrapper
// is built over the entity and, together with the capability set, which
// request-issuing methods scripts may call.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryWorker
	CategoryResource
	CategoryObstacle
)

func (c Category) String() string {
	switch c {
	case CategoryWorker:
		return "worker"
	case CategoryResource:
		return "resource"
	case CategoryObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

func ParseCategory(s string) (Category, error) {
	switch s {
	case "worker":
		return CategoryWorker, nil
	case "resource":
		return CategoryResource, nil
	case "obstacle":
		return CategoryObstacle, nil
	default:
		return CategoryNone, fmt.Errorf("unknown entity category %q", s)
	}
}

// Capability is one independently defined action set an entity type may
// carry. Types compose capabilities freely (a worker type is typically
// move+harvest, a soldier type move+attack).
type Capability uint8

const (
	CapMove Capability = iota
	CapAttack
	CapHarvest
)

func (c Capability) String() string {
	switch c {
	case CapMove:
		return "move"
	case CapAttack:
		return "attack"
	case CapHarvest:
		return "harvest"
	default:
		return "unknown"
	}
}

func ParseCapability(s string) (Capability, error) {
	switch s {
	case "move":
		return CapMove, nil
	case "attack":
		return CapAttack, nil
	case "harvest":
		return CapHarvest, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", s)
	}
}

// CapSet is a composed set of capabilities, fixed per entity type.
type CapSet uint8

func Caps(caps ...Capability) CapSet {
	var s CapSet
	for _, c := range caps {
		s |= 1 << c
	}
	return s
}

func (s CapSet) Has(c Capability) bool { return s&(1<<c) != 0 }

// Type identifies the entity's category and subcategory and carries the
// capability set resolved at type-registration time. Immutable after
// construction; there are no mutators.
type Type struct {
	null        bool
	Category    Category
	Subcategory string
	Caps        CapSet
}

// NoType is the shared absent instance.
var NoType = &Type{null: true}

func NewType(cat Category, sub string, caps CapSet) *Type {
	return &Type{Category: cat, Subcategory: sub, Caps: caps}
}

func (t *Type) IsAbsent() bool { return t.null }
