package ecs

import "errors"

// ErrInvalidComponentKind is returned by writes against a component kind that
// is not part of the entity's declared type. Reads never fail; they resolve
// to the kind's shared absent instance instead.
var ErrInvalidComponentKind = errors.New("component kind not defined for entity type")

// Kind identifies one component slot. Every entity has exactly one slot per
// kind; slots outside the entity's declared type read as the absent instance
// and reject writes.
type Kind uint8

const (
	KindPosition Kind = iota
	KindHealth
	KindType
	KindOwner
	KindExperience
	KindInventory
	KindViewRadius

	kindCount
)

func KindCount() int { return int(kindCount) }

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindHealth:
		return "health"
	case KindType:
		return "type"
	case KindOwner:
		return "owner"
	case KindExperience:
		return "experience"
	case KindInventory:
		return "inventory"
	case KindViewRadius:
		return "view_radius"
	default:
		return "unknown"
	}
}

// KindMask is the set of component kinds an entity type declares.
type KindMask uint16

func MaskOf(kinds ...Kind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

func (m KindMask) Has(k Kind) bool {
	return m&(1<<k) != 0
}

func (m KindMask) Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
