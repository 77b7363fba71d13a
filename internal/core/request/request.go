// Package request defines the immutable intention records produced during
// script execution and the per-tick queue that buffers them. A request is
// created by a wrapper action method, consumed exactly once by one system
// in the same tick, then discarded.
package request

import (
	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/core/ecs"
)

// Kind tags a request with the system responsible for translating it.
type Kind uint8

const (
	KindMove Kind = iota
	KindAttack
	KindHarvest
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindAttack:
		return "attack"
	case KindHarvest:
		return "harvest"
	default:
		return "unknown"
	}
}

// Request is one player-issued intention. Implementations carry only the
// source entity and kind-specific payload, no behavior.
type Request interface {
	Kind() Kind
	Source() ecs.EntityID
	Player() uuid.UUID
}

type header struct {
	source ecs.EntityID
	player uuid.UUID
}

func (h header) Source() ecs.EntityID { return h.source }
func (h header) Player() uuid.UUID    { return h.player }

// Move asks to step the source entity onto the target tile.
type Move struct {
	header
	ToX int
	ToY int
}

func NewMove(player uuid.UUID, source ecs.EntityID, x, y int) *Move {
	return &Move{header: header{source: source, player: player}, ToX: x, ToY: y}
}

func (*Move) Kind() Kind { return KindMove }

// Attack asks to strike whatever occupies the target tile.
type Attack struct {
	header
	TargetX int
	TargetY int
}

func NewAttack(player uuid.UUID, source ecs.EntityID, x, y int) *Attack {
	return &Attack{header: header{source: source, player: player}, TargetX: x, TargetY: y}
}

func (*Attack) Kind() Kind { return KindAttack }

// Harvest asks to extract items from the resource on the target tile.
type Harvest struct {
	header
	TargetX int
	TargetY int
}

func NewHarvest(player uuid.UUID, source ecs.EntityID, x, y int) *Harvest {
	return &Harvest{header: header{source: source, player: player}, TargetX: x, TargetY: y}
}

func (*Harvest) Kind() Kind { return KindHarvest }
