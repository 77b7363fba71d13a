package system

import (
	"fmt"

	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
)

// MovementSystem translates move requests into at most one Move action per
// destination tile. Conflicts between same-tick requests are resolved by a
// per-tick claim table: the lowest source entity id wins, which is a pure
// function of entity identifiers and never of arrival order (the scheduler
// hands requests over sorted by source id).
type MovementSystem struct {
	claims map[[2]int]ecs.EntityID
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{claims: make(map[[2]int]ecs.EntityID, 32)}
}

func (s *MovementSystem) RequestKind() request.Kind { return request.KindMove }

func (s *MovementSystem) Reset() {
	for k := range s.claims {
		delete(s.claims, k)
	}
}

func (s *MovementSystem) Translate(v *world.View, r request.Request) ([]action.Action, *Rejection) {
	req := r.(*request.Move)
	src := req.Source()

	if !v.Alive(src) {
		return nil, reject(r, "source entity no longer exists")
	}
	if !v.TypeOf(src).Caps.Has(component.CapMove) {
		return nil, reject(r, "entity type cannot move")
	}
	if !v.InBounds(req.ToX, req.ToY) {
		return nil, reject(r, "destination out of bounds")
	}
	pos := v.PositionOf(src)
	if pos.Chebyshev(req.ToX, req.ToY) != 1 {
		return nil, reject(r, "destination is not an adjacent tile")
	}
	if occupant, taken := v.EntityAt(req.ToX, req.ToY); taken && occupant != src {
		return nil, reject(r, "destination tile is occupied")
	}

	key := [2]int{req.ToX, req.ToY}
	if winner, claimed := s.claims[key]; claimed {
		return nil, reject(r, fmt.Sprintf("tile (%d,%d) already claimed by entity %d", req.ToX, req.ToY, winner))
	}
	s.claims[key] = src

	return []action.Action{&action.Move{Entity: src, ToX: req.ToX, ToY: req.ToY}}, nil
}
