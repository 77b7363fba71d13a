package system

import (
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
)

const (
	harvestPerTick   = 1
	harvestExpReward = 5
)

// HarvestSystem translates harvest requests into item transfers from a
// resource to the harvesting worker. A per-tick remainder table stops two
// workers from draining more than the resource held at tick start; since
// requests arrive sorted by source id, the lower ids drain first.
type HarvestSystem struct {
	remaining map[ecs.EntityID]map[component.Item]int
}

func NewHarvestSystem() *HarvestSystem {
	return &HarvestSystem{remaining: make(map[ecs.EntityID]map[component.Item]int, 16)}
}

func (s *HarvestSystem) RequestKind() request.Kind { return request.KindHarvest }

func (s *HarvestSystem) Reset() {
	for k := range s.remaining {
		delete(s.remaining, k)
	}
}

func (s *HarvestSystem) Translate(v *world.View, r request.Request) ([]action.Action, *Rejection) {
	req := r.(*request.Harvest)
	src := req.Source()

	if !v.Alive(src) {
		return nil, reject(r, "source entity no longer exists")
	}
	if !v.TypeOf(src).Caps.Has(component.CapHarvest) {
		return nil, reject(r, "entity type cannot harvest")
	}
	pos := v.PositionOf(src)
	if pos.Chebyshev(req.TargetX, req.TargetY) != 1 {
		return nil, reject(r, "target is not an adjacent tile")
	}
	target, ok := v.EntityAt(req.TargetX, req.TargetY)
	if !ok {
		return nil, reject(r, "nothing to harvest on target tile")
	}
	if v.TypeOf(target).Category != component.CategoryResource {
		return nil, reject(r, "target is not a resource")
	}

	item, n := s.claim(v, target)
	if n == 0 {
		return nil, reject(r, "resource is exhausted")
	}

	return []action.Action{
		&action.TransferItem{From: target, To: src, Item: item, Count: n},
		&action.GrantExperience{Entity: src, Skill: component.SkillHarvest, Amount: harvestExpReward},
	}, nil
}

// claim reserves up to harvestPerTick of the resource's first item kind
// against the amounts it held at tick start.
func (s *HarvestSystem) claim(v *world.View, target ecs.EntityID) (component.Item, int) {
	pool, ok := s.remaining[target]
	if !ok {
		inv := v.InventoryOf(target)
		pool = make(map[component.Item]int, 2)
		for _, item := range inv.Items() {
			pool[item] = inv.Count(item)
		}
		s.remaining[target] = pool
	}
	inv := v.InventoryOf(target)
	for _, item := range inv.Items() {
		left := pool[item]
		if left <= 0 {
			continue
		}
		n := harvestPerTick
		if n > left {
			n = left
		}
		pool[item] = left - n
		return item, n
	}
	return "", 0
}
