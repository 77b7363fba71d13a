package system

import (
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
)

// Damage and training tuning. Experience softens incoming and sharpens
// outgoing damage in coarse steps so low-level fights stay readable.
const (
	baseDamage      = 2
	attackExpStep   = 50  // +1 damage per this many ATTACK points
	defendExpStep   = 100 // -1 damage per this many DEFEND points
	attackExpReward = 10
	defendExpReward = 5
)

// CombatSystem translates attack requests into a Damage plus the
// experience grants for both sides. All values are fully precomputed from
// the committed snapshot; the actions carry no logic of their own.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func (s *CombatSystem) RequestKind() request.Kind { return request.KindAttack }

func (s *CombatSystem) Reset() {}

func (s *CombatSystem) Translate(v *world.View, r request.Request) ([]action.Action, *Rejection) {
	req := r.(*request.Attack)
	src := req.Source()

	if !v.Alive(src) {
		return nil, reject(r, "source entity no longer exists")
	}
	if !v.TypeOf(src).Caps.Has(component.CapAttack) {
		return nil, reject(r, "entity type cannot attack")
	}
	pos := v.PositionOf(src)
	if pos.Chebyshev(req.TargetX, req.TargetY) != 1 {
		return nil, reject(r, "target is not an adjacent tile")
	}
	target, ok := v.EntityAt(req.TargetX, req.TargetY)
	if !ok {
		return nil, reject(r, "nothing to attack on target tile")
	}
	if !v.Defines(target, ecs.KindHealth) {
		return nil, reject(r, "target is indestructible")
	}

	dmg := baseDamage + v.ExperienceOf(src).Of(component.SkillAttack)/attackExpStep
	dmg -= v.ExperienceOf(target).Of(component.SkillDefend) / defendExpStep
	if dmg < 1 {
		dmg = 1
	}

	acts := []action.Action{
		&action.Damage{Target: target, Amount: dmg},
		&action.GrantExperience{Entity: src, Skill: component.SkillAttack, Amount: attackExpReward},
	}
	if v.Defines(target, ecs.KindExperience) {
		acts = append(acts, &action.GrantExperience{
			Entity: target,
			Skill:  component.SkillDefend,
			Amount: defendExpReward,
		})
	}
	return acts, nil
}
