// Package wrapper builds the capability-restricted facades scripts act
// through. A wrapper is a transient, non-owning view over one entity:
// reads copy values out of the snapshot, and action methods construct
// requests — nothing here mutates world state.
package wrapper

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
)

var (
	// ErrUnsupportedCapability rejects an action method outside the
	// entity's capability set, at request-creation time. The tick
	// continues; the originating script gets the error.
	ErrUnsupportedCapability = errors.New("capability not in entity's capability set")

	ErrNotOwner = errors.New("entity belongs to another player")
	ErrNoEntity = errors.New("entity no longer exists")
)

// Wrapper is constructed per script invocation and discarded after. The
// capability set comes from the entity's immutable type component, so the
// same construction always yields the same action surface.
type Wrapper struct {
	id     ecs.EntityID
	player uuid.UUID
	v      *world.View
	q      *request.Queue
	caps   component.CapSet
}

// For builds a wrapper over one of the player's entities. Construction
// fails for stale ids and for entities the player does not own — scripts
// never get an action surface over foreign entities.
func For(v *world.View, q *request.Queue, player uuid.UUID, id ecs.EntityID) (*Wrapper, error) {
	if !v.Alive(id) {
		return nil, ErrNoEntity
	}
	if !v.OwnerOf(id).OwnedBy(player) {
		return nil, ErrNotOwner
	}
	return &Wrapper{
		id:     id,
		player: player,
		v:      v,
		q:      q,
		caps:   v.TypeOf(id).Caps,
	}, nil
}

func (w *Wrapper) ID() ecs.EntityID { return w.id }

func (w *Wrapper) Can(c component.Capability) bool { return w.caps.Has(c) }

func (w *Wrapper) Position() (int, int) {
	return w.v.PositionOf(w.id).At()
}

func (w *Wrapper) Health() (int, int) {
	h := w.v.HealthOf(w.id)
	return h.HP, h.MaxHP
}

func (w *Wrapper) Experience(skill component.Skill) int {
	return w.v.ExperienceOf(w.id).Of(skill)
}

func (w *Wrapper) ItemCount(item component.Item) int {
	return w.v.InventoryOf(w.id).Count(item)
}

func (w *Wrapper) Type() (component.Category, string) {
	t := w.v.TypeOf(w.id)
	return t.Category, t.Subcategory
}

func (w *Wrapper) ViewRadius() int {
	return w.v.ViewRadiusOf(w.id).Radius()
}

// Action methods construct a request and append it to the queue.

func (w *Wrapper) Move(x, y int) error {
	if !w.caps.Has(component.CapMove) {
		return ErrUnsupportedCapability
	}
	return w.q.Append(request.NewMove(w.player, w.id, x, y))
}

func (w *Wrapper) Attack(x, y int) error {
	if !w.caps.Has(component.CapAttack) {
		return ErrUnsupportedCapability
	}
	return w.q.Append(request.NewAttack(w.player, w.id, x, y))
}

func (w *Wrapper) Harvest(x, y int) error {
	if !w.caps.Has(component.CapHarvest) {
		return ErrUnsupportedCapability
	}
	return w.q.Append(request.NewHarvest(w.player, w.id, x, y))
}
