// Package action defines the immutable, fully precomputed mutation
// descriptors that systems emit and the queue that applies them in order.
// An action holds target ids and final values only — no reference back to
// the system that produced it — and Apply is the single place component
// values are written.
package action

import (
	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/data"
	"github.com/wormgrid/server/internal/world"
)

// Kind tags an action for reaction dispatch.
type Kind uint8

const (
	KindMove Kind = iota
	KindDamage
	KindGrantExperience
	KindTransferItem
	KindDefeat
	KindRemoveEntity
	KindSpawn
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindDamage:
		return "damage"
	case KindGrantExperience:
		return "grant_experience"
	case KindTransferItem:
		return "transfer_item"
	case KindDefeat:
		return "defeat"
	case KindRemoveEntity:
		return "remove_entity"
	case KindSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Action is applied exactly once per enqueue; that guarantee lives in the
// queue, not here. Apply itself is deliberately not idempotent (a Damage
// applied twice double-counts) and tolerates stale targets as no-ops.
type Action interface {
	Kind() Kind
	Apply(w *world.World) error
}

// Move relocates an entity to a precomputed destination tile.
type Move struct {
	Entity ecs.EntityID
	ToX    int
	ToY    int
}

func (*Move) Kind() Kind { return KindMove }

func (a *Move) Apply(w *world.World) error {
	return w.MoveEntity(a.Entity, a.ToX, a.ToY)
}

// Damage subtracts a precomputed amount from the target's health.
type Damage struct {
	Target ecs.EntityID
	Amount int
}

func (*Damage) Kind() Kind { return KindDamage }

func (a *Damage) Apply(w *world.World) error {
	return w.DamageEntity(a.Target, a.Amount)
}

// GrantExperience adds skill points to an entity's experience mapping.
type GrantExperience struct {
	Entity ecs.EntityID
	Skill  component.Skill
	Amount int
}

func (*GrantExperience) Kind() Kind { return KindGrantExperience }

func (a *GrantExperience) Apply(w *world.World) error {
	return w.GrantExperience(a.Entity, a.Skill, a.Amount)
}

// TransferItem moves items between two inventories.
type TransferItem struct {
	From  ecs.EntityID
	To    ecs.EntityID
	Item  component.Item
	Count int
}

func (*TransferItem) Kind() Kind { return KindTransferItem }

func (a *TransferItem) Apply(w *world.World) error {
	return w.TransferItems(a.From, a.To, a.Item, a.Count)
}

// Defeat records an entity's defeat in the tick journal. Removal is not
// folded in here; it arrives as a reaction so observers of the Defeat
// still see the entity's final state.
type Defeat struct {
	Target ecs.EntityID
}

func (*Defeat) Kind() Kind { return KindDefeat }

func (a *Defeat) Apply(w *world.World) error {
	return w.MarkDefeated(a.Target)
}

// RemoveEntity destroys the target and frees its tile.
type RemoveEntity struct {
	Target ecs.EntityID
}

func (*RemoveEntity) Kind() Kind { return KindRemoveEntity }

func (a *RemoveEntity) Apply(w *world.World) error {
	return w.RemoveEntity(a.Target)
}

// Spawn creates an entity from a template. Used by the boot-time spawn
// list so that even initial world population flows through the pipeline.
type Spawn struct {
	Template *data.EntityTemplate
	Owner    uuid.UUID
	X        int
	Y        int
}

func (*Spawn) Kind() Kind { return KindSpawn }

func (a *Spawn) Apply(w *world.World) error {
	_, err := w.Spawn(a.Template, a.Owner, a.X, a.Y)
	return err
}
