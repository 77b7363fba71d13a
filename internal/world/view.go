package world

import (
	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
)

// View is the read-only facade over the World. Systems, wrappers, scripts,
// and the view/persistence collaborators only ever hold a *View; the
// mutators stay on *World, which nothing outside the tick scheduler and
// action application touches.
type View struct {
	w *World
}

func (v *View) Tick() uint64           { return v.w.Tick() }
func (v *View) Bounds() (int, int)     { return v.w.Bounds() }
func (v *View) InBounds(x, y int) bool { return v.w.InBounds(x, y) }

func (v *View) Alive(id ecs.EntityID) bool                { return v.w.Alive(id) }
func (v *View) Defines(id ecs.EntityID, k ecs.Kind) bool  { return v.w.Defines(id, k) }
func (v *View) TemplateOf(id ecs.EntityID) string         { return v.w.TemplateOf(id) }
func (v *View) EntityAt(x, y int) (ecs.EntityID, bool)    { return v.w.EntityAt(x, y) }
func (v *View) Entities() []ecs.EntityID                  { return v.w.Entities() }
func (v *View) OwnedBy(p uuid.UUID) []ecs.EntityID        { return v.w.OwnedBy(p) }
func (v *View) IsDefeated(id ecs.EntityID) bool           { return v.w.IsDefeated(id) }

func (v *View) PositionOf(id ecs.EntityID) *component.Position     { return v.w.PositionOf(id) }
func (v *View) HealthOf(id ecs.EntityID) *component.Health         { return v.w.HealthOf(id) }
func (v *View) TypeOf(id ecs.EntityID) *component.Type             { return v.w.TypeOf(id) }
func (v *View) OwnerOf(id ecs.EntityID) *component.Owner           { return v.w.OwnerOf(id) }
func (v *View) ExperienceOf(id ecs.EntityID) *component.Experience { return v.w.ExperienceOf(id) }
func (v *View) InventoryOf(id ecs.EntityID) *component.Inventory   { return v.w.InventoryOf(id) }
func (v *View) ViewRadiusOf(id ecs.EntityID) *component.ViewRadius { return v.w.ViewRadiusOf(id) }

// Checksum digests the current world state; see checksum.go.
func (v *View) Checksum() uint64 { return v.w.Checksum() }
