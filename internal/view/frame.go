package view

import (
	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/engine"
	"github.com/wormgrid/server/internal/world"
)

// Frame is one player's post-commit state report.
type Frame struct {
	Tick       uint64           `json:"tick"`
	Entities   []EntityFrame    `json:"entities"`
	Visible    []EntityFrame    `json:"visible"`
	Tiles      [][2]int         `json:"tiles"`
	Rejections []RejectionFrame `json:"rejections,omitempty"`
}

// EntityFrame serializes one entity. Own entities include the full detail;
// foreign visible ones only what a viewer could tell at a glance.
type EntityFrame struct {
	ID          uint64         `json:"id"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	X           int            `json:"x"`
	Y           int            `json:"y"`
	HP          *int           `json:"hp,omitempty"`
	MaxHP       *int           `json:"max_hp,omitempty"`
	Experience  map[string]int `json:"experience,omitempty"`
	Items       map[string]int `json:"items,omitempty"`
	ViewRadius  int            `json:"view_radius,omitempty"`
}

type RejectionFrame struct {
	Entity uint64 `json:"entity"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// BuildFrame renders what one player is allowed to see after a tick.
func BuildFrame(v *world.View, result *engine.TickResult, player uuid.UUID) *Frame {
	tiles := VisibleTiles(v, player)
	frame := &Frame{
		Tick:     result.Tick,
		Tiles:    tiles,
		Entities: make([]EntityFrame, 0, 8),
		Visible:  make([]EntityFrame, 0, 16),
	}

	owned := make(map[ecs.EntityID]bool, 8)
	for _, id := range v.OwnedBy(player) {
		owned[id] = true
		frame.Entities = append(frame.Entities, fullEntityFrame(v, id))
	}
	for _, id := range visibleEntities(v, tiles) {
		if !owned[id] {
			frame.Visible = append(frame.Visible, glanceEntityFrame(v, id))
		}
	}
	for _, rej := range result.Rejections {
		if rej.Player != player {
			continue
		}
		frame.Rejections = append(frame.Rejections, RejectionFrame{
			Entity: uint64(rej.Entity),
			Kind:   rej.Kind.String(),
			Reason: rej.Reason,
		})
	}
	return frame
}

func fullEntityFrame(v *world.View, id ecs.EntityID) EntityFrame {
	f := glanceEntityFrame(v, id)
	t := v.TypeOf(id)
	f.Subcategory = t.Subcategory
	if v.Defines(id, ecs.KindExperience) {
		exp := v.ExperienceOf(id)
		f.Experience = make(map[string]int, 4)
		for _, skill := range exp.Skills() {
			f.Experience[string(skill)] = exp.Of(skill)
		}
	}
	if v.Defines(id, ecs.KindInventory) {
		inv := v.InventoryOf(id)
		f.Items = make(map[string]int, 4)
		for _, item := range inv.Items() {
			f.Items[string(item)] = inv.Count(item)
		}
	}
	f.ViewRadius = v.ViewRadiusOf(id).Radius()
	return f
}

func glanceEntityFrame(v *world.View, id ecs.EntityID) EntityFrame {
	pos := v.PositionOf(id)
	f := EntityFrame{
		ID:       uint64(id),
		Category: v.TypeOf(id).Category.String(),
		X:        pos.X,
		Y:        pos.Y,
	}
	if v.Defines(id, ecs.KindHealth) {
		h := v.HealthOf(id)
		hp, max := h.HP, h.MaxHP
		f.HP = &hp
		f.MaxHP = &max
	}
	return f
}
