// Package view is the core→transport collaborator: after a tick commits it
// renders each player a frame of what that player's entities can see and
// pushes it over websocket.
package view

import (
	"sort"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/world"
)

// Chebyshev is the visibility metric: king-move distance between tiles.
func Chebyshev(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// VisibleTiles returns the tiles a player's entities can see: the union of
// each entity's Chebyshev disc, clipped to the world bounds, in sorted
// (y, x) order.
func VisibleTiles(v *world.View, player uuid.UUID) [][2]int {
	seen := make(map[[2]int]struct{}, 64)
	for _, id := range v.OwnedBy(player) {
		pos := v.PositionOf(id)
		if pos.IsAbsent() {
			continue
		}
		r := v.ViewRadiusOf(id).Radius()
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				x, y := pos.X+dx, pos.Y+dy
				if v.InBounds(x, y) {
					seen[[2]int{x, y}] = struct{}{}
				}
			}
		}
	}
	out := make([][2]int, 0, len(seen))
	for tile := range seen {
		out = append(out, tile)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// CanSee reports whether any of the player's entities sees the tile.
func CanSee(v *world.View, player uuid.UUID, x, y int) bool {
	for _, id := range v.OwnedBy(player) {
		pos := v.PositionOf(id)
		if pos.IsAbsent() {
			continue
		}
		if pos.Chebyshev(x, y) <= v.ViewRadiusOf(id).Radius() {
			return true
		}
	}
	return false
}

// visibleEntities lists the entities standing on any visible tile.
func visibleEntities(v *world.View, tiles [][2]int) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, 16)
	for _, tile := range tiles {
		if id, ok := v.EntityAt(tile[0], tile[1]); ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
