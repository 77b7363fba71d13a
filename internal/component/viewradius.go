package component

// ViewRadius bounds what an entity can see: a tile is visible when its
// Chebyshev distance from the entity's position is ≤ Tiles.
type ViewRadius struct {
	null  bool
	Tiles int
}

// NoViewRadius is the shared absent instance; it sees nothing.
var NoViewRadius = &ViewRadius{null: true}

func NewViewRadius(tiles int) *ViewRadius {
	return &ViewRadius{Tiles: tiles}
}

func (v *ViewRadius) IsAbsent() bool { return v.null }

func (v *ViewRadius) Radius() int {
	if v.null {
		return 0
	}
	return v.Tiles
}
