package component

// Position is the entity's tile coordinate on the world grid.
type Position struct {
	null bool
	X    int
	Y    int
}

// NoPosition is the shared absent instance. Writes through it are no-ops.
var NoPosition = &Position{null: true}

func NewPosition(x, y int) *Position {
	return &Position{X: x, Y: y}
}

func (p *Position) IsAbsent() bool { return p.null }

func (p *Position) At() (int, int) { return p.X, p.Y }

// MoveTo updates the coordinate in place. No-op on the absent instance.
func (p *Position) MoveTo(x, y int) {
	if p.null {
		return
	}
	p.X, p.Y = x, y
}

// Chebyshev returns the Chebyshev distance to (x, y): the number of king
// moves between the two tiles. Adjacency and view radius both use it.
func (p *Position) Chebyshev(x, y int) int {
	dx := p.X - x
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
