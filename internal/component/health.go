package component

// Health holds current and maximum hit points.
type Health struct {
	null  bool
	HP    int
	MaxHP int
}

// NoHealth is the shared absent instance. Damage and healing through it
// are no-ops, so indestructible entities need no special handling.
var NoHealth = &Health{null: true}

func NewHealth(max int) *Health {
	return &Health{HP: max, MaxHP: max}
}

func (h *Health) IsAbsent() bool { return h.null }

func (h *Health) Dead() bool { return !h.null && h.HP <= 0 }

// Damage subtracts the given amount. Intentionally not clamped at zero:
// each application is a plain delta, so applying the same amount twice
// visibly double-counts.
func (h *Health) Damage(amount int) {
	if h.null {
		return
	}
	h.HP -= amount
}

func (h *Health) Heal(amount int) {
	if h.null {
		return
	}
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}
