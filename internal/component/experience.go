package component

import "sort"

// Skill identifies one trainable skill in an experience mapping.
type Skill string

const (
	SkillAttack  Skill = "ATTACK"
	SkillDefend  Skill = "DEFEND"
	SkillHarvest Skill = "HARVEST"
)

// Experience maps skill → accumulated points. The mapping is deep-owned per
// entity: training one worker must never be visible on another. Skills not
// in the mapping read as zero; only explicit grants grow it.
type Experience struct {
	null   bool
	points map[Skill]int
}

// NoExperience is the shared absent instance. Grants through it are no-ops.
var NoExperience = &Experience{null: true}

func NewExperience() *Experience {
	return &Experience{points: make(map[Skill]int, 4)}
}

// NewExperienceFrom seeds a fresh mapping from the given values, copying
// them so the template stays unshared.
func NewExperienceFrom(seed map[Skill]int) *Experience {
	e := NewExperience()
	for skill, n := range seed {
		if n > 0 {
			e.points[skill] = n
		}
	}
	return e
}

func (e *Experience) IsAbsent() bool { return e.null }

// Of returns the entity's points in the given skill. Unknown skills read as
// zero; the lookup never inserts.
func (e *Experience) Of(skill Skill) int {
	if e.null {
		return 0
	}
	return e.points[skill]
}

// Grant adds points to a skill. No-op on the absent instance and for
// non-positive amounts; points never go negative.
func (e *Experience) Grant(skill Skill, amount int) {
	if e.null || amount <= 0 {
		return
	}
	e.points[skill] += amount
}

// Skills returns the explicitly trained skills in sorted order.
func (e *Experience) Skills() []Skill {
	if e.null {
		return nil
	}
	out := make([]Skill, 0, len(e.points))
	for s := range e.points {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
