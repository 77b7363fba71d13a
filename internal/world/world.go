package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/data"
	"go.uber.org/zap"
)

var (
	// ErrReadOnlyPhase guards the write path: component values may only
	// change while the tick scheduler is applying actions.
	ErrReadOnlyPhase = errors.New("world is read-only outside action application")

	ErrOutOfBounds = errors.New("coordinate outside world bounds")
	ErrTileBlocked = errors.New("destination tile is occupied")
)

// Phase is the tick scheduler's position in the current tick.
type Phase uint8

const (
	PhaseCommitted Phase = iota
	PhaseCollecting
	PhaseTranslating
	PhaseApplying
)

func (p Phase) String() string {
	switch p {
	case PhaseCollecting:
		return "collecting"
	case PhaseTranslating:
		return "translating"
	case PhaseApplying:
		return "applying"
	default:
		return "committed"
	}
}

type entityMeta struct {
	mask     ecs.KindMask
	template string
}

// World owns all component stores and the occupancy grid. Exactly one
// mutable World exists; systems observe it through the read-only Snapshot
// while translating, and only action application goes through the phase-
// gated mutators below. Single-goroutine access (game loop), no locks.
type World struct {
	log *zap.Logger

	width  int
	height int

	pool     *ecs.EntityPool
	registry *ecs.Registry
	meta     map[ecs.EntityID]entityMeta

	positions   *ecs.Store[component.Position]
	healths     *ecs.Store[component.Health]
	types       *ecs.Store[component.Type]
	owners      *ecs.Store[component.Owner]
	experiences *ecs.Store[component.Experience]
	inventories *ecs.Store[component.Inventory]
	viewRadii   *ecs.Store[component.ViewRadius]

	occupancy map[[2]int]ecs.EntityID

	phase    Phase
	tick     uint64
	defeated map[ecs.EntityID]bool
}

func New(width, height int, log *zap.Logger) *World {
	w := &World{
		log:         log,
		width:       width,
		height:      height,
		pool:        ecs.NewEntityPool(),
		registry:    ecs.NewRegistry(),
		meta:        make(map[ecs.EntityID]entityMeta, 256),
		positions:   ecs.NewStore(ecs.KindPosition, component.NoPosition),
		healths:     ecs.NewStore(ecs.KindHealth, component.NoHealth),
		types:       ecs.NewStore(ecs.KindType, component.NoType),
		owners:      ecs.NewStore(ecs.KindOwner, component.NoOwner),
		experiences: ecs.NewStore(ecs.KindExperience, component.NoExperience),
		inventories: ecs.NewStore(ecs.KindInventory, component.NoInventory),
		viewRadii:   ecs.NewStore(ecs.KindViewRadius, component.NoViewRadius),
		occupancy:   make(map[[2]int]ecs.EntityID, 256),
		phase:       PhaseCommitted,
		defeated:    make(map[ecs.EntityID]bool, 16),
	}
	w.registry.Register(w.positions)
	w.registry.Register(w.healths)
	w.registry.Register(w.types)
	w.registry.Register(w.owners)
	w.registry.Register(w.experiences)
	w.registry.Register(w.inventories)
	w.registry.Register(w.viewRadii)
	return w
}

// ── Phase transitions (driven by the tick scheduler) ──────────────

func (w *World) Phase() Phase { return w.phase }

func (w *World) BeginCollecting() error {
	if w.phase != PhaseCommitted {
		return fmt.Errorf("begin collecting from phase %s", w.phase)
	}
	w.phase = PhaseCollecting
	for id := range w.defeated {
		delete(w.defeated, id)
	}
	return nil
}

func (w *World) BeginTranslating() error {
	if w.phase != PhaseCollecting {
		return fmt.Errorf("begin translating from phase %s", w.phase)
	}
	w.phase = PhaseTranslating
	return nil
}

func (w *World) BeginApplying() error {
	if w.phase != PhaseTranslating {
		return fmt.Errorf("begin applying from phase %s", w.phase)
	}
	w.phase = PhaseApplying
	return nil
}

func (w *World) Commit() error {
	if w.phase != PhaseApplying {
		return fmt.Errorf("commit from phase %s", w.phase)
	}
	w.phase = PhaseCommitted
	w.tick++
	return nil
}

// ── Read access ───────────────────────────────────────────────────

func (w *World) Tick() uint64 { return w.tick }

func (w *World) Bounds() (int, int) { return w.width, w.height }

func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

func (w *World) Alive(id ecs.EntityID) bool { return w.pool.Alive(id) }

// Defines reports whether the kind is part of the entity's declared type.
func (w *World) Defines(id ecs.EntityID, kind ecs.Kind) bool {
	return w.meta[id].mask.Has(kind)
}

// TemplateOf returns the template id the entity was spawned from.
func (w *World) TemplateOf(id ecs.EntityID) string { return w.meta[id].template }

// EntityAt returns the entity occupying the tile, if any.
func (w *World) EntityAt(x, y int) (ecs.EntityID, bool) {
	id, ok := w.occupancy[[2]int{x, y}]
	return id, ok
}

// Entities returns all live entity ids in ascending order. Every consumer
// that iterates the world (checksum, persistence, view frames) goes through
// this so iteration order is never map order.
func (w *World) Entities() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(w.meta))
	for id := range w.meta {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OwnedBy returns the player's live entities in ascending id order.
func (w *World) OwnedBy(player uuid.UUID) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, 8)
	for id := range w.meta {
		if w.owners.Get(id).OwnedBy(player) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *World) PositionOf(id ecs.EntityID) *component.Position     { return w.positions.Get(id) }
func (w *World) HealthOf(id ecs.EntityID) *component.Health         { return w.healths.Get(id) }
func (w *World) TypeOf(id ecs.EntityID) *component.Type             { return w.types.Get(id) }
func (w *World) OwnerOf(id ecs.EntityID) *component.Owner           { return w.owners.Get(id) }
func (w *World) ExperienceOf(id ecs.EntityID) *component.Experience { return w.experiences.Get(id) }
func (w *World) InventoryOf(id ecs.EntityID) *component.Inventory   { return w.inventories.Get(id) }
func (w *World) ViewRadiusOf(id ecs.EntityID) *component.ViewRadius { return w.viewRadii.Get(id) }

// IsDefeated reports whether the entity was marked defeated this tick.
func (w *World) IsDefeated(id ecs.EntityID) bool { return w.defeated[id] }

// Snapshot returns the read-only facade handed to systems and collaborators.
// During Translating nothing mutates, so the facade observes exactly the
// state committed by the previous tick.
func (w *World) Snapshot() *View { return &View{w: w} }

// ── Mutators (action application only) ────────────────────────────

// Spawn creates an entity from a template. Every component slot is
// populated: kinds in the template's mask get a fresh instance, all others
// resolve to the shared absent sentinel. No partially constructed entity is
// ever observable.
func (w *World) Spawn(tmpl *data.EntityTemplate, owner uuid.UUID, x, y int) (ecs.EntityID, error) {
	if w.phase != PhaseApplying {
		return 0, ErrReadOnlyPhase
	}
	if !w.InBounds(x, y) {
		return 0, fmt.Errorf("spawn %s at (%d,%d): %w", tmpl.ID, x, y, ErrOutOfBounds)
	}
	key := [2]int{x, y}
	if _, taken := w.occupancy[key]; taken {
		return 0, fmt.Errorf("spawn %s at (%d,%d): %w", tmpl.ID, x, y, ErrTileBlocked)
	}

	mask := ecs.MaskOf(ecs.KindPosition, ecs.KindType, ecs.KindOwner)
	id := w.pool.Create()
	w.positions.Set(id, component.NewPosition(x, y))
	w.types.Set(id, component.NewType(tmpl.Category, tmpl.Subcategory, tmpl.Caps))
	w.owners.Set(id, component.NewOwner(owner))
	if tmpl.HP > 0 {
		mask |= ecs.MaskOf(ecs.KindHealth)
		w.healths.Set(id, component.NewHealth(tmpl.HP))
	}
	if tmpl.HasExperience() {
		mask |= ecs.MaskOf(ecs.KindExperience)
		w.experiences.Set(id, component.NewExperience())
	}
	if len(tmpl.Items) > 0 || tmpl.Caps.Has(component.CapHarvest) {
		mask |= ecs.MaskOf(ecs.KindInventory)
		seed := make(map[component.Item]int, len(tmpl.Items))
		for item, n := range tmpl.Items {
			seed[component.Item(item)] = n
		}
		w.inventories.Set(id, component.NewInventoryFrom(seed))
	}
	if tmpl.ViewRadius > 0 {
		mask |= ecs.MaskOf(ecs.KindViewRadius)
		w.viewRadii.Set(id, component.NewViewRadius(tmpl.ViewRadius))
	}

	w.meta[id] = entityMeta{mask: mask, template: tmpl.ID}
	w.occupancy[key] = id
	return id, nil
}

// MoveEntity relocates an entity to the given tile. Stale targets are a
// no-op; an occupied destination is an error the scheduler logs and skips.
func (w *World) MoveEntity(id ecs.EntityID, x, y int) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(id) {
		return nil
	}
	if !w.meta[id].mask.Has(ecs.KindPosition) {
		return ecs.ErrInvalidComponentKind
	}
	if !w.InBounds(x, y) {
		return ErrOutOfBounds
	}
	key := [2]int{x, y}
	if occupant, taken := w.occupancy[key]; taken && occupant != id {
		return ErrTileBlocked
	}
	pos := w.positions.Get(id)
	delete(w.occupancy, [2]int{pos.X, pos.Y})
	pos.MoveTo(x, y)
	w.occupancy[key] = id
	return nil
}

// DamageEntity applies a health delta. Not clamped and not deduplicated:
// exactly-once semantics belong to the action queue, not to the write.
func (w *World) DamageEntity(id ecs.EntityID, amount int) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(id) {
		return nil
	}
	if !w.meta[id].mask.Has(ecs.KindHealth) {
		return ecs.ErrInvalidComponentKind
	}
	w.healths.Get(id).Damage(amount)
	return nil
}

func (w *World) GrantExperience(id ecs.EntityID, skill component.Skill, amount int) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(id) {
		return nil
	}
	if !w.meta[id].mask.Has(ecs.KindExperience) {
		return ecs.ErrInvalidComponentKind
	}
	w.experiences.Get(id).Grant(skill, amount)
	return nil
}

// TransferItems moves up to n of an item between two inventories.
func (w *World) TransferItems(from, to ecs.EntityID, item component.Item, n int) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(from) || !w.pool.Alive(to) {
		return nil
	}
	if !w.meta[from].mask.Has(ecs.KindInventory) || !w.meta[to].mask.Has(ecs.KindInventory) {
		return ecs.ErrInvalidComponentKind
	}
	moved := w.inventories.Get(from).Take(item, n)
	w.inventories.Get(to).Add(item, moved)
	return nil
}

// MarkDefeated records the entity in the current tick's defeat journal.
// Marking twice is harmless.
func (w *World) MarkDefeated(id ecs.EntityID) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(id) {
		return nil
	}
	w.defeated[id] = true
	return nil
}

// RemoveEntity destroys an entity, vacates its tile, and clears every
// component store. Removing a stale id is a no-op.
func (w *World) RemoveEntity(id ecs.EntityID) error {
	if w.phase != PhaseApplying {
		return ErrReadOnlyPhase
	}
	if !w.pool.Alive(id) {
		return nil
	}
	pos := w.positions.Get(id)
	if !pos.IsAbsent() {
		key := [2]int{pos.X, pos.Y}
		if w.occupancy[key] == id {
			delete(w.occupancy, key)
		}
	}
	w.registry.RemoveAll(id)
	delete(w.meta, id)
	w.pool.Destroy(id)
	return nil
}
