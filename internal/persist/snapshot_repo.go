package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/world"
)

// SnapshotRepo serializes committed world state. One snapshot per tick, all
// rows in a single transaction; a failed save leaves no partial snapshot.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes a full snapshot of the committed state behind the view.
// Complex components (experience, inventory) are special-cased into their
// own tables since their mappings are per-entity, never shared defaults.
func (r *SnapshotRepo) Save(ctx context.Context, v *world.View) error {
	tick := v.Tick()
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO snapshots (tick, checksum) VALUES ($1, $2)
		 ON CONFLICT (tick) DO UPDATE SET checksum = EXCLUDED.checksum`,
		int64(tick), int64(v.Checksum()),
	); err != nil {
		return fmt.Errorf("snapshot insert tick %d: %w", tick, err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM snapshot_entities WHERE tick = $1`, int64(tick),
	); err != nil {
		return fmt.Errorf("snapshot clear tick %d: %w", tick, err)
	}

	for _, id := range v.Entities() {
		if err := r.saveEntity(ctx, tx, v, tick, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SnapshotRepo) saveEntity(ctx context.Context, tx pgx.Tx, v *world.View, tick uint64, id ecs.EntityID) error {
	pos := v.PositionOf(id)
	t := v.TypeOf(id)

	var hp, maxHP, radius *int
	if v.Defines(id, ecs.KindHealth) {
		h := v.HealthOf(id)
		hp, maxHP = &h.HP, &h.MaxHP
	}
	if v.Defines(id, ecs.KindViewRadius) {
		rad := v.ViewRadiusOf(id).Radius()
		radius = &rad
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO snapshot_entities
		   (tick, entity_id, template, category, subcategory, owner, x, y, hp, max_hp, view_radius)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		int64(tick), int64(id), v.TemplateOf(id), t.Category.String(), t.Subcategory,
		v.OwnerOf(id).Player, pos.X, pos.Y, hp, maxHP, radius,
	); err != nil {
		return fmt.Errorf("snapshot entity %d: %w", id, err)
	}

	if v.Defines(id, ecs.KindExperience) {
		exp := v.ExperienceOf(id)
		for _, skill := range exp.Skills() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO snapshot_experience (tick, entity_id, skill, points)
				 VALUES ($1, $2, $3, $4)`,
				int64(tick), int64(id), string(skill), exp.Of(skill),
			); err != nil {
				return fmt.Errorf("snapshot experience %d: %w", id, err)
			}
		}
	}
	if v.Defines(id, ecs.KindInventory) {
		inv := v.InventoryOf(id)
		for _, item := range inv.Items() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO snapshot_items (tick, entity_id, item, count)
				 VALUES ($1, $2, $3, $4)`,
				int64(tick), int64(id), string(item), inv.Count(item),
			); err != nil {
				return fmt.Errorf("snapshot items %d: %w", id, err)
			}
		}
	}
	return nil
}
