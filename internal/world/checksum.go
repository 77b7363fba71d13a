package world

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/wormgrid/server/internal/core/ecs"
)

// Checksum digests the full component state into one xxhash value. Two
// worlds that went through the same translate+apply sequence hash
// identically, which is what the determinism tests (and the per-tick log
// line) compare. Iteration is over sorted entity ids and sorted map keys so
// the digest never depends on Go map order.
func (w *World) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeInt := func(v int) { writeU64(uint64(int64(v))) }

	writeU64(w.tick)
	for _, id := range w.Entities() {
		writeU64(uint64(id))
		meta := w.meta[id]
		writeU64(uint64(meta.mask))
		h.WriteString(meta.template)

		if meta.mask.Has(ecs.KindPosition) {
			pos := w.positions.Get(id)
			writeInt(pos.X)
			writeInt(pos.Y)
		}
		if meta.mask.Has(ecs.KindHealth) {
			hp := w.healths.Get(id)
			writeInt(hp.HP)
			writeInt(hp.MaxHP)
		}
		if meta.mask.Has(ecs.KindType) {
			t := w.types.Get(id)
			writeInt(int(t.Category))
			h.WriteString(t.Subcategory)
			writeInt(int(t.Caps))
		}
		if meta.mask.Has(ecs.KindOwner) {
			o := w.owners.Get(id)
			h.Write(o.Player[:])
		}
		if meta.mask.Has(ecs.KindExperience) {
			exp := w.experiences.Get(id)
			for _, skill := range exp.Skills() {
				h.WriteString(string(skill))
				writeInt(exp.Of(skill))
			}
		}
		if meta.mask.Has(ecs.KindInventory) {
			inv := w.inventories.Get(id)
			for _, item := range inv.Items() {
				h.WriteString(string(item))
				writeInt(inv.Count(item))
			}
		}
		if meta.mask.Has(ecs.KindViewRadius) {
			writeInt(w.viewRadii.Get(id).Radius())
		}
	}
	return h.Sum64()
}
