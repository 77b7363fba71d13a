// Package scripting is the script-execution collaborator: it drives player
// Lua scripts once per tick against the committed snapshot and turns their
// wrapper calls into queued requests. The core pipeline never depends on
// this package — any front-end that speaks the wrapper interface works.
package scripting

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
	"github.com/wormgrid/server/internal/wrapper"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine holds one Lua VM per player. Scripts from different players never
// share a VM; each sees only wrappers over its own entities. Single-
// goroutine access (game loop).
type Engine struct {
	log     *zap.Logger
	players map[uuid.UUID]*playerScript
}

type playerScript struct {
	id   uuid.UUID
	path string
	vm   *lua.LState
	fn   lua.LValue
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{
		log:     log,
		players: make(map[uuid.UUID]*playerScript, 8),
	}
}

// LoadPlayer compiles a player's script and resolves its on_tick entry
// point. Called once at boot per configured player.
func (e *Engine) LoadPlayer(id uuid.UUID, path string) error {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return fmt.Errorf("load script %s: %w", path, err)
	}
	fn := vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		vm.Close()
		return fmt.Errorf("script %s: missing on_tick function", path)
	}

	e.players[id] = &playerScript{id: id, path: path, vm: vm, fn: fn}
	e.log.Debug("loaded player script",
		zap.String("player", id.String()),
		zap.String("file", path))
	return nil
}

func (e *Engine) Close() {
	for _, p := range e.players {
		p.vm.Close()
	}
}

// Produce implements engine.Producer: it runs every player's on_tick
// against the snapshot. A script error costs that player its turn, never
// the tick.
func (e *Engine) Produce(v *world.View, q *request.Queue) {
	ids := make([]uuid.UUID, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		p := e.players[id]
		api := e.buildAPI(p.vm, v, q, p.id)
		if err := p.vm.CallByParam(lua.P{
			Fn:      p.fn,
			NRet:    0,
			Protect: true,
		}, api); err != nil {
			e.log.Warn("player script failed",
				zap.String("player", p.id.String()),
				zap.String("file", p.path),
				zap.Error(err))
		}
	}
}

// buildAPI assembles the per-tick api table: world reads plus one handle
// per owned entity.
func (e *Engine) buildAPI(vm *lua.LState, v *world.View, q *request.Queue, player uuid.UUID) *lua.LTable {
	api := vm.NewTable()
	api.RawSetString("tick", lua.LNumber(v.Tick()))

	width, height := v.Bounds()
	api.RawSetString("width", lua.LNumber(width))
	api.RawSetString("height", lua.LNumber(height))

	entities := vm.NewTable()
	for _, id := range v.OwnedBy(player) {
		wr, err := wrapper.For(v, q, player, id)
		if err != nil {
			continue
		}
		entities.Append(e.buildHandle(vm, v, wr))
	}
	api.RawSetString("entities", entities)
	return api
}

func (e *Engine) buildHandle(vm *lua.LState, v *world.View, wr *wrapper.Wrapper) *lua.LTable {
	h := vm.NewTable()
	h.RawSetString("id", lua.LNumber(wr.ID()))

	cat, sub := wr.Type()
	h.RawSetString("category", lua.LString(cat.String()))
	h.RawSetString("subcategory", lua.LString(sub))

	h.RawSetString("position", vm.NewFunction(func(L *lua.LState) int {
		x, y := wr.Position()
		L.Push(lua.LNumber(x))
		L.Push(lua.LNumber(y))
		return 2
	}))
	h.RawSetString("health", vm.NewFunction(func(L *lua.LState) int {
		hp, max := wr.Health()
		L.Push(lua.LNumber(hp))
		L.Push(lua.LNumber(max))
		return 2
	}))
	h.RawSetString("experience", vm.NewFunction(func(L *lua.LState) int {
		skill := component.Skill(L.CheckString(1))
		L.Push(lua.LNumber(wr.Experience(skill)))
		return 1
	}))
	h.RawSetString("item_count", vm.NewFunction(func(L *lua.LState) int {
		item := component.Item(L.CheckString(1))
		L.Push(lua.LNumber(wr.ItemCount(item)))
		return 1
	}))
	h.RawSetString("view_radius", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(wr.ViewRadius()))
		return 1
	}))
	h.RawSetString("look", vm.NewFunction(func(L *lua.LState) int {
		x := int(L.CheckNumber(1))
		y := int(L.CheckNumber(2))
		L.Push(describeTile(vm, v, wr, x, y))
		return 1
	}))

	h.RawSetString("move", actionMethod(vm, wr.Move))
	h.RawSetString("attack", actionMethod(vm, wr.Attack))
	h.RawSetString("harvest", actionMethod(vm, wr.Harvest))
	return h
}

// actionMethod adapts a wrapper action to Lua's (ok, err) convention.
func actionMethod(vm *lua.LState, fn func(x, y int) error) *lua.LFunction {
	return vm.NewFunction(func(L *lua.LState) int {
		x := int(L.CheckNumber(1))
		y := int(L.CheckNumber(2))
		if err := fn(x, y); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LTrue)
		return 1
	})
}

// describeTile reports what the entity sees on a tile, or nil when the
// tile is outside its view radius.
func describeTile(vm *lua.LState, v *world.View, wr *wrapper.Wrapper, x, y int) lua.LValue {
	ex, ey := wr.Position()
	pos := component.NewPosition(ex, ey)
	if pos.Chebyshev(x, y) > wr.ViewRadius() {
		return lua.LNil
	}
	t := vm.NewTable()
	t.RawSetString("x", lua.LNumber(x))
	t.RawSetString("y", lua.LNumber(y))
	if !v.InBounds(x, y) {
		t.RawSetString("blocked", lua.LTrue)
		return t
	}
	if id, ok := v.EntityAt(x, y); ok {
		t.RawSetString("entity", lua.LNumber(id))
		t.RawSetString("category", lua.LString(v.TypeOf(id).Category.String()))
		if v.Defines(id, ecs.KindHealth) {
			t.RawSetString("hp", lua.LNumber(v.HealthOf(id).HP))
		}
	}
	return t
}
