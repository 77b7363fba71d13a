package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/data"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
)

var alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")

var wormTmpl = &data.EntityTemplate{
	ID:         "worm",
	Category:   component.CategoryWorker,
	Caps:       component.Caps(component.CapMove, component.CapHarvest),
	HP:         10,
	ViewRadius: 2,
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player.lua")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func buildView(t *testing.T, spawnX, spawnY int) *world.View {
	t.Helper()
	w := world.New(8, 8, zap.NewNop())
	require.NoError(t, w.BeginCollecting())
	require.NoError(t, w.BeginTranslating())
	require.NoError(t, w.BeginApplying())
	_, err := w.Spawn(wormTmpl, alice, spawnX, spawnY)
	require.NoError(t, err)
	require.NoError(t, w.Commit())
	return w.Snapshot()
}

func TestLoadPlayer_RequiresOnTick(t *testing.T) {
	e := NewEngine(zap.NewNop())
	defer e.Close()

	err := e.LoadPlayer(alice, writeScript(t, `local x = 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_tick")

	err = e.LoadPlayer(alice, writeScript(t, `function on_tick(api) end`))
	assert.NoError(t, err)
}

func TestProduce_ScriptAppendsRequests(t *testing.T) {
	e := NewEngine(zap.NewNop())
	defer e.Close()
	require.NoError(t, e.LoadPlayer(alice, writeScript(t, `
		function on_tick(api)
			for _, worm in ipairs(api.entities) do
				local x, y = worm.position()
				worm.move(x + 1, y)
			end
		end
	`)))

	v := buildView(t, 3, 3)
	q := request.NewQueue()
	q.Open()
	e.Produce(v, q)
	q.Close()

	reqs := q.Drain()
	require.Len(t, reqs, 1)
	mv := reqs[0].(*request.Move)
	assert.Equal(t, alice, mv.Player())
	assert.Equal(t, [2]int{4, 3}, [2]int{mv.ToX, mv.ToY})
}

func TestProduce_ReadAccessorsReachTheSnapshot(t *testing.T) {
	e := NewEngine(zap.NewNop())
	defer e.Close()
	// Script asserts on the Lua side and only issues the move when every
	// read checks out.
	require.NoError(t, e.LoadPlayer(alice, writeScript(t, `
		function on_tick(api)
			assert(api.width == 8 and api.height == 8)
			local worm = api.entities[1]
			assert(worm.category == "worker")
			local hp, max = worm.health()
			assert(hp == 10 and max == 10)
			assert(worm.experience("HARVEST") == 0)
			assert(worm.view_radius() == 2)

			local tile = worm.look(3, 3)
			assert(tile.entity == worm.id)
			assert(worm.look(7, 7) == nil, "out of view radius")

			worm.move(2, 3)
		end
	`)))

	v := buildView(t, 3, 3)
	q := request.NewQueue()
	q.Open()
	e.Produce(v, q)
	q.Close()
	assert.Len(t, q.Drain(), 1, "script assertions all passed")
}

func TestProduce_CapabilityRefusalSurfacesInLua(t *testing.T) {
	e := NewEngine(zap.NewNop())
	defer e.Close()
	require.NoError(t, e.LoadPlayer(alice, writeScript(t, `
		function on_tick(api)
			local worm = api.entities[1]
			local ok, err = worm.attack(4, 3)
			assert(not ok)
			assert(string.find(err, "capability"))
		end
	`)))

	v := buildView(t, 3, 3)
	q := request.NewQueue()
	q.Open()
	e.Produce(v, q)
	q.Close()
	assert.Empty(t, q.Drain())
}

func TestProduce_ScriptErrorCostsOnlyThatPlayer(t *testing.T) {
	bob := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	e := NewEngine(zap.NewNop())
	defer e.Close()
	require.NoError(t, e.LoadPlayer(alice, writeScript(t, `
		function on_tick(api)
			error("deliberate")
		end
	`)))
	require.NoError(t, e.LoadPlayer(bob, writeScript(t, `
		function on_tick(api)
			for _, worm in ipairs(api.entities) do
				worm.move(5, 4)
			end
		end
	`)))

	w := world.New(8, 8, zap.NewNop())
	require.NoError(t, w.BeginCollecting())
	require.NoError(t, w.BeginTranslating())
	require.NoError(t, w.BeginApplying())
	_, err := w.Spawn(wormTmpl, alice, 1, 1)
	require.NoError(t, err)
	_, err = w.Spawn(wormTmpl, bob, 5, 5)
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	q := request.NewQueue()
	q.Open()
	e.Produce(w.Snapshot(), q)
	q.Close()

	reqs := q.Drain()
	require.Len(t, reqs, 1)
	assert.Equal(t, bob, reqs[0].Player())
}
