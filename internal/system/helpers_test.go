package system

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/data"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
)

var (
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

var (
	wormTmpl = &data.EntityTemplate{
		ID:       "worm",
		Category: component.CategoryWorker,
		Caps:     component.Caps(component.CapMove, component.CapHarvest),
		HP:       20,
	}
	soldierTmpl = &data.EntityTemplate{
		ID:       "soldier_worm",
		Category: component.CategoryWorker,
		Caps:     component.Caps(component.CapMove, component.CapAttack),
		HP:       30,
	}
	boulderTmpl = &data.EntityTemplate{
		ID:       "boulder",
		Category: component.CategoryObstacle,
	}
)

func foodTmpl(n int) *data.EntityTemplate {
	return &data.EntityTemplate{
		ID:       "food_pile",
		Category: component.CategoryResource,
		Items:    map[string]int{"food": n},
	}
}

type spawn struct {
	tmpl  *data.EntityTemplate
	owner uuid.UUID
	x, y  int
}

// buildWorld commits a world holding the given spawns and returns the
// created ids in order.
func buildWorld(t *testing.T, width, height int, spawns ...spawn) (*world.World, []ecs.EntityID) {
	t.Helper()
	w := world.New(width, height, zap.NewNop())
	require.NoError(t, w.BeginCollecting())
	require.NoError(t, w.BeginTranslating())
	require.NoError(t, w.BeginApplying())
	ids := make([]ecs.EntityID, 0, len(spawns))
	for _, s := range spawns {
		id, err := w.Spawn(s.tmpl, s.owner, s.x, s.y)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, w.Commit())
	return w, ids
}
