package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/component"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTypeTable_ResolvesCategoriesAndCaps(t *testing.T) {
	table, err := LoadTypeTable(writeYAML(t, `
types:
  - id: worm
    category: worker
    capabilities: [move, harvest]
    hp: 10
    view_radius: 2
  - id: crystal_vein
    category: resource
    subcategory: mineral
    items:
      crystal: 40
  - id: boulder
    category: obstacle
`))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Count())

	worm, ok := table.Get("worm")
	require.True(t, ok)
	assert.Equal(t, component.CategoryWorker, worm.Category)
	assert.True(t, worm.Caps.Has(component.CapMove))
	assert.True(t, worm.Caps.Has(component.CapHarvest))
	assert.False(t, worm.Caps.Has(component.CapAttack))
	assert.True(t, worm.HasExperience())

	vein, ok := table.Get("crystal_vein")
	require.True(t, ok)
	assert.Equal(t, "mineral", vein.Subcategory)
	assert.Equal(t, 40, vein.Items["crystal"])
	assert.False(t, vein.HasExperience())

	_, ok = table.Get("ghost")
	assert.False(t, ok)
}

func TestLoadTypeTable_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "types:\n  - category: worker\n",
			want: "without id",
		},
		{
			name: "duplicate id",
			yaml: "types:\n  - id: worm\n    category: worker\n  - id: worm\n    category: worker\n",
			want: "duplicate",
		},
		{
			name: "unknown category",
			yaml: "types:\n  - id: worm\n    category: vehicle\n",
			want: "category",
		},
		{
			name: "unknown capability",
			yaml: "types:\n  - id: worm\n    category: worker\n    capabilities: [fly]\n",
			want: "capability",
		},
		{
			name: "moving resource",
			yaml: "types:\n  - id: rolling_stone\n    category: resource\n    capabilities: [move]\n",
			want: "cannot move",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTypeTable(writeYAML(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadSpawnList(t *testing.T) {
	spawns, err := LoadSpawnList(writeYAML(t, `
spawns:
  - template: worm
    x: 3
    y: 4
    owner: 11111111-1111-1111-1111-111111111111
  - template: boulder
    x: 5
    y: 5
`))
	require.NoError(t, err)
	require.Len(t, spawns, 2)
	assert.Equal(t, SpawnEntry{Template: "worm", X: 3, Y: 4,
		Owner: "11111111-1111-1111-1111-111111111111"}, spawns[0])
	assert.Empty(t, spawns[1].Owner, "ownerless spawns belong to the environment")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadTypeTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	_, err = LoadSpawnList(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
