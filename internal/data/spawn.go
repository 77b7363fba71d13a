package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry places one entity of a template at boot. Owner is a player
// UUID string; empty means the Environment pseudo-player.
type SpawnEntry struct {
	Template string `yaml:"template"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Owner    string `yaml:"owner"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// LoadSpawnList reads the boot-time spawn placements.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list %s: %w", path, err)
	}
	var file spawnListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse spawn list %s: %w", path, err)
	}
	return file.Spawns, nil
}
