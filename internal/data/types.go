package data

import (
	"fmt"
	"os"

	"github.com/wormgrid/server/internal/component"
	"gopkg.in/yaml.v3"
)

// EntityTemplate holds static data for one entity type loaded from YAML.
// Category and Capabilities are resolved at load time so spawning never
// parses strings.
type EntityTemplate struct {
	ID          string         `yaml:"id"`
	CategoryRaw string         `yaml:"category"`
	Subcategory string         `yaml:"subcategory"`
	CapsRaw     []string       `yaml:"capabilities"`
	HP          int            `yaml:"hp"`
	ViewRadius  int            `yaml:"view_radius"`
	Items       map[string]int `yaml:"items"`

	Category component.Category `yaml:"-"`
	Caps     component.CapSet   `yaml:"-"`
}

// HasExperience reports whether entities of this type carry an experience
// mapping. Only types with at least one trainable capability do.
func (t *EntityTemplate) HasExperience() bool {
	return t.Caps.Has(component.CapAttack) || t.Caps.Has(component.CapHarvest)
}

type typeListFile struct {
	Types []*EntityTemplate `yaml:"types"`
}

// TypeTable holds all entity templates indexed by template ID.
type TypeTable struct {
	byID map[string]*EntityTemplate
}

func (t *TypeTable) Get(id string) (*EntityTemplate, bool) {
	tmpl, ok := t.byID[id]
	return tmpl, ok
}

func (t *TypeTable) Count() int { return len(t.byID) }

// LoadTypeTable reads and validates the entity type definitions.
func LoadTypeTable(path string) (*TypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type table %s: %w", path, err)
	}
	var file typeListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse type table %s: %w", path, err)
	}

	table := &TypeTable{byID: make(map[string]*EntityTemplate, len(file.Types))}
	for _, tmpl := range file.Types {
		if tmpl.ID == "" {
			return nil, fmt.Errorf("type table %s: template without id", path)
		}
		if _, dup := table.byID[tmpl.ID]; dup {
			return nil, fmt.Errorf("type table %s: duplicate template %q", path, tmpl.ID)
		}
		cat, err := component.ParseCategory(tmpl.CategoryRaw)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tmpl.ID, err)
		}
		tmpl.Category = cat
		for _, name := range tmpl.CapsRaw {
			cap, err := component.ParseCapability(name)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", tmpl.ID, err)
			}
			tmpl.Caps |= component.Caps(cap)
		}
		if tmpl.Caps.Has(component.CapMove) && tmpl.Category != component.CategoryWorker {
			return nil, fmt.Errorf("template %q: category %s cannot move", tmpl.ID, tmpl.Category)
		}
		table.byID[tmpl.ID] = tmpl
	}
	return table, nil
}
