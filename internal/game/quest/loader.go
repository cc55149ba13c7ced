package quest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// yamlQuestFile is the top-level YAML structure for quest files.
type yamlQuestFile struct {
	Quest yamlQuest `yaml:"quest"`
}

// yamlQuest is the YAML representation of a catalog entry.
type yamlQuest struct {
	ID            int          `yaml:"id"`
	Kind          string       `yaml:"kind"`
	Name          string       `yaml:"name"`
	Command       string       `yaml:"command"`
	Description   string       `yaml:"description"`
	PartingMsg    string       `yaml:"parting_msg"`
	Duration      yamlDuration `yaml:"duration"`
	StaminaCost   int          `yaml:"stamina_cost"`
	RequiredLevel int          `yaml:"required_level"`
}

// yamlDuration accepts Go duration strings ("3m") or plain integer seconds.
type yamlDuration time.Duration

func (d *yamlDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parsing duration %q: %w", s, err)
		}
		*d = yamlDuration(parsed)
		return nil
	}
	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("duration must be a string or integer seconds: %w", err)
	}
	*d = yamlDuration(time.Duration(secs) * time.Second)
	return nil
}

// LoadFromBytes parses and validates one quest from YAML bytes.
func LoadFromBytes(data []byte) (*Quest, error) {
	var file yamlQuestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing quest YAML: %w", err)
	}
	q := &Quest{
		ID:            player.State(file.Quest.ID),
		Kind:          Kind(file.Quest.Kind),
		Name:          file.Quest.Name,
		Command:       file.Quest.Command,
		Description:   file.Quest.Description,
		PartingMsg:    file.Quest.PartingMsg,
		Duration:      time.Duration(file.Quest.Duration),
		StaminaCost:   file.Quest.StaminaCost,
		RequiredLevel: file.Quest.RequiredLevel,
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("validating quest: %w", err)
	}
	return q, nil
}

// LoadFromFile reads and validates a single quest YAML file.
func LoadFromFile(path string) (*Quest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading quest file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadCatalogFromDir loads every YAML file in dir into a catalog.
//
// Postcondition: returns the validated catalog or the first error hit.
func LoadCatalogFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading quest directory %s: %w", dir, err)
	}

	var quests []*Quest
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		q, err := LoadFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return NewCatalog(quests)
}
