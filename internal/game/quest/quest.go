// Package quest defines the quest catalog: timed solo activities with a
// numeric cost/duration contract. Catalog content is loaded from YAML files
// the same way zone content used to be; the engine only consumes the numbers
// and the kind tag.
package quest

import (
	"fmt"
	"sort"
	"time"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// Kind selects the completion behavior wired in the engine.
type Kind string

const (
	// KindWander rolls a random quality outcome on completion.
	KindWander Kind = "wander"
	// KindThieve tries to rob the town and may get the thief noticed.
	KindThieve Kind = "thieve"
)

// Quest is one catalog entry. ID doubles as the player activity state and
// the cooldown kind while the quest is running, so it must be positive.
type Quest struct {
	ID            player.State
	Kind          Kind
	Name          string
	Command       string
	Description   string
	PartingMsg    string
	Duration      time.Duration
	StaminaCost   int
	RequiredLevel int
}

// Validate checks the catalog entry invariants.
func (q *Quest) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("quest %q: id must be positive, got %d", q.Name, q.ID)
	}
	if q.Kind != KindWander && q.Kind != KindThieve {
		return fmt.Errorf("quest %q: unknown kind %q", q.Name, q.Kind)
	}
	if q.Name == "" {
		return fmt.Errorf("quest %d: name must not be empty", q.ID)
	}
	if q.Duration <= 0 {
		return fmt.Errorf("quest %q: duration must be positive", q.Name)
	}
	if q.StaminaCost < 0 {
		return fmt.Errorf("quest %q: stamina cost must not be negative", q.Name)
	}
	if q.RequiredLevel < 0 {
		return fmt.Errorf("quest %q: required level must not be negative", q.Name)
	}
	return nil
}

// Catalog is the immutable set of loaded quests keyed by ID.
type Catalog struct {
	byID map[player.State]*Quest
}

// NewCatalog builds a catalog from validated quests.
//
// Postcondition: returns an error on duplicate IDs or invalid entries.
func NewCatalog(quests []*Quest) (*Catalog, error) {
	byID := make(map[player.State]*Quest, len(quests))
	for _, q := range quests {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quest id %d", q.ID)
		}
		byID[q.ID] = q
	}
	return &Catalog{byID: byID}, nil
}

// Get returns the quest with the given ID, or nil.
func (c *Catalog) Get(id player.State) *Quest {
	return c.byID[id]
}

// All returns every quest ordered by ID.
func (c *Catalog) All() []*Quest {
	out := make([]*Quest, 0, len(c.byID))
	for _, q := range c.byID {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AvailableTo returns the quests the given level may start, ordered by ID.
func (c *Catalog) AvailableTo(level int) []*Quest {
	var out []*Quest
	for _, q := range c.All() {
		if q.RequiredLevel <= level {
			out = append(out, q)
		}
	}
	return out
}
