package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrConflictingComponent = errors.New("conflicting component")
	ErrInvalidComponent     = errors.New("invalid component")
)

// Policy decides which components a topology accepts.
type Policy struct {
	// a positive id component of unspecified category is invalid
	StrictCategories bool
	// invalid components are left out of the topology
	DropInvalid bool
}

func PolicyFromConfig(cfg config.TopologyConfig) Policy {
	return Policy{
		StrictCategories: cfg.StrictCategories,
		DropInvalid:      cfg.DropInvalid,
	}
}

func (p Policy) IsValid(c microgrid.Component) bool {
	if !c.IsValid() {
		return false
	}
	if p.StrictCategories && c.Id > 0 && c.Category == microgrid.ComponentCategoryUnspecified {
		return false
	}
	return true
}

// Topology is an immutable set of components keyed by id.
type Topology struct {
	policy     Policy
	components []microgrid.Component
	byId       map[microgrid.ComponentId]microgrid.Component
}

// BuildTopology translates raw records into a Topology. Records that cannot
// be translated and duplicated ids with a different payload are reported in
// the returned error list; the first record of a conflicting id wins.
func BuildTopology(raws []microgrid.RawComponent, policy Policy, logger *zap.Logger) (*Topology, []error) {
	var problems []error
	seen := make(map[microgrid.ComponentId]microgrid.Component, len(raws))
	t := &Topology{
		policy: policy,
		byId:   make(map[microgrid.ComponentId]microgrid.Component, len(raws)),
	}
	for _, raw := range raws {
		c, err := microgrid.NewComponent(raw)
		if err != nil {
			logger.Debug("topology: skip record", zap.Uint64("id", raw.Id), zap.Error(err))
			problems = append(problems, fmt.Errorf("component %d: %w", raw.Id, err))
			continue
		}
		if prev, ok := seen[c.Key()]; ok {
			if prev.Conflicts(c) {
				logger.Warn("topology: conflicting component", zap.Uint64("id", raw.Id))
				problems = append(problems, fmt.Errorf("%w: %d", ErrConflictingComponent, raw.Id))
			}
			continue
		}
		seen[c.Key()] = c
		if !policy.IsValid(c) {
			problems = append(problems, fmt.Errorf("%w: %d (%s)", ErrInvalidComponent, raw.Id, c.Category))
			if policy.DropInvalid {
				logger.Debug("topology: drop invalid component", zap.Uint64("id", raw.Id))
				continue
			}
		}
		t.byId[c.Key()] = c
		t.components = append(t.components, c)
	}
	sort.Slice(t.components, func(i, j int) bool {
		return t.components[i].Id < t.components[j].Id
	})
	return t, problems
}

// Components returns every component ordered by id.
func (t *Topology) Components() []microgrid.Component {
	return append([]microgrid.Component(nil), t.components...)
}

// Valid returns the components valid under the topology policy.
func (t *Topology) Valid() []microgrid.Component {
	return lo.Filter(t.components, func(c microgrid.Component, _ int) bool {
		return t.policy.IsValid(c)
	})
}

func (t *Topology) IsValid(c microgrid.Component) bool {
	return t.policy.IsValid(c)
}

func (t *Topology) Component(id microgrid.ComponentId) (microgrid.Component, bool) {
	c, ok := t.byId[id]
	return c, ok
}

// Grid returns the grid connection point, preferring the reserved id.
func (t *Topology) Grid() (microgrid.Component, bool) {
	if c, ok := t.byId[0]; ok && c.Category == microgrid.ComponentCategoryGrid {
		return c, true
	}
	return lo.Find(t.components, func(c microgrid.Component) bool {
		return c.Category == microgrid.ComponentCategoryGrid
	})
}

func (t *Topology) ByCategory(category microgrid.ComponentCategory) []microgrid.Component {
	return lo.Filter(t.components, func(c microgrid.Component, _ int) bool {
		return c.Category == category
	})
}

func (t *Topology) Len() int {
	return len(t.components)
}
