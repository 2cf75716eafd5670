package source

import (
	"context"
	"sync"

	"github.com/berfenger/microgrid2mqtt/internal/core/port"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

// StaticSource serves fixed records, the records can be replaced at any time.
type StaticSource struct {
	mu         sync.RWMutex
	components []microgrid.RawComponent
	data       []microgrid.RawComponentData
	err        error
}

func NewStaticSource(components []microgrid.RawComponent, data []microgrid.RawComponentData) *StaticSource {
	return &StaticSource{
		components: components,
		data:       data,
	}
}

func (s *StaticSource) Components(ctx context.Context) ([]microgrid.RawComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]microgrid.RawComponent(nil), s.components...), nil
}

func (s *StaticSource) ComponentData(ctx context.Context) ([]microgrid.RawComponentData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]microgrid.RawComponentData(nil), s.data...), nil
}

func (s *StaticSource) SetComponents(components []microgrid.RawComponent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = components
}

func (s *StaticSource) SetData(data []microgrid.RawComponentData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// SetError makes every call fail with err until it is reset with nil.
func (s *StaticSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// ensure interface compliance
var _ port.ComponentSource = (*StaticSource)(nil)
