package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topologyYAML = `components:
  - id: 0
    name: grid
    category: 1
    metadata:
      grid:
        rated_fuse_current: 63
  - id: 8
    name: PV West
    category: 3
    metadata:
      inverter:
        type: 2
  - id: 12
    name: wallbox
    category: 6
    metadata:
      ev_charger:
        type: 1
`

const dataYAML = `data:
  - id: 8
    ts: 2024-03-01T12:00:00Z
    inverter:
      component_state: 3
      ac:
        frequency:
          value: 50
        power_active:
          value: -1200
          system_inclusion_bounds:
            lower: -5000
            upper: 0
`

const topologyJSON = `{"components": [
  {"id": 5, "name": "bat", "category": 5, "metadata": {}},
  {"id": 3, "name": "sensor", "category": 7, "metadata": {}}
]}`

const dataJSON = `{"data": [
  {"id": 5, "ts": "2024-03-01T12:00:00Z", "battery": {"soc": {"value": 42, "system_inclusion_bounds": {"lower": 10, "upper": 90}}, "capacity": 5120}}
]}`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceYAML(t *testing.T) {
	src := NewFileSource(config.SourceConfig{
		TopologyFile: writeFile(t, "topology.yaml", topologyYAML),
		DataFile:     writeFile(t, "data.yml", dataYAML),
	})

	components, err := src.Components(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 3)
	assert.Equal(t, microgrid.RawComponentCategoryGrid, components[0].Category)
	require.NotNil(t, components[0].Metadata.Grid)
	assert.Equal(t, 63.0, components[0].Metadata.Grid.RatedFuseCurrent)
	require.NotNil(t, components[1].Metadata.Inverter)
	assert.Equal(t, microgrid.RawInverterTypeSolar, components[1].Metadata.Inverter.Type)
	require.NotNil(t, components[2].Metadata.EVCharger)
	assert.Nil(t, components[2].Metadata.Inverter)

	data, err := src.ComponentData(context.Background())
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.True(t, data[0].Timestamp.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.NotNil(t, data[0].Inverter)
	assert.Equal(t, -1200.0, data[0].Inverter.AC.PowerActive.Value)
	require.NotNil(t, data[0].Inverter.AC.PowerActive.SystemInclusionBounds)
	assert.Nil(t, data[0].Inverter.AC.PowerActive.SystemExclusionBounds)
}

func TestFileSourceJSON(t *testing.T) {
	src := NewFileSource(config.SourceConfig{
		TopologyFile: writeFile(t, "topology.json", topologyJSON),
		DataFile:     writeFile(t, "data.json", dataJSON),
	})

	components, err := src.Components(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, microgrid.RawComponentCategorySensor, components[1].Category)

	data, err := src.ComponentData(context.Background())
	require.NoError(t, err)
	require.Len(t, data, 1)
	require.NotNil(t, data[0].Battery)
	assert.Equal(t, 42.0, data[0].Battery.Soc.Value)
	assert.Equal(t, 5120.0, data[0].Battery.Capacity)
}

func TestFileSourceWithoutDataFile(t *testing.T) {
	src := NewFileSource(config.SourceConfig{
		TopologyFile: writeFile(t, "topology.yaml", topologyYAML),
	})
	data, err := src.ComponentData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileSourceErrors(t *testing.T) {
	src := NewFileSource(config.SourceConfig{TopologyFile: writeFile(t, "topology.toml", "x = 1")})
	_, err := src.Components(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	src = NewFileSource(config.SourceConfig{TopologyFile: filepath.Join(t.TempDir(), "missing.yaml")})
	_, err = src.Components(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	src = NewFileSource(config.SourceConfig{TopologyFile: writeFile(t, "broken.json", "{")})
	_, err = src.Components(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Components(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource([]microgrid.RawComponent{{Id: 1, Category: microgrid.RawComponentCategoryMeter}}, nil)
	components, err := src.Components(context.Background())
	require.NoError(t, err)
	assert.Len(t, components, 1)

	src.SetData([]microgrid.RawComponentData{{Id: 1}})
	data, err := src.ComponentData(context.Background())
	require.NoError(t, err)
	assert.Len(t, data, 1)

	boom := errors.New("boom")
	src.SetError(boom)
	_, err = src.Components(context.Background())
	assert.ErrorIs(t, err, boom)
}
