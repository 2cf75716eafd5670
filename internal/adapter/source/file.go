package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/internal/core/port"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

type topologyDocument struct {
	Components []microgrid.RawComponent `yaml:"components" json:"components"`
}

type dataDocument struct {
	Data []microgrid.RawComponentData `yaml:"data" json:"data"`
}

// FileSource reads microgrid snapshots written by an external collector.
// Files are read again on every call.
type FileSource struct {
	topologyFile string
	dataFile     string
}

func NewFileSource(cfg config.SourceConfig) *FileSource {
	return &FileSource{
		topologyFile: cfg.TopologyFile,
		dataFile:     cfg.DataFile,
	}
}

func (s *FileSource) Components(ctx context.Context) ([]microgrid.RawComponent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc topologyDocument
	if err := decodeFile(s.topologyFile, &doc); err != nil {
		return nil, err
	}
	return doc.Components, nil
}

// ComponentData returns no samples when no data file is configured.
func (s *FileSource) ComponentData(ctx context.Context) ([]microgrid.RawComponentData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.dataFile == "" {
		return nil, nil
	}
	var doc dataDocument
	if err := decodeFile(s.dataFile, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ensure interface compliance
var _ port.ComponentSource = (*FileSource)(nil)
