package port

import (
	"context"

	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

// ComponentSource provides the wire records of a microgrid.
type ComponentSource interface {
	Components(ctx context.Context) ([]microgrid.RawComponent, error)
	ComponentData(ctx context.Context) ([]microgrid.RawComponentData, error)
}
