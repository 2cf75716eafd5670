package microgrid

import "errors"

var (
	// ErrInvalidCategory is returned when a wire category denotes something
	// that is not a microgrid component (sensors).
	ErrInvalidCategory = errors.New("microgrid: invalid component category")
	// ErrUnknownMetric is returned when a metric key is not part of the
	// metric id set.
	ErrUnknownMetric = errors.New("microgrid: unknown metric")
	// ErrNoComponentData is returned for a data sample without payload.
	ErrNoComponentData = errors.New("microgrid: no component data")
)
