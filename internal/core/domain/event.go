package domain

import (
	"fmt"

	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

// TopologyUpdatedEvent is published on the event stream every time the
// topology is (re)loaded. Components holds the valid components only.
type TopologyUpdatedEvent struct {
	Components []microgrid.Component
}

// ensure interface compliance
var _ SensorUpdateEvent = FloatSensorUpdateEvent{}
