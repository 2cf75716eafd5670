package events

import (
	"fmt"

	. "github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

// SensorId names the sensor of one metric of a component.
func SensorId(c microgrid.Component, metric microgrid.ComponentMetricId) string {
	return fmt.Sprintf("%s_%d_%s", c.Category, c.Id, metric.Key())
}

// ComponentDataToUpdateEvents returns one float update per available metric
// of data.
func ComponentDataToUpdateEvents(c microgrid.Component, data microgrid.ComponentData) []any {
	var events []any
	for _, metric := range data.MetricIds() {
		value, ok := data.Metric(metric)
		if !ok {
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SensorId(c, metric),
			},
			Value:    value,
			Decimals: metricDecimals(metric),
		})
	}
	return events
}

func metricDecimals(metric microgrid.ComponentMetricId) uint {
	switch metric.Unit() {
	case microgrid.UnitHertz:
		return 2
	case microgrid.UnitPercent, microgrid.UnitCelsius:
		return 1
	case microgrid.UnitWattHour:
		return 0
	default:
		return 2
	}
}
