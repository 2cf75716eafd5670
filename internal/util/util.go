package util

import (
	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Source: config.SourceConfig{
			TopologyFile:       "topology.yaml",
			PollIntervalMillis: 250,
			LoadTimeoutMillis:  1000,
		},
		Topology: config.TopologyConfig{
			StrictCategories: false,
			DropInvalid:      true,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "microgrid",
			HADiscoveryTopic: "homeassistant",
		},
		Port: 8080,
	}
}

// TestComponents is a small microgrid: a grid connection point, its meter,
// a solar inverter, a battery with its inverter and an EV charger.
func TestComponents() []microgrid.RawComponent {
	return []microgrid.RawComponent{
		{Id: 0, Name: "grid", Category: microgrid.RawComponentCategoryGrid,
			Metadata: microgrid.RawComponentMetadata{Grid: &microgrid.RawGridMetadata{RatedFuseCurrent: 63}}},
		{Id: 4, Name: "main meter", Category: microgrid.RawComponentCategoryMeter},
		{Id: 8, Name: "PV West", Category: microgrid.RawComponentCategoryInverter,
			Metadata: microgrid.RawComponentMetadata{Inverter: &microgrid.RawInverterMetadata{Type: microgrid.RawInverterTypeSolar}}},
		{Id: 9, Name: "battery inverter", Category: microgrid.RawComponentCategoryInverter,
			Metadata: microgrid.RawComponentMetadata{Inverter: &microgrid.RawInverterMetadata{Type: microgrid.RawInverterTypeBattery}}},
		{Id: 10, Name: "battery", Category: microgrid.RawComponentCategoryBattery},
		{Id: 12, Name: "wallbox", Category: microgrid.RawComponentCategoryEVCharger,
			Metadata: microgrid.RawComponentMetadata{EVCharger: &microgrid.RawEVChargerMetadata{Type: microgrid.RawEVChargerTypeAC}}},
		{Id: 30, Name: "temperature", Category: microgrid.RawComponentCategorySensor},
	}
}

// ResolvedTestComponents is TestComponents without the records that do not
// resolve to a component.
func ResolvedTestComponents() []microgrid.Component {
	return lo.FilterMap(TestComponents(), func(raw microgrid.RawComponent, _ int) (microgrid.Component, bool) {
		c, err := microgrid.NewComponent(raw)
		return c, err == nil
	})
}

// TestComponentData holds one sample for the meter and the battery, plus one
// for an id outside the topology.
func TestComponentData() []microgrid.RawComponentData {
	return []microgrid.RawComponentData{
		{Id: 4, Meter: &microgrid.RawMeterData{AC: microgrid.RawAC{
			Frequency:   microgrid.RawMetric{Value: 50},
			PowerActive: microgrid.RawMetric{Value: 1500},
		}}},
		{Id: 10, Battery: &microgrid.RawBatteryData{
			Soc:      microgrid.RawMetric{Value: 42, SystemInclusionBounds: &microgrid.RawBounds{Lower: 10, Upper: 90}},
			Capacity: 5120,
		}},
		{Id: 99, Meter: &microgrid.RawMeterData{}},
	}
}
