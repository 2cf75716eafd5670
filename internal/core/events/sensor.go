package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	. "github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gosimple/slug"
)

const (
	SENSOR_ID_BRIDGE_STATE      = "bridge"
	STATE_CLASS_MEASUREMENT     = "measurement"
	DEVICE_CLASS_BATTERY        = "battery"
	DEVICE_CLASS_CURRENT        = "current"
	DEVICE_CLASS_ENERGY_STORAGE = "energy_storage"
	DEVICE_CLASS_FREQUENCY      = "frequency"
	DEVICE_CLASS_POWER          = "power"
	DEVICE_CLASS_TEMPERATURE    = "temperature"
	DEVICE_CLASS_VOLTAGE        = "voltage"
	DEVICE_CLASS_CONNECTIVITY   = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC     = "diagnostic"
	SENSOR_TYPE_SENSOR          = "sensor"
	SENSOR_TYPE_BINARY          = "binary_sensor"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("microgrid_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Microgrid2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Microgrid %s", md5HashShort(baseTopic)),
	}
}

// ComponentDevice is the device of one component, attached to the bridge.
func ComponentDevice(bridge Device, c microgrid.Component) Device {
	model := c.Category.String()
	if c.Type != nil {
		model = fmt.Sprintf("%s (%s)", model, c.Type)
	}
	return Device{
		Id:        fmt.Sprintf("%s_%s_%d", bridge.Id, c.Category, c.Id),
		Name:      componentName(c),
		Model:     model,
		ViaDevice: bridge.Id,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// ComponentSensors describes one sensor per metric the category of c reports.
// Only the first sensor carries the full device description.
func ComponentSensors(device Device, c microgrid.Component) []GenericSensor {

	var sensors []GenericSensor

	objectBase := strings.Replace(slug.Make(componentName(c)), "-", "_", -1)

	for i, metric := range microgrid.MetricIdsForCategory(c.Category) {
		dev := device
		if i > 0 {
			dev = IdDevice(device)
		}
		id := SensorId(c, metric)
		sensors = append(sensors, GenericSensor{
			Device:            dev,
			Id:                id,
			ObjectId:          fmt.Sprintf("%s_%s", objectBase, metric.Key()),
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              metricName(metric),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       deviceClass(metric),
			UnitOfMeasurement: metric.Unit(),
			UniqueId:          uniqueId(device.Id, id),
			EnabledByDefault:  optionalBool(!isBound(metric)),
		})
	}

	return sensors
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

// DiscoverySensors collects the bridge sensors and the sensors of every
// component.
func DiscoverySensors(baseTopic string, components []microgrid.Component) []GenericSensor {
	bridge := BridgeDevice(baseTopic)
	sensors := BridgeSensors(bridge)
	for _, c := range components {
		sensors = append(sensors, ComponentSensors(ComponentDevice(bridge, c), c)...)
	}
	return sensors
}

func componentName(c microgrid.Component) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s %d", c.Category, c.Id)
}

func metricName(metric microgrid.ComponentMetricId) string {
	name := strings.ReplaceAll(metric.Key(), "_", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

func deviceClass(metric microgrid.ComponentMetricId) string {
	switch metric.Unit() {
	case microgrid.UnitWatt:
		return DEVICE_CLASS_POWER
	case microgrid.UnitAmpere:
		return DEVICE_CLASS_CURRENT
	case microgrid.UnitVolt:
		return DEVICE_CLASS_VOLTAGE
	case microgrid.UnitHertz:
		return DEVICE_CLASS_FREQUENCY
	case microgrid.UnitPercent:
		return DEVICE_CLASS_BATTERY
	case microgrid.UnitWattHour:
		return DEVICE_CLASS_ENERGY_STORAGE
	case microgrid.UnitCelsius:
		return DEVICE_CLASS_TEMPERATURE
	default:
		return ""
	}
}

func isBound(metric microgrid.ComponentMetricId) bool {
	return strings.HasSuffix(metric.Key(), "_bound")
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
