package domain

import (
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	ObjectId          string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, duration, total_increasing (for acc energy)
	DeviceClass       string // voltage, current, power, energy
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

// ComponentView is the serialized form of a component used by the HTTP API
// and the retained topology snapshot.
type ComponentView struct {
	Id             uint64   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Type           string   `json:"type,omitempty"`
	FuseMaxCurrent *float64 `json:"fuse_max_current,omitempty"`
	Valid          bool     `json:"valid"`
}

func NewComponentView(c microgrid.Component, valid bool) ComponentView {
	view := ComponentView{
		Id:       uint64(c.Id),
		Name:     c.Name,
		Category: c.Category.String(),
		Valid:    valid,
	}
	if c.Type != nil {
		view.Type = c.Type.String()
	}
	if fuse, ok := c.Fuse(); ok {
		maxCurrent := fuse.MaxCurrent
		view.FuseMaxCurrent = &maxCurrent
	}
	return view
}
