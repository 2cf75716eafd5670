package microgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func m(v float64) RawMetric {
	return RawMetric{Value: v}
}

func TestMeterData(t *testing.T) {
	d, err := NewComponentData(RawComponentData{
		Id:        4,
		Timestamp: ts,
		Meter: &RawMeterData{AC: RawAC{
			Frequency:   m(50.01),
			PowerActive: m(1500),
			Phase1:      RawACPhase{Current: m(2), Voltage: m(230), PowerActive: m(500)},
			Phase2:      RawACPhase{Current: m(2.1), Voltage: m(231), PowerActive: m(480)},
			Phase3:      RawACPhase{Current: m(2.2), Voltage: m(229), PowerActive: m(520)},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, ComponentId(4), d.ComponentId())
	assert.Equal(t, ts, d.Timestamp())

	v, ok := d.Metric(MetricActivePower)
	require.True(t, ok)
	assert.Equal(t, 1500.0, v)
	v, _ = d.Metric(MetricVoltagePhase2)
	assert.Equal(t, 231.0, v)
	v, _ = d.Metric(MetricCurrentPhase3)
	assert.Equal(t, 2.2, v)

	_, ok = d.Metric(MetricSoc)
	assert.False(t, ok)
	assert.Len(t, d.MetricIds(), 11)
}

func TestInverterDataBounds(t *testing.T) {
	d, err := NewComponentData(RawComponentData{
		Id:        8,
		Timestamp: ts,
		Inverter: &RawInverterData{
			ComponentState: 3,
			Errors:         []RawComponentError{{Code: 7, Msg: "overheat"}},
			AC: RawAC{PowerActive: RawMetric{
				Value:                 -2000,
				SystemInclusionBounds: &RawBounds{Lower: -5000, Upper: 5000},
			}},
		},
	})
	require.NoError(t, err)
	inv, ok := d.(InverterData)
	require.True(t, ok)
	assert.Equal(t, int32(3), inv.ComponentState)
	assert.Equal(t, []ComponentError{{Code: 7, Msg: "overheat"}}, inv.Errors)

	v, ok := d.Metric(MetricActivePowerInclusionLowerBound)
	require.True(t, ok)
	assert.Equal(t, -5000.0, v)
	v, _ = d.Metric(MetricActivePowerInclusionUpperBound)
	assert.Equal(t, 5000.0, v)

	// no exclusion bounds on the wire
	_, ok = d.Metric(MetricActivePowerExclusionLowerBound)
	assert.False(t, ok)
	assert.Len(t, d.MetricIds(), 15)
}

func TestBatteryData(t *testing.T) {
	d, err := NewComponentData(RawComponentData{
		Id:        10,
		Timestamp: ts,
		Battery: &RawBatteryData{
			RelayState:  2,
			Soc:         RawMetric{Value: 55.5, SystemInclusionBounds: &RawBounds{Lower: 10, Upper: 90}},
			Capacity:    10000,
			DCPower:     RawMetric{Value: 100, SystemInclusionBounds: &RawBounds{Lower: -3000, Upper: 3000}, SystemExclusionBounds: &RawBounds{Lower: -100, Upper: 100}},
			Temperature: m(24),
		},
	})
	require.NoError(t, err)
	b, ok := d.(BatteryData)
	require.True(t, ok)
	assert.Equal(t, int32(2), b.RelayState)
	assert.Nil(t, b.Errors)

	expected := map[ComponentMetricId]float64{
		MetricSoc:                      55.5,
		MetricSocLowerBound:            10,
		MetricSocUpperBound:            90,
		MetricCapacity:                 10000,
		MetricPowerInclusionLowerBound: -3000,
		MetricPowerExclusionLowerBound: -100,
		MetricPowerExclusionUpperBound: 100,
		MetricPowerInclusionUpperBound: 3000,
		MetricTemperature:              24,
	}
	for id, want := range expected {
		v, ok := d.Metric(id)
		require.True(t, ok, id.Key())
		assert.Equal(t, want, v, id.Key())
	}
	_, ok = d.Metric(MetricActivePower)
	assert.False(t, ok)
}

func TestEVChargerData(t *testing.T) {
	d, err := NewComponentData(RawComponentData{
		Id:        12,
		Timestamp: ts,
		EVCharger: &RawEVChargerData{CableState: 4, AC: RawAC{PowerActive: m(7400)}},
	})
	require.NoError(t, err)
	ev, ok := d.(EVChargerData)
	require.True(t, ok)
	assert.Equal(t, int32(4), ev.CableState)
	v, ok := d.Metric(MetricActivePower)
	require.True(t, ok)
	assert.Equal(t, 7400.0, v)
}

func TestEmptyComponentData(t *testing.T) {
	_, err := NewComponentData(RawComponentData{Id: 3, Timestamp: ts})
	assert.ErrorIs(t, err, ErrNoComponentData)
}

func TestMetricIdsForCategory(t *testing.T) {
	assert.Equal(t, MeterData{}.MetricIds(), MetricIdsForCategory(ComponentCategoryGrid))
	assert.Contains(t, MetricIdsForCategory(ComponentCategoryBattery), MetricSoc)
	assert.Contains(t, MetricIdsForCategory(ComponentCategoryInverter), MetricActivePowerInclusionUpperBound)
	assert.Nil(t, MetricIdsForCategory(ComponentCategoryCHP))
	for _, c := range AllComponentCategories() {
		for _, id := range MetricIdsForCategory(c) {
			assert.True(t, id.IsValid())
		}
	}
}
