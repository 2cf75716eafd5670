package actor

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/adapter/source"
	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/util"
	"github.com/berfenger/microgrid2mqtt/internal/util/actorutil"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sensorValues struct {
	mu     sync.Mutex
	values map[string]float64
}

func (s *sensorValues) record(evt any) {
	if ev, ok := evt.(domain.FloatSensorUpdateEvent); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.values[ev.SensorId()] = ev.Value
	}
}

func (s *sensorValues) get(id string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[id]
	return v, ok
}

func (s *sensorValues) hasPrefix(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.values {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func TestTelemetryActor(t *testing.T) {
	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	es := &eventstream.EventStream{}
	values := &sensorValues{values: map[string]float64{}}
	es.Subscribe(values.record)

	src := source.NewStaticSource(util.TestComponents(), util.TestComponentData())
	topologyPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewTopologyActor(&cfg, src, es, logger)
	}))
	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewTelemetryActor(&cfg, src, topologyPID, es, logger)
	}))

	assert.Eventually(t, func() bool {
		_, meter := values.get("meter_4_active_power")
		_, battery := values.get("battery_10_soc")
		return meter && battery
	}, 3*time.Second, 50*time.Millisecond)

	power, _ := values.get("meter_4_active_power")
	assert.Equal(t, 1500.0, power)
	soc, _ := values.get("battery_10_soc")
	assert.Equal(t, 42.0, soc)
	lower, ok := values.get("battery_10_soc_lower_bound")
	assert.True(t, ok)
	assert.Equal(t, 10.0, lower)
	// samples of components outside the topology are dropped
	assert.False(t, values.hasPrefix("meter_99_"))

	res, err := context.RequestFuture(pid, domain.GetComponentDataRequest{Id: 10}, time.Second).Result()
	require.NoError(t, err)
	data := res.(domain.GetComponentDataResponse)
	require.True(t, data.Found)
	capacity, ok := data.Data.Metric(microgrid.MetricCapacity)
	require.True(t, ok)
	assert.Equal(t, 5120.0, capacity)

	res, err = context.RequestFuture(pid, domain.GetComponentDataRequest{Id: 8}, time.Second).Result()
	require.NoError(t, err)
	assert.False(t, res.(domain.GetComponentDataResponse).Found)

	res, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, time.Second).Result()
	require.NoError(t, err)
	health := res.(domain.ActorHealthResponse)
	assert.True(t, health.Healthy)
	assert.Equal(t, "polling", health.State)

	// dropping the battery from the topology forgets its last sample
	src.SetComponents(util.TestComponents()[:2])
	_, err = context.RequestFuture(topologyPID, domain.RefreshTopologyRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, domain.GetComponentDataRequest{Id: 10}, time.Second).Result()
		return err == nil && !res.(domain.GetComponentDataResponse).Found
	}, 2*time.Second, 50*time.Millisecond)

	context.Stop(pid)
	context.Stop(topologyPID)
	as.Shutdown()
}
