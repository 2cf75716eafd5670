package actor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/util"
	"github.com/berfenger/microgrid2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, &es, logger) })
	pid := context.Spawn(props)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	require.NoError(t, err)
	resp, ok := result.(domain.ActorHealthResponse)
	require.True(t, ok)
	assert.True(t, resp.Healthy)

	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "meter_4_active_power",
		},
		Value:    1500,
		Decimals: 2,
	})
	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "battery_10_soc",
		},
		Value:    42.04,
		Decimals: 1,
	})
	es.Publish(domain.TopologyUpdatedEvent{
		Components: util.ResolvedTestComponents()[:2],
	})

	var published map[string]string
	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, publishedRequest{}, time.Second).Result()
		if err != nil {
			return false
		}
		published = res.(publishedResponse).Messages
		return len(published) == 3
	}, 3*time.Second, 50*time.Millisecond)

	assert.Equal(t, "1500.00", published["microgrid/sensor/meter_4_active_power/state"])
	assert.Equal(t, "42.0", published["microgrid/sensor/battery_10_soc/state"])

	var views []domain.ComponentView
	require.NoError(t, json.Unmarshal([]byte(published["microgrid/topology"]), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "grid", views[0].Category)
	require.NotNil(t, views[0].FuseMaxCurrent)
	assert.Equal(t, 63.0, *views[0].FuseMaxCurrent)

	context.Stop(pid)

	time.Sleep(100 * time.Millisecond)

	as.Shutdown()
}

func TestMQTTActorReplies(t *testing.T) {
	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, nil, logger) }))

	future := actor.NewFuture(as, time.Second)
	context.Send(pid, domain.PublishMessageRequest{
		ActorRequestMixIn: domain.ActorRequestMixIn{ReplyToRef: domain.RefOf(future.PID())},
		Topic:             "microgrid/custom",
		Payload:           "hello",
	})
	res, err := future.Result()
	require.NoError(t, err)
	_, ok := res.(domain.PublishMessageResponse)
	assert.True(t, ok)

	res, err = context.RequestFuture(pid, publishedRequest{}, time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, "hello", res.(publishedResponse).Messages["microgrid/custom"])

	context.Stop(pid)
	as.Shutdown()
}
