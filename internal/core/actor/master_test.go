package actor

import (
	"testing"
	"time"

	adactor "github.com/berfenger/microgrid2mqtt/internal/adapter/actor"
	"github.com/berfenger/microgrid2mqtt/internal/adapter/source"
	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/util"
	"github.com/berfenger/microgrid2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	cfg := util.LoadTestConfig()
	cfg.MQTT.HADiscoveryEnable = true
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	src := source.NewStaticSource(util.TestComponents(), util.TestComponentData())
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, src, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
		if err != nil {
			return false
		}
		healthResp, ok := res.(domain.ActorHealthResponse)
		return ok && healthResp.Healthy
	}, 5*time.Second, 100*time.Millisecond, "healthy is true")

	// forwarded to the topology actor
	res, err := context.RequestFuture(pid, domain.GetComponentsRequest{ValidOnly: true}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.Len(t, res.(domain.GetComponentsResponse).Components, 6)

	res, err = context.RequestFuture(pid, domain.GetComponentRequest{Id: 12}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.True(t, res.(domain.GetComponentResponse).Found)

	// forwarded to the telemetry actor
	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, domain.GetComponentDataRequest{Id: 4}, time.Second).Result()
		return err == nil && res.(domain.GetComponentDataResponse).Found
	}, 3*time.Second, 100*time.Millisecond)

	res, err = context.RequestFuture(pid, domain.RefreshTopologyRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, 6, res.(domain.RefreshTopologyResponse).Components)

	context.Stop(pid)

	as.Shutdown()
}
