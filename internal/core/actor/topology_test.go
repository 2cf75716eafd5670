package actor

import (
	"errors"
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

type topologyEvents struct {
	mu     sync.Mutex
	events []domain.TopologyUpdatedEvent
}

func (e *topologyEvents) record(evt any) {
	if ev, ok := evt.(domain.TopologyUpdatedEvent); ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.events = append(e.events, ev)
	}
}

func (e *topologyEvents) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func TestTopologyActor(t *testing.T) {
	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	es := &eventstream.EventStream{}
	recorded := &topologyEvents{}
	es.Subscribe(recorded.record)

	src := source.NewStaticSource(util.TestComponents(), nil)
	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewTopologyActor(&cfg, src, es, logger)
	}))

	// stashed until the first load completes
	res, err := context.RequestFuture(pid, domain.GetComponentsRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	components := res.(domain.GetComponentsResponse)
	require.False(t, components.HasResponseError())
	assert.Len(t, components.Components, 6)
	assert.Equal(t, microgrid.ComponentId(0), components.Components[0].Id)
	assert.Equal(t, 1, recorded.len())

	battery := microgrid.ComponentCategoryBattery
	res, err = context.RequestFuture(pid, domain.GetComponentsRequest{Category: &battery}, time.Second).Result()
	require.NoError(t, err)
	assert.Len(t, res.(domain.GetComponentsResponse).Components, 1)

	res, err = context.RequestFuture(pid, domain.GetComponentRequest{Id: 8}, time.Second).Result()
	require.NoError(t, err)
	component := res.(domain.GetComponentResponse)
	assert.True(t, component.Found)
	assert.True(t, component.Valid)
	assert.Equal(t, "PV West", component.Component.Name)

	res, err = context.RequestFuture(pid, domain.GetComponentRequest{Id: 30}, time.Second).Result()
	require.NoError(t, err)
	assert.False(t, res.(domain.GetComponentResponse).Found)

	res, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, time.Second).Result()
	require.NoError(t, err)
	health := res.(domain.ActorHealthResponse)
	assert.True(t, health.Healthy)
	assert.Equal(t, "idle", health.State)

	// reload with a smaller topology
	src.SetComponents(util.TestComponents()[:2])
	res, err = context.RequestFuture(pid, domain.RefreshTopologyRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	refresh := res.(domain.RefreshTopologyResponse)
	require.False(t, refresh.HasResponseError())
	assert.Equal(t, 2, refresh.Components)
	assert.Empty(t, refresh.Problems)
	assert.Equal(t, 2, recorded.len())

	// a failed refresh keeps serving the previous topology
	src.SetError(errors.New("source down"))
	res, err = context.RequestFuture(pid, domain.RefreshTopologyRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.True(t, res.(domain.RefreshTopologyResponse).HasResponseError())

	res, err = context.RequestFuture(pid, domain.GetComponentsRequest{}, time.Second).Result()
	require.NoError(t, err)
	assert.Len(t, res.(domain.GetComponentsResponse).Components, 2)

	res, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, time.Second).Result()
	require.NoError(t, err)
	health = res.(domain.ActorHealthResponse)
	assert.True(t, health.Healthy)
	assert.Equal(t, "stale", health.State)

	context.Stop(pid)
	as.Shutdown()
}

func TestTopologyActorNotLoaded(t *testing.T) {
	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	src := source.NewStaticSource(nil, nil)
	src.SetError(errors.New("source down"))
	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewTopologyActor(&cfg, src, &eventstream.EventStream{}, logger)
	}))

	res, err := context.RequestFuture(pid, domain.GetComponentsRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.ErrorIs(t, res.(domain.GetComponentsResponse).GetResponseError(), ErrTopologyNotLoaded)

	res, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, time.Second).Result()
	require.NoError(t, err)
	assert.False(t, res.(domain.ActorHealthResponse).Healthy)

	// the retry picks the source up once it recovers
	src.SetError(nil)
	src.SetComponents(util.TestComponents())
	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, time.Second).Result()
		return err == nil && res.(domain.ActorHealthResponse).Healthy
	}, 5*time.Second, 100*time.Millisecond)

	context.Stop(pid)
	as.Shutdown()
}
