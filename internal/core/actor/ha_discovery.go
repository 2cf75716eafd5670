package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/core/events"
	"github.com/berfenger/microgrid2mqtt/internal/util/actorutil"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type HADiscoveryActor struct {
	config               *config.Config
	behavior             actor.Behavior
	stash                *actorutil.Stash
	topologyActor        *actor.PID
	mqttActor            *actor.PID
	eventStream          *eventstream.EventStream
	subscription         *eventstream.Subscription
	topologyActorHealthy bool
	mqttActorHealthy     bool
	healthyRecv          int

	logger *zap.Logger
}

type rediscover struct {
	components []microgrid.Component
}

func NewHADiscoveryActor(config *config.Config, topologyActor *actor.PID, mqttActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:        config,
		topologyActor: topologyActor,
		mqttActor:     mqttActor,
		eventStream:   eventStream,
		behavior:      actor.NewBehavior(),
		stash:         &actorutil.Stash{},
		logger:        actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check Topology and MQTT actor healthy
		state.healthyRecv = 0
		state.topologyActorHealthy = false
		state.mqttActorHealthy = false
		// Topology Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.topologyActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_TOPOLOGY,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_TOPOLOGY:
				state.topologyActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.topologyActorHealthy && state.mqttActorHealthy {
				// Ask Topology for the valid components
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.topologyActor, domain.GetComponentsRequest{ValidOnly: true}, 2*time.Second), func(err error) any {
					return domain.GetComponentsResponse{
						ActorResponseMixIn: domain.ErrorResponse(err),
					}
				})
				state.behavior.Become(state.WaitingComponentsReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Topology Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingComponentsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetComponentsResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@components: GetComponentsResponse", zap.Int("components", len(msg.Components)))
		state.discover(ctx, msg.Components)

		// republish on every topology reload
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.subscription = state.eventStream.Subscribe(func(evt any) {
			if ev, ok := evt.(domain.TopologyUpdatedEvent); ok {
				root.Send(self, rediscover{components: ev.Components})
			}
		})
		state.behavior.Become(state.Done)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@components: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case rediscover:
		state.logger.Debug("hadiscovery@done: rediscover", zap.Int("components", len(msg.components)))
		state.discover(ctx, msg.components)
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	}
}

func (state *HADiscoveryActor) discover(ctx actor.Context, components []microgrid.Component) {
	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors: events.DiscoverySensors(state.config.MQTT.BaseTopic, components),
	})
}

func (state *HADiscoveryActor) unsubscribe() {
	if state.subscription != nil {
		state.eventStream.Unsubscribe(state.subscription)
		state.subscription = nil
	}
}
