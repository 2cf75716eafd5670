package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/core/events"
	"github.com/berfenger/microgrid2mqtt/internal/core/port"
	. "github.com/berfenger/microgrid2mqtt/internal/util/actorutil"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type TelemetryActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	config        *config.Config
	source        port.ComponentSource
	topologyActor *actor.PID
	eventStream   *eventstream.EventStream
	subscription  *eventstream.Subscription
	components    map[microgrid.ComponentId]microgrid.Component
	latest        map[microgrid.ComponentId]microgrid.ComponentData
	lastError     error

	logger *zap.Logger
}

type telemetryTick struct {
}

type componentDataLoaded struct {
	data []microgrid.RawComponentData
	err  error
}

type topologyChanged struct {
	components []microgrid.Component
}

func NewTelemetryActor(config *config.Config, source port.ComponentSource, topologyActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *TelemetryActor {
	act := &TelemetryActor{
		config:        config,
		source:        source,
		topologyActor: topologyActor,
		eventStream:   eventStream,
		behavior:      actor.NewBehavior(),
		stash:         &Stash{},
		components:    map[microgrid.ComponentId]microgrid.Component{},
		latest:        map[microgrid.ComponentId]microgrid.ComponentData{},
		logger:        ActorLogger(domain.ACTOR_ID_TELEMETRY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *TelemetryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *TelemetryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("telemetry@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)

		// follow topology reloads
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.subscription = state.eventStream.Subscribe(func(evt any) {
			if ev, ok := evt.(domain.TopologyUpdatedEvent); ok {
				root.Send(self, topologyChanged{components: ev.Components})
			}
		})

		timeout := time.Duration(state.config.Source.LoadTimeoutMillis)*time.Millisecond + 1*time.Second
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.topologyActor, domain.GetComponentsRequest{ValidOnly: true}, timeout), func(err error) any {
			return domain.GetComponentsResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
		state.behavior.Become(state.WaitingComponentsReceive)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("telemetry@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) WaitingComponentsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetComponentsResponse:
		if msg.HasResponseError() {
			state.logger.Error("telemetry@waitingComponents GetComponentsResponse", zap.Error(msg.GetResponseError()))
		} else {
			state.logger.Debug("telemetry@waitingComponents GetComponentsResponse", zap.Int("components", len(msg.Components)))
			state.setComponents(msg.Components)
		}
		state.scheduleTick(ctx)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("telemetry@waitingComponents stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("telemetry@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_TELEMETRY,
			Healthy: state.lastError == nil,
			State:   state.stateName(),
		})
	case topologyChanged:
		state.logger.Debug("telemetry@default topologyChanged", zap.Int("components", len(msg.components)))
		state.setComponents(msg.components)
	case telemetryTick:
		state.logger.Debug("telemetry@default tick")
		state.poll(ctx)
	case componentDataLoaded:
		if msg.err != nil {
			state.logger.Error("telemetry@default load failed", zap.Error(msg.err))
			state.lastError = msg.err
		} else {
			state.lastError = nil
			state.publish(msg.data)
		}
		state.scheduleTick(ctx)
	case domain.GetComponentDataRequest:
		data, ok := state.latest[msg.Id]
		ForRequest(msg).Respond(ctx, domain.GetComponentDataResponse{
			Data:  data,
			Found: ok,
		})
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("telemetry@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *TelemetryActor) poll(ctx actor.Context) {
	timeout := time.Duration(state.config.Source.LoadTimeoutMillis) * time.Millisecond
	source := state.source
	NewBackgroundTask(ctx, func() (*componentDataLoaded, error) {
		loadCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := source.ComponentData(loadCtx)
		if err != nil {
			return nil, err
		}
		return &componentDataLoaded{data: data}, nil
	}).WithTimeout(timeout).OnError(func(err error) {
		ctx.Send(ctx.Self(), componentDataLoaded{err: err})
	}).PipeTo(ctx.Self())
}

func (state *TelemetryActor) publish(samples []microgrid.RawComponentData) {
	for _, raw := range samples {
		c, ok := state.components[microgrid.ComponentId(raw.Id)]
		if !ok {
			state.logger.Debug("telemetry@publish drop sample of unknown component", zap.Uint64("id", raw.Id))
			continue
		}
		data, err := microgrid.NewComponentData(raw)
		if err != nil {
			state.logger.Warn("telemetry@publish invalid sample", zap.Uint64("id", raw.Id), zap.Error(err))
			continue
		}
		state.latest[c.Id] = data
		for _, ev := range events.ComponentDataToUpdateEvents(c, data) {
			state.eventStream.Publish(ev)
		}
	}
}

func (state *TelemetryActor) setComponents(components []microgrid.Component) {
	state.components = lo.KeyBy(components, func(c microgrid.Component) microgrid.ComponentId {
		return c.Id
	})
	state.latest = lo.PickByKeys(state.latest, lo.Keys(state.components))
}

func (state *TelemetryActor) scheduleTick(ctx actor.Context) {
	interval := time.Duration(state.config.Source.PollIntervalMillis) * time.Millisecond
	if interval > 0 {
		state.scheduler.RequestOnce(interval, ctx.Self(), telemetryTick{})
	}
}

func (state *TelemetryActor) unsubscribe() {
	if state.subscription != nil {
		state.eventStream.Unsubscribe(state.subscription)
		state.subscription = nil
	}
}

func (state *TelemetryActor) stateName() string {
	if state.lastError != nil {
		return "error"
	}
	return "polling"
}
