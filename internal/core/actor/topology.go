package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/config"
	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/internal/core/port"
	"github.com/berfenger/microgrid2mqtt/internal/core/service"
	. "github.com/berfenger/microgrid2mqtt/internal/util/actorutil"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrTopologyNotLoaded = errors.New("topology not loaded")

type TopologyActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	config      *config.Config
	source      port.ComponentSource
	eventStream *eventstream.EventStream
	topology    *service.Topology
	lastError   error

	logger *zap.Logger
}

type topologyLoaded struct {
	topology *service.Topology
	problems []error
	err      error
	replyTo  *actor.PID
}

type topologyRetry struct {
}

func NewTopologyActor(config *config.Config, source port.ComponentSource, eventStream *eventstream.EventStream, logger *zap.Logger) *TopologyActor {
	act := &TopologyActor{
		config:      config,
		source:      source,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_TOPOLOGY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *TopologyActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *TopologyActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("topology@starting started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.behavior.Become(state.LoadingReceive)
		state.load(ctx, nil)
	case *actor.Restarting:
	default:
		state.logger.Debug("topology@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TopologyActor) LoadingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case topologyLoaded:
		if msg.err != nil {
			state.logger.Error("topology@loading load failed", zap.Error(msg.err))
			state.lastError = msg.err
			if msg.replyTo != nil {
				ctx.Send(msg.replyTo, domain.RefreshTopologyResponse{
					ActorResponseMixIn: domain.ErrorResponse(msg.err),
				})
			}
			if state.topology == nil {
				state.scheduler.RequestOnce(state.loadTimeout(), ctx.Self(), topologyRetry{})
			}
		} else {
			state.logger.Info("topology@loading loaded", zap.Int("components", msg.topology.Len()), zap.Int("problems", len(msg.problems)))
			state.topology = msg.topology
			state.lastError = nil
			state.eventStream.Publish(domain.TopologyUpdatedEvent{
				Components: msg.topology.Valid(),
			})
			if msg.replyTo != nil {
				ctx.Send(msg.replyTo, domain.RefreshTopologyResponse{
					Components: msg.topology.Len(),
					Problems:   msg.problems,
				})
			}
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_TOPOLOGY,
			Healthy: state.topology != nil,
			State:   "loading",
		})
	default:
		state.logger.Debug("topology@loading stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TopologyActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("topology@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_TOPOLOGY,
			Healthy: state.topology != nil,
			State:   state.stateName(),
		})
	case domain.GetComponentsRequest:
		state.logger.Debug("topology@default GetComponentsRequest")
		ForRequest(msg).Respond(ctx, state.components(msg))
	case domain.GetComponentRequest:
		state.logger.Debug("topology@default GetComponentRequest", zap.Uint64("id", uint64(msg.Id)))
		ForRequest(msg).Respond(ctx, state.component(msg.Id))
	case domain.RefreshTopologyRequest:
		state.logger.Debug("topology@default RefreshTopologyRequest")
		state.behavior.Become(state.LoadingReceive)
		state.load(ctx, ForRequest(msg).ReplyTo(ctx))
	case topologyRetry:
		state.logger.Debug("topology@default retry")
		state.behavior.Become(state.LoadingReceive)
		state.load(ctx, nil)
	default:
		state.logger.Debug("topology@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *TopologyActor) load(ctx actor.Context, replyTo *actor.PID) {
	timeout := state.loadTimeout()
	policy := service.PolicyFromConfig(state.config.Topology)
	source := state.source
	logger := state.logger
	NewBackgroundTask(ctx, func() (*topologyLoaded, error) {
		loadCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		raws, err := source.Components(loadCtx)
		if err != nil {
			return nil, err
		}
		topology, problems := service.BuildTopology(raws, policy, logger)
		return &topologyLoaded{
			topology: topology,
			problems: problems,
			replyTo:  replyTo,
		}, nil
	}).WithTimeout(timeout).OnError(func(err error) {
		ctx.Send(ctx.Self(), topologyLoaded{err: err, replyTo: replyTo})
	}).PipeTo(ctx.Self())
}

func (state *TopologyActor) components(req domain.GetComponentsRequest) domain.GetComponentsResponse {
	if state.topology == nil {
		return domain.GetComponentsResponse{ActorResponseMixIn: domain.ErrorResponse(ErrTopologyNotLoaded)}
	}
	var components []microgrid.Component
	switch {
	case req.Category != nil:
		components = state.topology.ByCategory(*req.Category)
	default:
		components = state.topology.Components()
	}
	if req.ValidOnly {
		components = lo.Filter(components, func(c microgrid.Component, _ int) bool {
			return state.topology.IsValid(c)
		})
	}
	return domain.GetComponentsResponse{Components: components}
}

func (state *TopologyActor) component(id microgrid.ComponentId) domain.GetComponentResponse {
	if state.topology == nil {
		return domain.GetComponentResponse{ActorResponseMixIn: domain.ErrorResponse(ErrTopologyNotLoaded)}
	}
	c, ok := state.topology.Component(id)
	return domain.GetComponentResponse{
		Component: c,
		Found:     ok,
		Valid:     ok && state.topology.IsValid(c),
	}
}

func (state *TopologyActor) loadTimeout() time.Duration {
	return time.Duration(state.config.Source.LoadTimeoutMillis) * time.Millisecond
}

func (state *TopologyActor) stateName() string {
	switch {
	case state.topology == nil:
		return "error"
	case state.lastError != nil:
		return "stale"
	default:
		return "idle"
	}
}
