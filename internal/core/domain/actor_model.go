package domain

import (
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_TOPOLOGY     = "topology"
	ACTOR_ID_TELEMETRY    = "telemetry"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetComponentsRequest struct {
	ActorRequestMixIn
	// nil lists every category
	Category *microgrid.ComponentCategory
	// only components valid under the topology policy
	ValidOnly bool
}

type GetComponentsResponse struct {
	ActorResponseMixIn
	Components []microgrid.Component
}

type GetComponentRequest struct {
	ActorRequestMixIn
	Id microgrid.ComponentId
}

type GetComponentResponse struct {
	ActorResponseMixIn
	Component microgrid.Component
	Found     bool
	Valid     bool
}

type RefreshTopologyRequest struct {
	ActorRequestMixIn
}

type RefreshTopologyResponse struct {
	ActorResponseMixIn
	Components int
	// per record problems found while building the topology
	Problems []error
}

type GetComponentDataRequest struct {
	ActorRequestMixIn
	Id microgrid.ComponentId
}

type GetComponentDataResponse struct {
	ActorResponseMixIn
	Data  microgrid.ComponentData
	Found bool
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishTopologyRequest struct {
	ActorRequestMixIn
	Components []ComponentView
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
