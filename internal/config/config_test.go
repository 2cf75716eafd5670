package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Source: SourceConfig{
			TopologyFile:       "topology.yaml",
			PollIntervalMillis: 1000,
			LoadTimeoutMillis:  2000,
		},
		MQTT: MQTTConfig{
			BaseTopic:        "Microgrid",
			HADiscoveryTopic: "homeassistant",
		},
	}
}

func TestCheckMQTTTopic(t *testing.T) {
	topic, err := CheckMQTTTopic("Microgrid_2")
	require.NoError(t, err)
	assert.Equal(t, "microgrid_2", topic)

	_, err = CheckMQTTTopic("micro/grid")
	assert.Error(t, err)
	_, err = CheckMQTTTopic("")
	assert.Error(t, err)
}

func TestValidateNormalizesTopics(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "microgrid", cfg.MQTT.BaseTopic)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := validConfig()
	cfg.Source.TopologyFile = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Source.PollIntervalMillis = 10
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Source.LoadTimeoutMillis = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MQTT.HADiscoveryTopic = "home assistant"
	assert.Error(t, cfg.Validate())
}
