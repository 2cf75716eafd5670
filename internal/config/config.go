package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Source   SourceConfig   `mapstructure:"source"`
	Topology TopologyConfig `mapstructure:"topology"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Port     uint           `mapstructure:"port"`
	HttpLog  bool           `mapstructure:"http_log"`
}

type SourceConfig struct {
	TopologyFile       string `mapstructure:"topology_file"`
	DataFile           string `mapstructure:"data_file"`
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
	LoadTimeoutMillis  uint32 `mapstructure:"load_timeout_millis"`
}

type TopologyConfig struct {
	// treat positive id components of unspecified category as invalid
	StrictCategories bool `mapstructure:"strict_categories"`
	DropInvalid      bool `mapstructure:"drop_invalid"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

const (
	minPollIntervalMillis = 250
	minLoadTimeoutMillis  = 100
)

// Validate checks value ranges and normalizes the MQTT topics.
func (c *Config) Validate() error {
	if c.Source.TopologyFile == "" {
		return errors.New("source.topology_file is required")
	}
	if c.Source.PollIntervalMillis < minPollIntervalMillis {
		return fmt.Errorf("source.poll_interval_millis must be at least %d", minPollIntervalMillis)
	}
	if c.Source.LoadTimeoutMillis < minLoadTimeoutMillis {
		return fmt.Errorf("source.load_timeout_millis must be at least %d", minLoadTimeoutMillis)
	}
	baseTopic, err := CheckMQTTTopic(c.MQTT.BaseTopic)
	if err != nil {
		return fmt.Errorf("mqtt.base_topic: %w", err)
	}
	c.MQTT.BaseTopic = baseTopic
	haTopic, err := CheckMQTTTopic(c.MQTT.HADiscoveryTopic)
	if err != nil {
		return fmt.Errorf("mqtt.ha_discovery_topic: %w", err)
	}
	c.MQTT.HADiscoveryTopic = haTopic
	return nil
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
