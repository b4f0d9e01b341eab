// Package config loads the wind daemon configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/westphae/gowind/wind"
)

type Serial struct {
	Port string `yaml:"port"`
	Baud uint   `yaml:"baud"`
}

type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

// Config is the daemon configuration. An empty address disables that input or output.
type Config struct {
	Serial  Serial `yaml:"serial"`
	UDP     string `yaml:"udp"`   // NMEA or Condor lines, e.g. ":4353"
	GDL90   string `yaml:"gdl90"` // GDL90 AHRS reports, e.g. ":4000"
	MQTT    MQTT   `yaml:"mqtt"`
	Web     string `yaml:"web"`      // websocket display, e.g. ":8000"
	LogFile string `yaml:"log_file"` // rotated; empty logs to stderr

	Wind wind.Config `yaml:"wind"`
}

func Default() Config {
	return Config{
		Serial: Serial{Baud: 9600},
		MQTT:   MQTT{ClientID: "gowind", Topic: "gowind/wind"},
		Wind:   wind.DefaultConfig(),
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (cfg Config, err error) {
	cfg = Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the filter tunables.
func (c Config) Validate() error {
	if err := c.Wind.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
