// Package config loads and validates the depthmesh deployment
// configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete depthmesh configuration.
type Config struct {
	Sensor SensorConfig `yaml:"sensor"`
	Fade   FadeConfig   `yaml:"fade"`
	Mesh   MeshConfig   `yaml:"mesh"`
	Output OutputConfig `yaml:"output"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// SensorConfig fixes the depth sensor's frame geometry and reporting
// convention.
type SensorConfig struct {
	Width          int `yaml:"width"`           // samples per row (default 640)
	Height         int `yaml:"height"`          // rows (default 480)
	RawMax         int `yaml:"raw_max"`         // top of the raw range (default 2048)
	SplitThreshold int `yaml:"split_threshold"` // coarse/fine split (default 1024)
	FPS            int `yaml:"fps"`             // acquisition rate, simulator only (default 30)
}

// FadeConfig shapes the temporal cross-fade between frames.
type FadeConfig struct {
	Steps           int    `yaml:"steps"`              // ticks per cross-fade (default 25)
	Easing          string `yaml:"easing"`             // weight curve (default "linear")
	OnMidFadeSubmit string `yaml:"on_mid_fade_submit"` // replace_target | restart_fade | queue
}

// MeshConfig describes the displacement grid handed to the renderer.
type MeshConfig struct {
	Width     float64 `yaml:"width"`      // physical plane width in scene units
	Height    float64 `yaml:"height"`     // physical plane height
	SegmentsX int     `yaml:"segments_x"` // default sensor width - 1
	SegmentsY int     `yaml:"segments_y"` // default sensor height - 1
}

// OutputConfig controls debug snapshots of the pixel buffer.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // snapshot directory (empty = disabled)
	Format string `yaml:"format"` // webp | png | tga (default webp)
	Every  int    `yaml:"every"`  // write every Nth tick (default 25)
	Scale  int    `yaml:"scale"`  // integer upscale factor (default 1)
}

// MQTTConfig controls optional stats telemetry.
type MQTTConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker"`     // host:port
	ClientID  string `yaml:"client_id"`  // default "depthmesh"
	Topic     string `yaml:"topic"`      // default "depthmesh/stats/<client_id>"
	IntervalS int    `yaml:"interval_s"` // publish interval in seconds (default 5)
}

// Load reads a YAML config file. Fields not set in the file keep their zero
// values; call Validate to fill defaults and check invariants.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns a configuration for the historical 640×480 Kinect
// deployment, already validated.
func Default() *Config {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		panic(err) // defaults always validate
	}
	return cfg
}
