package config

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/brannondorsey/emerge2016/blend"
	"github.com/brannondorsey/emerge2016/depthtex"
	"github.com/brannondorsey/emerge2016/mesh"
)

// easings maps config names to gween easing curves. Every curve here maps
// t=0 to 0 and t=d to 1, which the fade contract requires.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"quad-in":      ease.InQuad,
	"quad-out":     ease.OutQuad,
	"quad-in-out":  ease.InOutQuad,
	"cubic-in-out": ease.InOutCubic,
	"sine-in-out":  ease.InOutSine,
}

// policies maps config names to mid-fade conflict policies.
var policies = map[string]blend.ConflictPolicy{
	"replace_target": blend.ReplaceTarget,
	"restart_fade":   blend.RestartFade,
	"queue":          blend.Queue,
}

// Validate checks the configuration and fills defaults in place.
func Validate(cfg *Config) error {
	// Sensor defaults: historical Kinect deployment
	if cfg.Sensor.Width == 0 {
		cfg.Sensor.Width = 640
	}
	if cfg.Sensor.Height == 0 {
		cfg.Sensor.Height = 480
	}
	if cfg.Sensor.Width < 0 || cfg.Sensor.Height < 0 {
		return fmt.Errorf("sensor resolution must be positive, got %dx%d", cfg.Sensor.Width, cfg.Sensor.Height)
	}
	if cfg.Sensor.RawMax == 0 {
		cfg.Sensor.RawMax = 2048
	}
	if cfg.Sensor.SplitThreshold == 0 {
		cfg.Sensor.SplitThreshold = cfg.Sensor.RawMax / 2
	}
	if cfg.Sensor.SplitThreshold <= 0 || cfg.Sensor.SplitThreshold > cfg.Sensor.RawMax {
		return fmt.Errorf("sensor.split_threshold must be in (0, raw_max], got %d", cfg.Sensor.SplitThreshold)
	}
	if cfg.Sensor.FPS == 0 {
		cfg.Sensor.FPS = 30
	}
	if cfg.Sensor.FPS < 0 {
		return fmt.Errorf("sensor.fps must be > 0, got %d", cfg.Sensor.FPS)
	}

	// Fade defaults
	if cfg.Fade.Steps == 0 {
		cfg.Fade.Steps = 25
	}
	if cfg.Fade.Steps < 0 {
		return fmt.Errorf("fade.steps must be > 0, got %d", cfg.Fade.Steps)
	}
	if cfg.Fade.Easing == "" {
		cfg.Fade.Easing = "linear"
	}
	if _, ok := easings[cfg.Fade.Easing]; !ok {
		return fmt.Errorf("fade.easing %q unknown", cfg.Fade.Easing)
	}
	if cfg.Fade.OnMidFadeSubmit == "" {
		cfg.Fade.OnMidFadeSubmit = "replace_target"
	}
	if _, ok := policies[cfg.Fade.OnMidFadeSubmit]; !ok {
		return fmt.Errorf("fade.on_mid_fade_submit %q unknown", cfg.Fade.OnMidFadeSubmit)
	}

	// Mesh defaults: 4:3 plane, one segment per texel edge
	if cfg.Mesh.Width == 0 {
		cfg.Mesh.Width = 4
	}
	if cfg.Mesh.Height == 0 {
		cfg.Mesh.Height = 3
	}
	if cfg.Mesh.SegmentsX == 0 {
		cfg.Mesh.SegmentsX = cfg.Sensor.Width - 1
	}
	if cfg.Mesh.SegmentsY == 0 {
		cfg.Mesh.SegmentsY = cfg.Sensor.Height - 1
	}

	// Output defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = "webp"
	}
	switch cfg.Output.Format {
	case "webp", "png", "tga":
	default:
		return fmt.Errorf("output.format %q unknown (webp, png, tga)", cfg.Output.Format)
	}
	if cfg.Output.Every == 0 {
		cfg.Output.Every = 25
	}
	if cfg.Output.Scale == 0 {
		cfg.Output.Scale = 1
	}
	if cfg.Output.Scale < 0 {
		return fmt.Errorf("output.scale must be >= 1, got %d", cfg.Output.Scale)
	}

	// MQTT defaults (only validated when enabled)
	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "depthmesh"
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = fmt.Sprintf("depthmesh/stats/%s", cfg.MQTT.ClientID)
		}
		if cfg.MQTT.IntervalS == 0 {
			cfg.MQTT.IntervalS = 5
		}
	}

	return nil
}

// BlendConfig converts the validated configuration into blender parameters.
func (c *Config) BlendConfig() blend.Config {
	return blend.Config{
		Width:          c.Sensor.Width,
		Height:         c.Sensor.Height,
		TotalFadeSteps: c.Fade.Steps,
		Encoding: depthtex.Encoding{
			RawMax:         c.Sensor.RawMax,
			SplitThreshold: c.Sensor.SplitThreshold,
		},
		Policy: policies[c.Fade.OnMidFadeSubmit],
		Easing: easings[c.Fade.Easing],
	}
}

// GridConfig converts the validated configuration into mesh parameters.
func (c *Config) GridConfig() mesh.GridConfig {
	return mesh.GridConfig{
		Width:     c.Mesh.Width,
		Height:    c.Mesh.Height,
		SegmentsX: c.Mesh.SegmentsX,
		SegmentsY: c.Mesh.SegmentsY,
	}
}
