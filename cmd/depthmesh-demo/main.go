// Command depthmesh-demo runs the full pipeline without a renderer:
// simulated depth sensor → frame blender → periodic texture snapshots.
//
// It stands in for the render loop by ticking the blender at a fixed rate
// and writing the resulting pixel buffer to disk, which is enough to
// eyeball the encoding and the cross-fade without GPU plumbing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brannondorsey/emerge2016/blend"
	"github.com/brannondorsey/emerge2016/config"
	"github.com/brannondorsey/emerge2016/emitter"
	"github.com/brannondorsey/emerge2016/mesh"
	"github.com/brannondorsey/emerge2016/sensorsim"
	"github.com/brannondorsey/emerge2016/shader"
	"github.com/brannondorsey/emerge2016/snapshot"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "", "YAML config file (optional, defaults to 640x480 Kinect profile)")
	outputDir := flag.String("output", "", "Snapshot directory (overrides config)")
	tickRate := flag.Float64("tick-rate", 60.0, "Blender ticks per second (the stand-in render rate)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until signal)")
	statsInterval := flag.Int("stats-interval", 10, "Seconds between stats reports")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("depthmesh-demo %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := config.Validate(loaded); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		cfg = loaded
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			log.Fatalf("Failed to create output dir: %v", err)
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Report the geometry the renderer would receive
	grid, err := mesh.NewGrid(cfg.GridConfig())
	if err != nil {
		log.Fatalf("Failed to tessellate grid: %v", err)
	}
	slog.Info("grid tessellated",
		"vertices", grid.VertexCount(),
		"faces", grid.FaceCount(),
		"vertex_shader_bytes", len(shader.Vertex()),
		"fragment_shader_bytes", len(shader.Fragment()))

	// Blender
	blender, err := blend.New(cfg.BlendConfig())
	if err != nil {
		log.Fatalf("Failed to create blender: %v", err)
	}

	// Simulated sensor
	sim, err := sensorsim.NewSimulator(sensorsim.SimConfig{
		Width:  cfg.Sensor.Width,
		Height: cfg.Sensor.Height,
		FPS:    float64(cfg.Sensor.FPS),
		RawMax: cfg.Sensor.RawMax,
	})
	if err != nil {
		log.Fatalf("Failed to create simulator: %v", err)
	}
	frames, err := sim.Start(ctx)
	if err != nil {
		log.Fatalf("Failed to start simulator: %v", err)
	}
	defer sim.Stop()

	// Optional MQTT stats telemetry
	if cfg.MQTT.Enabled {
		em := emitter.NewMQTTEmitter(emitter.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Interval: time.Duration(cfg.MQTT.IntervalS) * time.Second,
		})
		if err := em.Connect(ctx); err != nil {
			slog.Warn("mqtt telemetry unavailable", "error", err)
		} else {
			defer em.Close()
			go em.Run(ctx, func() any {
				return map[string]any{
					"blender": blender.Stats(),
					"source":  sim.Stats(),
				}
			})
		}
	}

	slog.Info("pipeline running",
		"resolution", fmt.Sprintf("%dx%d", cfg.Sensor.Width, cfg.Sensor.Height),
		"sensor_fps", cfg.Sensor.FPS,
		"tick_rate", *tickRate,
		"fade_steps", cfg.Fade.Steps,
		"policy", cfg.Fade.OnMidFadeSubmit,
		"snapshots", cfg.Output.Dir != "")

	renderTicker := time.NewTicker(time.Duration(float64(time.Second) / *tickRate))
	defer renderTicker.Stop()
	statsTicker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
	defer statsTicker.Stop()

	ticks := 0
	snapshots := 0
	for {
		select {
		case <-ctx.Done():
			reportStats(blender, sim, snapshots)
			slog.Info("shutting down", "ticks", ticks)
			return

		case frame, ok := <-frames:
			if !ok {
				slog.Info("sensor channel closed")
				return
			}
			if err := blender.SubmitFrame(frame); err != nil {
				slog.Warn("frame rejected", "seq", frame.Seq, "error", err)
			}

		case <-statsTicker.C:
			reportStats(blender, sim, snapshots)

		case <-renderTicker.C:
			buf, err := blender.Tick()
			if err != nil {
				// Expected until the first frame arrives
				slog.Debug("tick skipped", "error", err)
				continue
			}
			ticks++

			if cfg.Output.Dir != "" && ticks%cfg.Output.Every == 0 {
				name := fmt.Sprintf("tick_%06d.%s", ticks, cfg.Output.Format)
				path := filepath.Join(cfg.Output.Dir, name)
				if err := snapshot.WriteFile(path, buf, cfg.Output.Scale); err != nil {
					slog.Error("snapshot failed", "path", path, "error", err)
				} else {
					snapshots++
					slog.Debug("snapshot written", "path", path)
				}
			}

			if *maxTicks > 0 && ticks >= *maxTicks {
				reportStats(blender, sim, snapshots)
				slog.Info("tick budget reached", "ticks", ticks)
				return
			}
		}
	}
}

func reportStats(blender blend.Blender, sim *sensorsim.Simulator, snapshots int) {
	bs := blender.Stats()
	ss := sim.Stats()
	slog.Info("pipeline stats",
		"frames_submitted", bs.FramesSubmitted,
		"ticks", bs.Ticks,
		"cycles", bs.CyclesCompleted,
		"mid_fade_replacements", bs.MidFadeReplacements,
		"fading", bs.Fading,
		"source_fps", fmt.Sprintf("%.1f", ss.FPSReal),
		"source_drops", ss.FramesDropped,
		"snapshots", snapshots)
}
