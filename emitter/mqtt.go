// Package emitter publishes pipeline statistics to an MQTT broker.
//
// Telemetry is optional and sits outside the hot path: the blender and
// source expose Stats() snapshots, and the emitter periodically serializes
// whatever the caller collects into a JSON payload on a single topic. A
// broker outage never stalls the pipeline; publishes fail soft and are
// counted.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds broker connection and publishing parameters.
type Config struct {
	// Broker is the host:port of the MQTT broker.
	Broker string

	// ClientID identifies this pipeline instance.
	ClientID string

	// Topic receives the JSON stats payloads.
	Topic string

	// Interval between publishes in Run.
	Interval time.Duration
}

// MQTTEmitter publishes stats snapshots to an MQTT broker.
type MQTTEmitter struct {
	cfg    Config
	client mqtt.Client

	mu        sync.Mutex
	published uint64
	errors    uint64
	connected bool
}

// NewMQTTEmitter creates an emitter. Connect must be called before Publish.
func NewMQTTEmitter(cfg Config) *MQTTEmitter {
	return &MQTTEmitter{cfg: cfg}
}

// Connect establishes the broker connection with auto-reconnect enabled.
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Broker))
	opts.SetClientID(e.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.mu.Lock()
		e.connected = true
		e.mu.Unlock()
		slog.Info("emitter: mqtt connection established",
			"broker", e.cfg.Broker,
			"client_id", e.cfg.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.mu.Lock()
		e.connected = false
		e.mu.Unlock()
		slog.Warn("emitter: mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", e.cfg.Broker)
	}

	e.client = mqtt.NewClient(opts)

	slog.Info("emitter: connecting to mqtt broker", "broker", e.cfg.Broker)

	token := e.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("emitter: mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("emitter: mqtt connection failed: %w", err)
	}

	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()
	return nil
}

// Publish serializes payload as JSON and publishes it to the configured
// topic. Fails soft when disconnected (counted, not retried here; the
// client reconnects on its own).
func (e *MQTTEmitter) Publish(payload any) error {
	e.mu.Lock()
	connected := e.connected
	e.mu.Unlock()
	if !connected {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("emitter: not connected")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("emitter: marshal payload: %w", err)
	}

	token := e.client.Publish(e.cfg.Topic, 0, false, data)
	if !token.WaitTimeout(2 * time.Second) {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("emitter: publish timeout")
	}
	if err := token.Error(); err != nil {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("emitter: publish failed: %w", err)
	}

	e.mu.Lock()
	e.published++
	e.mu.Unlock()
	return nil
}

// Run publishes collect() every Interval until ctx is done. Intended to be
// launched as a goroutine; publish failures are logged, never fatal.
func (e *MQTTEmitter) Run(ctx context.Context, collect func() any) {
	interval := e.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Publish(collect()); err != nil {
				slog.Debug("emitter: stats publish skipped", "error", err)
			}
		}
	}
}

// Close disconnects from the broker.
func (e *MQTTEmitter) Close() {
	if e.client != nil && e.client.IsConnected() {
		e.client.Disconnect(250)
	}
	e.mu.Lock()
	e.connected = false
	e.mu.Unlock()
}
