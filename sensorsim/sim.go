package sensorsim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/brannondorsey/emerge2016/depthtex"
)

// SimConfig configures the ripple generator.
type SimConfig struct {
	// Width and Height fix the frame resolution. Required.
	Width  int
	Height int

	// FPS is the production rate (default 30).
	FPS float64

	// RawMax is the top of the generated sample range (default 2048).
	// The ripple oscillates inside [0, RawMax].
	RawMax int

	// Buffer is the frame channel depth (default 4). Small on purpose:
	// a consumer that falls further behind should drop, not queue.
	Buffer int
}

// Simulator produces synthetic depth frames (implements Provider).
//
// Goroutine topology: Start spawns exactly one producer goroutine, owned by
// the simulator and joined by Stop.
type Simulator struct {
	cfg SimConfig

	frames chan *depthtex.Frame
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startedMu sync.Mutex
	started   bool
	stopped   bool

	// atomics, read by Stats without a lock
	frameCount    uint64
	framesDropped uint64

	startTime time.Time
}

// NewSimulator creates a simulator. Zero-valued optional fields fall back
// to defaults.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("sensorsim: invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS == 0 {
		cfg.FPS = 30
	}
	if cfg.FPS < 0 {
		return nil, fmt.Errorf("sensorsim: invalid fps %g", cfg.FPS)
	}
	if cfg.RawMax <= 0 {
		cfg.RawMax = 2048
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 4
	}
	return &Simulator{
		cfg:    cfg,
		frames: make(chan *depthtex.Frame, cfg.Buffer),
	}, nil
}

// Start begins frame production (implements Provider.Start).
func (s *Simulator) Start(ctx context.Context) (<-chan *depthtex.Frame, error) {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()

	if s.started {
		return nil, fmt.Errorf("sensorsim: already started")
	}
	s.started = true
	s.startTime = time.Now()

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.produce(ctx)

	slog.Info("sensorsim: simulator started",
		"resolution", fmt.Sprintf("%dx%d", s.cfg.Width, s.cfg.Height),
		"fps", s.cfg.FPS,
		"raw_max", s.cfg.RawMax)

	return s.frames, nil
}

// Stop shuts down production and closes the frame channel (implements
// Provider.Stop). Idempotent.
func (s *Simulator) Stop() error {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()

	if !s.started || s.stopped {
		return nil
	}
	s.stopped = true

	s.cancel()
	s.wg.Wait()
	close(s.frames)

	slog.Info("sensorsim: simulator stopped",
		"frames", atomic.LoadUint64(&s.frameCount),
		"dropped", atomic.LoadUint64(&s.framesDropped))
	return nil
}

// Stats returns an operational snapshot (implements Provider.Stats).
func (s *Simulator) Stats() SourceStats {
	produced := atomic.LoadUint64(&s.frameCount)
	dropped := atomic.LoadUint64(&s.framesDropped)

	var dropRate, fpsReal float64
	if produced > 0 {
		dropRate = float64(dropped) / float64(produced) * 100
	}
	s.startedMu.Lock()
	running := s.started && !s.stopped
	start := s.startTime
	s.startedMu.Unlock()
	if running {
		if elapsed := time.Since(start).Seconds(); elapsed > 0 {
			fpsReal = float64(produced) / elapsed
		}
	}

	return SourceStats{
		FrameCount:    produced,
		FramesDropped: dropped,
		DropRate:      dropRate,
		FPSTarget:     s.cfg.FPS,
		FPSReal:       fpsReal,
		IsRunning:     running,
	}
}

// produce runs the generation loop until ctx is cancelled.
func (s *Simulator) produce(ctx context.Context) {
	defer s.wg.Done()

	interval := time.Duration(float64(time.Second) / s.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seq uint64
	var phase float64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.generate(seq, phase)
			seq++
			phase += 0.15
			atomic.AddUint64(&s.frameCount, 1)

			// Non-blocking send: drop when the consumer lags
			select {
			case s.frames <- frame:
			default:
				atomic.AddUint64(&s.framesDropped, 1)
				slog.Debug("sensorsim: dropping frame, channel full", "seq", frame.Seq)
			}
		}
	}
}

// generate builds one ripple frame, little-endian packed.
func (s *Simulator) generate(seq uint64, phase float64) *depthtex.Frame {
	w, h := s.cfg.Width, s.cfg.Height
	data := make([]byte, 2*w*h)

	base := float64(s.cfg.RawMax) / 2
	amp := float64(s.cfg.RawMax) / 4
	cx, cy := float64(w)/2, float64(h)/2
	// Wavelength scaled to the frame so small test frames still ripple
	k := 24 / math.Max(float64(w), 1)

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dist := math.Sqrt(dx*dx + dy*dy)
			depth := uint16(base + amp*math.Sin(dist*k-phase))

			i := 2 * (y*w + x)
			data[i] = byte(depth & 0xFF)
			data[i+1] = byte(depth >> 8)
		}
	}

	return &depthtex.Frame{
		Data:      data,
		Width:     w,
		Height:    h,
		Timestamp: time.Now(),
		Seq:       seq,
		TraceID:   uuid.NewString(),
	}
}
