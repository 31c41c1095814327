package internal

import (
	"fmt"
	"sync"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/brannondorsey/emerge2016/depthtex"
)

// blender is the concrete implementation of blend.Blender.
//
// State machine:
//   - prev/cur hold the fade endpoints (raw frames, shared by reference)
//   - step walks 0..cfg.TotalFadeSteps inclusive, then wraps to 0
//   - on wrap, cur is promoted to prev so steady ticks hold the completed
//     frame instead of re-fading
//   - pending holds at most one queued frame (Queue policy, latest-wins)
//
// Thread-safety: every method takes mu. SubmitFrame typically arrives from
// a capture goroutine while Tick runs on the render loop; the mutex is what
// keeps a reader from tearing the owned pixel buffer mid-write.
type blender struct {
	mu  sync.Mutex
	cfg Config
	enc *depthtex.Encoder

	prev    *depthtex.Frame // fade source (nil until a second frame arrives)
	cur     *depthtex.Frame // fade target
	pending *depthtex.Frame // queued target (Queue policy only)
	step    int             // position in the fade cycle, [0, TotalFadeSteps]

	buf *depthtex.PixelBuffer // single-owner output, overwritten per Tick

	// --- Operational stats (all guarded by mu) ---

	framesSubmitted     uint64
	midFadeReplacements uint64
	fadeRestarts        uint64
	pendingDrops        uint64
	ticks               uint64
	cyclesCompleted     uint64
	lastSubmitAt        time.Time
	lastTickAt          time.Time
}

// NewBlender creates a blender (called by public New in the parent package).
func NewBlender(cfg Config) (*blender, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("blend: invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TotalFadeSteps <= 0 {
		cfg.TotalFadeSteps = DefaultTotalFadeSteps
	}
	if cfg.Easing == nil {
		cfg.Easing = ease.Linear
	}

	return &blender{
		cfg: cfg,
		enc: depthtex.NewEncoder(cfg.Encoding),
		buf: depthtex.NewPixelBuffer(cfg.Width, cfg.Height),
	}, nil
}

// SubmitFrame stores raw as the new fade target (implements Blender.SubmitFrame).
//
// Branches:
//   - no current frame: raw becomes current, previous stays absent
//   - idle (step 0): current promoted to previous, raw becomes current
//   - mid-fade: per ConflictPolicy (see package doc)
func (b *blender) SubmitFrame(raw *depthtex.Frame) error {
	if err := raw.Validate(); err != nil {
		return err
	}
	if raw.Width != b.cfg.Width || raw.Height != b.cfg.Height {
		return fmt.Errorf("%w: frame %dx%d, blender configured for %dx%d",
			depthtex.ErrInvalidFrameLength, raw.Width, raw.Height, b.cfg.Width, b.cfg.Height)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.cur == nil:
		// First frame ever: blend "from itself" until a successor arrives
		b.cur = raw
		b.step = 0

	case b.step == 0:
		// Idle: previous cycle finished (or never started)
		b.prev = b.cur
		b.cur = raw

	default:
		// Mid-fade conflict
		switch b.cfg.Policy {
		case RestartFade:
			b.prev = b.cur
			b.cur = raw
			b.step = 0
			b.fadeRestarts++
		case Queue:
			if b.pending != nil {
				b.pendingDrops++
			}
			b.pending = raw
		default: // ReplaceTarget: overwrite target, keep progress
			b.cur = raw
			b.midFadeReplacements++
		}
	}

	b.framesSubmitted++
	b.lastSubmitAt = time.Now()
	return nil
}

// Tick advances the fade one step (implements Blender.Tick).
//
// The weight is computed from step BEFORE incrementing: the first tick of a
// cycle reproduces the previous frame, the tick at step == TotalFadeSteps
// reproduces the current frame exactly.
func (b *blender) Tick() (*depthtex.PixelBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cur == nil {
		return nil, ErrMissingFrame
	}

	// Weight-free fast path: no previous frame yet, or the fade has
	// settled (prev promoted to cur on wrap).
	if b.prev == nil || b.prev == b.cur {
		if err := b.enc.EncodeInto(b.buf, b.cur); err != nil {
			return nil, err
		}
		b.ticks++
		b.lastTickAt = time.Now()
		return b.buf, nil
	}

	if len(b.prev.Data) != len(b.cur.Data) {
		return nil, fmt.Errorf("%w: previous %d bytes, current %d bytes",
			ErrFrameSizeMismatch, len(b.prev.Data), len(b.cur.Data))
	}

	steps := b.cfg.TotalFadeSteps
	newWeight := float64(b.cfg.Easing(float32(b.step), 0, 1, float32(steps)))
	prevWeight := 1 - newWeight

	prevData, curData := b.prev.Data, b.cur.Data
	for i, j := 0, 0; i < len(curData); i, j = i+2, j+4 {
		plo, phi := b.enc.EncodeSample(prevData[i], prevData[i+1])
		clo, chi := b.enc.EncodeSample(curData[i], curData[i+1])

		low := mixByte(plo, clo, prevWeight, newWeight)
		high := mixByte(phi, chi, prevWeight, newWeight)

		b.buf.Pix[j] = low
		b.buf.Pix[j+1] = high
		b.buf.Pix[j+2] = high
		b.buf.Pix[j+3] = 255
	}

	b.step++
	if b.step > steps {
		// Cycle complete: buffer now holds exactly the encoding of cur.
		// Promote so steady ticks keep showing it, and drain the queue.
		b.step = 0
		b.cyclesCompleted++
		b.prev = b.cur
		if b.pending != nil {
			b.cur = b.pending
			b.pending = nil
		}
	}

	b.ticks++
	b.lastTickAt = time.Now()
	return b.buf, nil
}

// mixByte blends two encoded channels. Saturates so easing curves that
// overshoot [0, 1] (back/elastic families) cannot wrap the byte.
func mixByte(p, c byte, prevWeight, newWeight float64) byte {
	v := prevWeight*float64(p) + newWeight*float64(c)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
