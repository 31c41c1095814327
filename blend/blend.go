package blend

import (
	"github.com/brannondorsey/emerge2016/blend/internal"
	"github.com/brannondorsey/emerge2016/depthtex"
)

// Public API - re-export internal types as stable contract

// ConflictPolicy selects what SubmitFrame does when a fade is mid-flight.
type ConflictPolicy = internal.ConflictPolicy

const (
	// ReplaceTarget overwrites the fade target in place, keeping fade
	// progress (historical default; may stutter under rapid submission).
	ReplaceTarget = internal.ReplaceTarget
	// RestartFade promotes the current frame and starts a fresh fade
	// toward the new one.
	RestartFade = internal.RestartFade
	// Queue holds the newest frame until the in-flight fade completes
	// (latest-wins: an unconsumed pending frame is overwritten and counted).
	Queue = internal.Queue
)

// Config holds blender construction parameters.
type Config = internal.Config

// BlenderStats is a snapshot of blender operational state.
type BlenderStats = internal.BlenderStats

// Public API errors - re-export internal errors as stable contract
var (
	ErrMissingFrame      = internal.ErrMissingFrame
	ErrFrameSizeMismatch = internal.ErrFrameSizeMismatch
)

// Blender is the public interface for depth frame cross-fading.
//
// All methods are safe for concurrent use; SubmitFrame and Tick serialize
// on internal state so a capture goroutine and a render loop never tear the
// shared pixel buffer.
type Blender interface {
	// SubmitFrame stores raw as the new fade target.
	//
	// Semantics:
	//   - First frame: becomes current, output degrades to its plain
	//     encoding until a second frame arrives
	//   - Idle (stepIndex 0): current is promoted to previous, raw becomes
	//     current, a fresh fade begins on the next Tick
	//   - Mid-fade: per the configured ConflictPolicy
	//
	// Contract: raw.Data MUST NOT be modified after submission
	// (immutability contract, shared by reference).
	//
	// Returns an error wrapping depthtex.ErrInvalidFrameLength when raw
	// does not match the configured resolution.
	SubmitFrame(raw *depthtex.Frame) error

	// Tick advances the fade one step and returns the owned pixel buffer.
	//
	// The buffer is returned by reference and overwritten on the next
	// Tick; the caller is expected to mark any derived texture as needing
	// re-upload, not to hold the slice across ticks.
	//
	// Errors: ErrMissingFrame before any SubmitFrame;
	// ErrFrameSizeMismatch if the frame pair diverged in size (guarded,
	// structurally impossible through this API). On error the buffer
	// retains its previous valid content.
	Tick() (*depthtex.PixelBuffer, error)

	// Stats returns an operational snapshot (non-blocking, may be
	// momentarily stale).
	Stats() BlenderStats
}

// New creates a Blender for the given configuration.
//
// Zero-valued optional fields fall back to defaults: 25 fade steps, the
// Kinect encoding convention, linear easing, ReplaceTarget conflict policy.
// Width and Height are required.
func New(cfg Config) (Blender, error) {
	return internal.NewBlender(cfg)
}
