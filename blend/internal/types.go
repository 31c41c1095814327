// Package internal implements the depth frame blender.
//
// This package is INTERNAL - clients MUST use the public API in the parent
// package. Reason: allows internal refactoring without breaking changes.
package internal

import (
	"errors"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/brannondorsey/emerge2016/depthtex"
)

var (
	// ErrMissingFrame means Tick was invoked before any SubmitFrame.
	ErrMissingFrame = errors.New("blend: no frame submitted yet")

	// ErrFrameSizeMismatch means previous and current frames differ in
	// length during a blend tick. Structurally impossible through the
	// public API (SubmitFrame validates against the configured
	// resolution), but guarded so a corrupted buffer is never produced.
	ErrFrameSizeMismatch = errors.New("blend: previous/current frame size mismatch")
)

// DefaultTotalFadeSteps is the number of ticks to complete one cross-fade.
const DefaultTotalFadeSteps = 25

// ConflictPolicy selects what SubmitFrame does when a fade is mid-flight.
type ConflictPolicy int

const (
	ReplaceTarget ConflictPolicy = iota
	RestartFade
	Queue
)

// String returns a human-readable policy name.
func (p ConflictPolicy) String() string {
	switch p {
	case ReplaceTarget:
		return "replace_target"
	case RestartFade:
		return "restart_fade"
	case Queue:
		return "queue"
	default:
		return "unknown"
	}
}

// Config holds blender construction parameters.
type Config struct {
	// Width and Height fix the sensor resolution. Required.
	Width  int
	Height int

	// TotalFadeSteps is the number of ticks to complete one cross-fade
	// (default 25).
	TotalFadeSteps int

	// Encoding is the sensor reporting convention (defaults to the
	// Kinect range, see depthtex.DefaultEncoding).
	Encoding depthtex.Encoding

	// Policy selects mid-fade submission handling (default ReplaceTarget).
	Policy ConflictPolicy

	// Easing shapes the fade weight over the step index (default
	// ease.Linear). Must map t=0 to 0 and t=d to 1 for the fade to start
	// and end exactly on the two frames.
	Easing ease.TweenFunc
}

// BlenderStats is a snapshot of blender operational state.
type BlenderStats struct {
	// FramesSubmitted counts accepted SubmitFrame calls.
	FramesSubmitted uint64

	// MidFadeReplacements counts fade targets overwritten mid-flight
	// (ReplaceTarget policy). Non-zero under rapid submission; expect
	// visible discontinuities when it climbs.
	MidFadeReplacements uint64

	// FadeRestarts counts fades abandoned and restarted (RestartFade policy).
	FadeRestarts uint64

	// PendingDrops counts queued frames overwritten before promotion
	// (Queue policy, latest-wins).
	PendingDrops uint64

	// Ticks counts successful Tick calls.
	Ticks uint64

	// CyclesCompleted counts fade cycles that ran to their final step.
	CyclesCompleted uint64

	// StepIndex is the current position in the fade cycle, in
	// [0, TotalFadeSteps].
	StepIndex int

	// Fading is true while a cross-fade between two distinct frames is
	// mid-flight.
	Fading bool

	// LastSubmitAt is the arrival time of the newest accepted frame.
	LastSubmitAt time.Time

	// LastTickAt is the time of the last successful Tick.
	LastTickAt time.Time
}
