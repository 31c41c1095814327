package depthtex

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Package errors. All validation failures wrap one of these sentinels so
// callers can branch with errors.Is.
var (
	// ErrInvalidFrameLength indicates a raw frame whose byte length is odd
	// or does not match the declared Width×Height sample count.
	ErrInvalidFrameLength = errors.New("depthtex: invalid frame length")
)

// Frame represents one raw depth frame with immutability contract for
// zero-copy sharing.
//
// Data holds Width×Height samples in row-major order, each sample stored as
// two consecutive bytes (low byte first) forming an integer in [0, 2048].
//
// Contract:
//   - Producer MUST NOT modify Data after handing the frame off
//   - Consumers (encoder, blender) only read Data
type Frame struct {
	// Data contains the raw little-endian depth bytes (2 per sample).
	Data []byte

	// Width of the frame in samples
	Width int

	// Height of the frame in samples
	Height int

	// Timestamp when the frame was captured (source time, not processing time)
	Timestamp time.Time

	// Seq is a monotonic sequence number assigned by the producer.
	Seq uint64

	// TraceID is a unique identifier for distributed tracing.
	TraceID string
}

// SampleCount returns the number of depth samples the frame declares.
func (f *Frame) SampleCount() int {
	return f.Width * f.Height
}

// Validate checks the structural invariants of the frame.
//
// Returns an error wrapping ErrInvalidFrameLength when the byte length is
// odd (a truncated sample) or disagrees with Width×Height. A malformed
// frame is reported, never silently trimmed.
func (f *Frame) Validate() error {
	if len(f.Data)%2 != 0 {
		return fmt.Errorf("%w: %d bytes (odd, trailing half-sample)", ErrInvalidFrameLength, len(f.Data))
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrameLength, f.Width, f.Height)
	}
	if want := 2 * f.SampleCount(); len(f.Data) != want {
		return fmt.Errorf("%w: %d bytes, want %d for %dx%d", ErrInvalidFrameLength, len(f.Data), want, f.Width, f.Height)
	}
	return nil
}

// PixelBuffer is the RGBA output of the encoder: 4 bytes per sample,
// row-major, matching the sensor resolution.
//
// A buffer has a single owner and is overwritten in place on every update.
// It is never left partially stale: an encode or blend either writes the
// whole buffer or fails before touching it.
type PixelBuffer struct {
	// Pix holds RGBA bytes, 4 per pixel.
	Pix []byte

	// Width in pixels
	Width int

	// Height in pixels
	Height int
}

// NewPixelBuffer allocates a zeroed buffer for a width×height sensor.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]byte, 4*width*height),
		Width:  width,
		Height: height,
	}
}

// Image wraps the buffer as an *image.NRGBA without copying.
//
// The returned image aliases Pix: it reflects every subsequent overwrite of
// the buffer. Callers that need a stable snapshot must copy first (see the
// snapshot package).
func (b *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
