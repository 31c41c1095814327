package depthtex

import "fmt"

// Encoding describes the sensor reporting convention the encoder maps from.
//
// The defaults match the historical Kinect range: samples in [0, 2048] with
// the confidence split at 1024. Both are configuration, not universal
// constants — a different sensor revision reports differently.
type Encoding struct {
	// RawMax is the top of the raw sample range (default 2048).
	RawMax int

	// SplitThreshold separates confident from out-of-range readings
	// (default 1024).
	SplitThreshold int
}

// DefaultEncoding returns the Kinect-style convention.
func DefaultEncoding() Encoding {
	return Encoding{RawMax: 2048, SplitThreshold: 1024}
}

// Encoder is a stateless, deterministic sample-to-pixel transform.
// Safe for concurrent use; it holds only the immutable Encoding.
type Encoder struct {
	enc Encoding
}

// NewEncoder creates an encoder. Zero-valued Encoding fields fall back to
// the defaults.
func NewEncoder(enc Encoding) *Encoder {
	def := DefaultEncoding()
	if enc.RawMax <= 0 {
		enc.RawMax = def.RawMax
	}
	if enc.SplitThreshold <= 0 {
		enc.SplitThreshold = def.SplitThreshold
	}
	return &Encoder{enc: enc}
}

// Encoding returns the convention the encoder was built with.
func (e *Encoder) Encoding() Encoding {
	return e.enc
}

// EncodeSample maps one raw little-endian sample to its coarse/fine byte
// pair.
//
// total = hi<<8 | lo. Confident readings (total ≤ split) put the linear
// remap in the low channel and saturate the high channel; readings past the
// split zero the low channel and remap the remainder into the high channel.
//
// Any byte pair is accepted: values far outside the configured range remap
// to out-of-range intermediates, which packing saturates to [0, 255].
func (e *Encoder) EncodeSample(lo, hi byte) (low, high byte) {
	total := int(hi)<<8 | int(lo)
	split := float64(e.enc.SplitThreshold)

	if total > e.enc.SplitThreshold {
		return 0, clampByte(lerp(float64(e.enc.RawMax-total), 0, split, 255, 0))
	}
	return clampByte(lerp(float64(total), 0, split, 255, 0)), 255
}

// EncodeFrame encodes a whole raw frame into a freshly allocated
// PixelBuffer. Fails with ErrInvalidFrameLength on a malformed frame.
func (e *Encoder) EncodeFrame(f *Frame) (*PixelBuffer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	buf := NewPixelBuffer(f.Width, f.Height)
	if err := e.EncodeInto(buf, f); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto encodes a whole raw frame into dst, overwriting it in place.
//
// Semantics:
//   - Pure computation, bounded time, no allocation
//   - All-or-nothing: dst is untouched if validation fails
//   - Single writer assumed; see the blend package for serialization
func (e *Encoder) EncodeInto(dst *PixelBuffer, f *Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if len(dst.Pix) != 4*f.SampleCount() {
		return fmt.Errorf("depthtex: pixel buffer %dx%d does not fit frame %dx%d",
			dst.Width, dst.Height, f.Width, f.Height)
	}

	for i, j := 0, 0; i < len(f.Data); i, j = i+2, j+4 {
		low, high := e.EncodeSample(f.Data[i], f.Data[i+1])
		dst.Pix[j] = low
		dst.Pix[j+1] = high
		dst.Pix[j+2] = high
		dst.Pix[j+3] = 255
	}
	return nil
}

// lerp is the standard linear remap of value from [inMin, inMax] to
// [outMin, outMax]. Deliberately unclamped: callers that need saturation
// clamp explicitly (clampByte).
func lerp(value, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

// clampByte saturates to [0, 255] and truncates. Saturation (rather than
// modular wraparound) keeps out-of-range sensor values at the nearest
// representable intensity.
func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
