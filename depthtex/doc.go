// Package depthtex encodes raw depth-sensor frames into a displacement
// texture buffer.
//
// A Kinect-style sensor reports each pixel as a little-endian 16-bit value
// in the [0, 2048] range. The renderer wants that field as a 2D texture it
// can sample in the vertex stage, so the encoder splits every sample into a
// coarse/fine byte pair and packs it as RGBA:
//
//	R = low channel (fine)
//	G = high channel (coarse)
//	B = high channel (duplicated)
//	A = 255
//
// The shader reconstructs the displacement as (R + G) * 0.5, which stays
// monotone across the split threshold (see the shader package).
//
// # Quick Start
//
//	enc := depthtex.NewEncoder(depthtex.DefaultEncoding())
//
//	frame := &depthtex.Frame{
//	    Data:   rawBytes, // 2 bytes per sample, little-endian
//	    Width:  640,
//	    Height: 480,
//	}
//
//	buf, err := enc.EncodeFrame(frame)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	uploadTexture(buf.Image()) // renderer side
//
// # Encoding Convention
//
// Samples at or below the split threshold (default 1024) are considered
// confident readings: the low channel carries a full-resolution linear remap
// and the high channel saturates at 255. Samples above the threshold are
// low-confidence / out-of-range: the low channel drops to zero and the high
// channel alone carries the remainder. The linear remap itself is unclamped
// (mirroring the sensor convention); packing into a byte saturates to
// [0, 255] rather than wrapping.
//
// # Immutability Contract
//
// Frame.Data is shared by reference through the pipeline and MUST NOT be
// modified after handoff to the encoder or blender. The encoder only ever
// reads it.
package depthtex
