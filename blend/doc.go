// Package blend cross-fades successive depth frames into one displacement
// texture buffer.
//
// Philosophy: "The renderer drives time. The blender owns the buffer."
//
// A sensor delivers raw depth frames at its own cadence; the renderer ticks
// at display refresh. The blender sits between the two: SubmitFrame stores
// the newest frame as the fade target, and every Tick produces one
// interpolated pixel buffer, advancing a fixed-step cross-fade from the
// previous frame to the current one.
//
// Design:
//   - Externally driven Tick (no hidden self-scheduling loop): the caller
//     controls pacing, pausing and teardown
//   - Single owned PixelBuffer, overwritten in place each Tick
//   - Mutex-serialized state: SubmitFrame may arrive from a capture
//     goroutine while Tick runs on the render loop
//   - Configurable mid-fade conflict policy and easing curve
//
// # Quick Start
//
//	b, err := blend.New(blend.Config{Width: 640, Height: 480})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Sensor side (any goroutine):
//	if err := b.SubmitFrame(frame); err != nil {
//	    slog.Warn("blend: frame rejected", "error", err)
//	}
//
//	// Render loop, once per display refresh:
//	buf, err := b.Tick()
//	if err != nil {
//	    return err
//	}
//	markTextureDirty(buf) // consumer re-uploads the texture
//
// # Fade Cycle
//
// A cycle runs stepIndex = 0..TotalFadeSteps inclusive. Each Tick computes
// its weight from stepIndex BEFORE incrementing, so the first tick of a
// cycle shows the previous frame untouched and the final tick reproduces
// the encoding of the current frame byte-for-byte. When stepIndex exceeds
// TotalFadeSteps it wraps to 0 and the current frame is promoted to
// previous, so further ticks hold the completed frame steady instead of
// re-fading.
//
// # Mid-Fade Submissions
//
// A frame submitted while a fade is mid-flight is handled per
// ConflictPolicy. The historical behavior (and default) is ReplaceTarget:
// the fade target is overwritten without resetting progress, which can show
// a visible discontinuity under rapid submission. That is an accepted
// limitation, kept as the authoritative contract; RestartFade and Queue are
// offered for deployments that prefer otherwise.
package blend
