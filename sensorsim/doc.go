// Package sensorsim generates synthetic depth frames for development and
// testing without a physical sensor attached.
//
// The simulator animates a travelling radial ripple across the configured
// resolution and packs it exactly the way the sensor would: little-endian
// 16-bit samples in the configured raw range. Frames are delivered on a
// channel with drop-don't-queue semantics so a slow consumer sees fresh
// depth, not a backlog.
//
// # Quick Start
//
//	sim, err := sensorsim.NewSimulator(sensorsim.SimConfig{
//	    Width:  640,
//	    Height: 480,
//	    FPS:    30,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sim.Stop()
//
//	frames, err := sim.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for frame := range frames {
//	    if err := blender.SubmitFrame(frame); err != nil {
//	        slog.Warn("sensorsim: frame rejected", "error", err)
//	    }
//	}
//
// The Provider interface matches what a real acquisition layer would
// implement, so the rest of the pipeline does not care whether frames come
// from hardware or the ripple generator.
package sensorsim
