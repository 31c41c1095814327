package internal

// Stats returns an operational snapshot (implements Blender.Stats).
//
// Semantics:
//   - Non-blocking beyond the state mutex (no I/O, no allocation of note)
//   - Snapshot, not live view: values may be momentarily stale
//
// Use cases:
//   - Monitor MidFadeReplacements (climbing count means the sensor outpaces
//     the fade and the output will stutter)
//   - Verify the render loop is actually ticking (Ticks, LastTickAt)
//   - Queue policy health (PendingDrops)
func (b *blender) Stats() BlenderStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BlenderStats{
		FramesSubmitted:     b.framesSubmitted,
		MidFadeReplacements: b.midFadeReplacements,
		FadeRestarts:        b.fadeRestarts,
		PendingDrops:        b.pendingDrops,
		Ticks:               b.ticks,
		CyclesCompleted:     b.cyclesCompleted,
		StepIndex:           b.step,
		Fading:              b.prev != nil && b.prev != b.cur,
		LastSubmitAt:        b.lastSubmitAt,
		LastTickAt:          b.lastTickAt,
	}
}
