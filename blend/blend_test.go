package blend_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/brannondorsey/emerge2016/blend"
	"github.com/brannondorsey/emerge2016/depthtex"
)

// uniformFrame builds a width×height raw frame with every sample set to the
// same depth value, little-endian packed.
func uniformFrame(width, height int, depth uint16) *depthtex.Frame {
	data := make([]byte, 2*width*height)
	for i := 0; i < len(data); i += 2 {
		data[i] = byte(depth & 0xFF)
		data[i+1] = byte(depth >> 8)
	}
	return &depthtex.Frame{Data: data, Width: width, Height: height}
}

// encodeReference returns EncodeFrame output for byte-for-byte comparisons.
func encodeReference(t *testing.T, f *depthtex.Frame) []byte {
	t.Helper()
	buf, err := depthtex.NewEncoder(depthtex.DefaultEncoding()).EncodeFrame(f)
	if err != nil {
		t.Fatalf("reference encode failed: %v", err)
	}
	return buf.Pix
}

// --- Test 1: Tick before any frame ---

// TestTickBeforeSubmit validates Tick fails with ErrMissingFrame when no
// frame was ever submitted, rather than producing a zero buffer.
func TestTickBeforeSubmit(t *testing.T) {
	b, err := blend.New(blend.Config{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := b.Tick(); !errors.Is(err, blend.ErrMissingFrame) {
		t.Errorf("Tick() error = %v, want ErrMissingFrame", err)
	}
}

// --- Test 2: First-frame fast path ---

// TestFirstFrameFastPath validates that a single SubmitFrame followed by
// Tick reproduces exactly the plain encoding of that frame (weight-free
// path, previous frame absent), and stays there across repeated ticks.
func TestFirstFrameFastPath(t *testing.T) {
	b, err := blend.New(blend.Config{Width: 3, Height: 2})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	frame := uniformFrame(3, 2, 700)
	if err := b.SubmitFrame(frame); err != nil {
		t.Fatalf("SubmitFrame() failed: %v", err)
	}
	want := encodeReference(t, frame)

	for i := 0; i < 3; i++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("Tick() #%d failed: %v", i, err)
		}
		if !bytes.Equal(buf.Pix, want) {
			t.Fatalf("Tick() #%d diverged from EncodeFrame output", i)
		}
	}

	if st := b.Stats(); st.StepIndex != 0 || st.Fading {
		t.Errorf("fast path advanced fade state: step=%d fading=%v", st.StepIndex, st.Fading)
	}
}

// --- Test 3: Weight applied before increment ---

// TestWeightAppliedBeforeIncrement validates the round-trip scenario:
// previous = all-zero, current = all-2048 on a 2x2 sensor. The first tick of
// the fade must use stepIndex as it was BEFORE increment (weight 0), so
// every pixel matches EncodeSample(0, 0) = (255, 255).
func TestWeightAppliedBeforeIncrement(t *testing.T) {
	b, err := blend.New(blend.Config{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	prev := uniformFrame(2, 2, 0)
	cur := uniformFrame(2, 2, 2048)

	if err := b.SubmitFrame(prev); err != nil {
		t.Fatalf("SubmitFrame(prev) failed: %v", err)
	}
	if err := b.SubmitFrame(cur); err != nil {
		t.Fatalf("SubmitFrame(cur) failed: %v", err)
	}

	buf, err := b.Tick()
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}

	for px := 0; px < 4; px++ {
		got := buf.Pix[4*px : 4*px+4]
		if !bytes.Equal(got, []byte{255, 255, 255, 255}) {
			t.Fatalf("pixel %d = %v, want (255,255,255,255): weight not pre-increment", px, got)
		}
	}
}

// --- Test 4: Blend linearity ---

// TestBlendLinearity validates that at step k the output channel equals
// prevChannel*(1-k/N) + newChannel*(k/N), checked at k=0, k=N/2 and k=N for
// a synthetic pair with known distinct encodings.
func TestBlendLinearity(t *testing.T) {
	const steps = 4
	b, err := blend.New(blend.Config{Width: 2, Height: 2, TotalFadeSteps: steps})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// 0 encodes to (255, 255); 512 encodes to (127, 255)
	prev := uniformFrame(2, 2, 0)
	cur := uniformFrame(2, 2, 512)
	if err := b.SubmitFrame(prev); err != nil {
		t.Fatalf("SubmitFrame(prev) failed: %v", err)
	}
	if err := b.SubmitFrame(cur); err != nil {
		t.Fatalf("SubmitFrame(cur) failed: %v", err)
	}

	for k := 0; k <= steps; k++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("Tick() at k=%d failed: %v", k, err)
		}

		if k != 0 && k != steps/2 && k != steps {
			continue
		}

		w := float64(k) / float64(steps)
		wantLow := byte((1-w)*255 + w*127)
		got := buf.Pix[0]
		if got != wantLow {
			t.Errorf("k=%d: low channel = %d, want %d", k, got, wantLow)
		}
		if buf.Pix[1] != 255 || buf.Pix[2] != buf.Pix[1] || buf.Pix[3] != 255 {
			t.Errorf("k=%d: GBA = (%d,%d,%d), want (255,255,255)", k, buf.Pix[1], buf.Pix[2], buf.Pix[3])
		}
	}
}

// --- Test 5: Fade completion and steady state ---

// TestFadeCompletes validates that the tick at stepIndex == TotalFadeSteps
// reproduces EncodeFrame(current) exactly (newWeight reached 1), that the
// cycle then wraps, and that further ticks hold the completed frame steady
// instead of re-fading.
func TestFadeCompletes(t *testing.T) {
	const steps = 5
	b, err := blend.New(blend.Config{Width: 2, Height: 2, TotalFadeSteps: steps})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	cur := uniformFrame(2, 2, 300)
	if err := b.SubmitFrame(uniformFrame(2, 2, 1800)); err != nil {
		t.Fatalf("SubmitFrame(prev) failed: %v", err)
	}
	if err := b.SubmitFrame(cur); err != nil {
		t.Fatalf("SubmitFrame(cur) failed: %v", err)
	}
	want := encodeReference(t, cur)

	// Full cycle: steps+1 ticks cover stepIndex 0..steps inclusive
	var last []byte
	for k := 0; k <= steps; k++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("Tick() at k=%d failed: %v", k, err)
		}
		last = buf.Pix
	}
	if !bytes.Equal(last, want) {
		t.Fatal("final tick of cycle diverged from EncodeFrame(current)")
	}

	st := b.Stats()
	if st.CyclesCompleted != 1 || st.StepIndex != 0 || st.Fading {
		t.Errorf("after cycle: cycles=%d step=%d fading=%v, want 1/0/false",
			st.CyclesCompleted, st.StepIndex, st.Fading)
	}

	// Steady state: no pulsing back toward the previous frame
	for i := 0; i < 3; i++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("steady Tick() #%d failed: %v", i, err)
		}
		if !bytes.Equal(buf.Pix, want) {
			t.Fatalf("steady Tick() #%d re-faded instead of holding current frame", i)
		}
	}
}

// --- Test 6: ReplaceTarget policy (historical default) ---

// TestReplaceTargetMidFade validates the authoritative mid-fade contract:
// a frame submitted mid-flight replaces the fade target immediately, the
// previous frame is unchanged and stepIndex is NOT reset.
func TestReplaceTargetMidFade(t *testing.T) {
	const steps = 10
	b, err := blend.New(blend.Config{Width: 2, Height: 2, TotalFadeSteps: steps})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := b.SubmitFrame(uniformFrame(2, 2, 0)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}
	if err := b.SubmitFrame(uniformFrame(2, 2, 512)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}

	// Advance mid-fade
	for k := 0; k < 3; k++ {
		if _, err := b.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	replacement := uniformFrame(2, 2, 900)
	if err := b.SubmitFrame(replacement); err != nil {
		t.Fatalf("SubmitFrame(replacement) failed: %v", err)
	}

	st := b.Stats()
	if st.MidFadeReplacements != 1 {
		t.Errorf("MidFadeReplacements = %d, want 1", st.MidFadeReplacements)
	}
	if st.StepIndex != 3 {
		t.Errorf("StepIndex = %d, want 3 (progress must not reset)", st.StepIndex)
	}

	// Remaining ticks of the same cycle land on the replacement frame
	want := encodeReference(t, replacement)
	var last []byte
	for k := 3; k <= steps; k++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		last = buf.Pix
	}
	if !bytes.Equal(last, want) {
		t.Error("fade did not land on the replacement target")
	}
}

// --- Test 7: RestartFade policy ---

// TestRestartFadeMidFade validates that RestartFade abandons the in-flight
// cycle: the old target becomes the fade source and stepIndex returns to 0,
// so the next tick shows the old target untouched.
func TestRestartFadeMidFade(t *testing.T) {
	const steps = 10
	b, err := blend.New(blend.Config{Width: 2, Height: 2, TotalFadeSteps: steps, Policy: blend.RestartFade})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	oldTarget := uniformFrame(2, 2, 512)
	if err := b.SubmitFrame(uniformFrame(2, 2, 0)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}
	if err := b.SubmitFrame(oldTarget); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}
	for k := 0; k < 4; k++ {
		if _, err := b.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	if err := b.SubmitFrame(uniformFrame(2, 2, 1500)); err != nil {
		t.Fatalf("SubmitFrame(new) failed: %v", err)
	}

	st := b.Stats()
	if st.FadeRestarts != 1 || st.StepIndex != 0 {
		t.Fatalf("restarts=%d step=%d, want 1/0", st.FadeRestarts, st.StepIndex)
	}

	buf, err := b.Tick()
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if !bytes.Equal(buf.Pix, encodeReference(t, oldTarget)) {
		t.Error("first tick after restart should reproduce the promoted old target")
	}
}

// --- Test 8: Queue policy ---

// TestQueueMidFade validates latest-wins queueing: frames submitted
// mid-fade wait for the cycle to complete (overwriting each other, counted
// as PendingDrops), then the survivor becomes the next fade target.
func TestQueueMidFade(t *testing.T) {
	const steps = 4
	b, err := blend.New(blend.Config{Width: 2, Height: 2, TotalFadeSteps: steps, Policy: blend.Queue})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := b.SubmitFrame(uniformFrame(2, 2, 0)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}
	if err := b.SubmitFrame(uniformFrame(2, 2, 512)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}
	if _, err := b.Tick(); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}

	// Two mid-fade submissions: the first queued frame is dropped
	if err := b.SubmitFrame(uniformFrame(2, 2, 800)); err != nil {
		t.Fatalf("SubmitFrame(queued #1) failed: %v", err)
	}
	survivor := uniformFrame(2, 2, 1000)
	if err := b.SubmitFrame(survivor); err != nil {
		t.Fatalf("SubmitFrame(queued #2) failed: %v", err)
	}

	if st := b.Stats(); st.PendingDrops != 1 {
		t.Errorf("PendingDrops = %d, want 1", st.PendingDrops)
	}

	// Finish the in-flight cycle, then run the follow-up cycle
	for k := 1; k <= steps; k++ {
		if _, err := b.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}
	var last []byte
	for k := 0; k <= steps; k++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("follow-up Tick() failed: %v", err)
		}
		last = buf.Pix
	}
	if !bytes.Equal(last, encodeReference(t, survivor)) {
		t.Error("queued fade did not land on the surviving pending frame")
	}
}

// --- Test 9: Resolution validation ---

// TestSubmitFrameWrongResolution validates a frame that disagrees with the
// configured sensor resolution is rejected at the call site.
func TestSubmitFrameWrongResolution(t *testing.T) {
	b, err := blend.New(blend.Config{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := b.SubmitFrame(uniformFrame(2, 2, 100)); !errors.Is(err, depthtex.ErrInvalidFrameLength) {
		t.Errorf("SubmitFrame() error = %v, want ErrInvalidFrameLength", err)
	}
}

// --- Test 10: Concurrent submit and tick ---

// TestConcurrentSubmitAndTick validates SubmitFrame from a producer
// goroutine interleaved with Tick from a render goroutine never tears the
// buffer: every returned buffer has a constant 255 alpha lane.
//
// Run with -race to exercise the serialization guarantee.
func TestConcurrentSubmitAndTick(t *testing.T) {
	b, err := blend.New(blend.Config{Width: 8, Height: 8, TotalFadeSteps: 5})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := b.SubmitFrame(uniformFrame(8, 8, 256)); err != nil {
		t.Fatalf("SubmitFrame failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = b.SubmitFrame(uniformFrame(8, 8, uint16(i*10%2048)))
		}
	}()

	for i := 0; i < 200; i++ {
		buf, err := b.Tick()
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		for px := 0; px < 64; px++ {
			if buf.Pix[4*px+3] != 255 {
				t.Fatalf("alpha lane torn at pixel %d", px)
			}
		}
	}
	wg.Wait()

	if st := b.Stats(); st.FramesSubmitted != 201 {
		t.Errorf("FramesSubmitted = %d, want 201", st.FramesSubmitted)
	}
}
