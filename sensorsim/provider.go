package sensorsim

import (
	"context"

	"github.com/brannondorsey/emerge2016/depthtex"
)

// Provider defines the contract for depth frame acquisition.
//
// Implementations must guarantee:
//   - Start() returns immediately (non-blocking); frames arrive
//     asynchronously on the returned channel
//   - The channel stays open until Stop() and closes shortly after
//   - Sends never block: when the consumer lags, frames are dropped and
//     counted, not queued (latency over completeness)
//   - Stop() is idempotent
//   - Stats() is safe to call from any goroutine
//
// Frames on the channel carry the immutability contract: the provider
// never touches Frame.Data after sending it.
type Provider interface {
	// Start begins acquisition and returns the frame channel.
	Start(ctx context.Context) (<-chan *depthtex.Frame, error)

	// Stop shuts acquisition down and closes the frame channel.
	Stop() error

	// Stats returns an operational snapshot.
	Stats() SourceStats
}

// SourceStats is a snapshot of provider operational state.
type SourceStats struct {
	// FrameCount is the total number of frames produced.
	FrameCount uint64

	// FramesDropped counts frames discarded because the consumer lagged.
	FramesDropped uint64

	// DropRate is FramesDropped as a percentage of frames produced.
	DropRate float64

	// FPSTarget is the configured production rate.
	FPSTarget float64

	// FPSReal is the measured rate since Start.
	FPSReal float64

	// IsRunning is true between Start and Stop.
	IsRunning bool
}
