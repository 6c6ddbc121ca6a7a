package device

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/config"
)

// LanesPerPeerBuffer is kMaxIntraNodeSize expressed in bf16 lanes.
const LanesPerPeerBuffer = config.MaxIntraNodeSize / 2

// PeerBuffer is a contiguous region of "device memory" mapped for
// direct read/write by every peer in the group. All PeerBuffers in a
// group have identical size. The Go realization backs this with a
// single shared slice: every goroutine in the process already
// observes the same array, which is the property real peer-mapped
// memory gives across devices.
//
// The second half of the buffer is the relay scratch region the HCM
// kernel uses.
type PeerBuffer struct {
	Data []bfloat16.BFloat16
}

// NewPeerBuffer allocates and zeroes one PeerBuffer.
func NewPeerBuffer() *PeerBuffer {
	return &PeerBuffer{Data: make([]bfloat16.BFloat16, LanesPerPeerBuffer)}
}

// RelayScratch returns the second half of the buffer. Only HCMKernel
// reserves this region; one-shot and two-shot stage into and read from
// the full buffer.
func (b *PeerBuffer) RelayScratch() []bfloat16.BFloat16 {
	half := len(b.Data) / 2
	return b.Data[half:]
}

// HCMStaging returns the first half of the buffer, the region the HCM
// kernel stages its input into (mirroring RelayScratch's split).
func (b *PeerBuffer) HCMStaging() []bfloat16.BFloat16 {
	half := len(b.Data) / 2
	return b.Data[:half]
}
