package sumo

import (
	"sync"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
)

// videoStream reassembles MJPEG fragments into frames and keeps the
// newest complete one. Fragments may arrive out of order within a
// frame; a fragment for a different frame number abandons the current
// frame and starts over.
type videoStream struct {
	mu     sync.RWMutex
	latest []byte

	started     bool
	frameNumber uint16
	total       int
	count       int
	maskHigh    uint64
	maskLow     uint64
	fragments   [][]byte
}

func newVideoStream() *videoStream {
	return &videoStream{}
}

// feed consumes one fragment and returns the acknowledgment payload
// reflecting everything received for the current frame so far.
func (v *videoStream) feed(frag arsdk.VideoFragment) []byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.started || frag.FrameNumber != v.frameNumber {
		v.started = true
		v.frameNumber = frag.FrameNumber
		v.total = int(frag.FragmentsTotal)
		v.count = 0
		v.maskHigh, v.maskLow = 0, 0
		v.fragments = make([][]byte, v.total)
	}

	if i := int(frag.Index); i < v.total && v.fragments[i] == nil {
		data := make([]byte, len(frag.Data))
		copy(data, frag.Data)
		v.fragments[i] = data
		v.count++
		if i < 64 {
			v.maskLow |= 1 << i
		} else {
			v.maskHigh |= 1 << (i - 64)
		}
	}

	if v.total > 0 && v.count == v.total {
		v.assembleLocked()
	}

	return arsdk.VideoAck(v.frameNumber, v.maskHigh, v.maskLow)
}

func (v *videoStream) assembleLocked() {
	size := 0
	for _, f := range v.fragments {
		size += len(f)
	}
	frame := make([]byte, 0, size)
	for _, f := range v.fragments {
		frame = append(frame, f...)
	}
	// Complete frames start with the JPEG SOI marker; anything else
	// is a torn frame and gets dropped.
	if len(frame) >= 2 && frame[0] == 0xFF && frame[1] == 0xD8 {
		v.latest = frame
	}
}

// frame returns a copy of the newest complete frame, comma-ok.
func (v *videoStream) frame() ([]byte, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.latest == nil {
		return nil, false
	}
	out := make([]byte, len(v.latest))
	copy(out, v.latest)
	return out, true
}
