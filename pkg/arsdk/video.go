package arsdk

import (
	"encoding/binary"
	"fmt"
)

// videoHeaderSize is the fragment header ahead of the JPEG bytes.
const videoHeaderSize = 5

// VideoFragment is one slice of an MJPEG frame from the video buffer:
//
//	[ frame number u16 LE ][ flags u8 ][ fragment index u8 ][ fragments per frame u8 ][ JPEG bytes ]
type VideoFragment struct {
	FrameNumber    uint16
	Flags          uint8
	Index          uint8
	FragmentsTotal uint8
	Data           []byte
}

// ParseVideoFragment splits a video buffer payload into its header and
// image bytes. Data aliases the payload.
func ParseVideoFragment(payload []byte) (VideoFragment, error) {
	if len(payload) < videoHeaderSize {
		return VideoFragment{}, fmt.Errorf("video fragment too short: %d bytes", len(payload))
	}
	return VideoFragment{
		FrameNumber:    binary.LittleEndian.Uint16(payload[0:2]),
		Flags:          payload[2],
		Index:          payload[3],
		FragmentsTotal: payload[4],
		Data:           payload[videoHeaderSize:],
	}, nil
}

// VideoAck builds the acknowledgment payload for a video frame. Bit i
// of the 128-bit mask (split into high and low words) marks fragment i
// as received.
func VideoAck(frameNumber uint16, high, low uint64) []byte {
	p := make([]byte, 18)
	binary.LittleEndian.PutUint16(p[0:2], frameNumber)
	binary.LittleEndian.PutUint64(p[2:10], high)
	binary.LittleEndian.PutUint64(p[10:18], low)
	return p
}
