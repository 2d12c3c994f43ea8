// Package arsdk encodes and decodes the ARNetworkAL wire protocol spoken
// by the Parrot Jumping Sumo. A datagram carries one or more frames:
//
//	[ data type u8 ][ buffer id u8 ][ sequence u8 ][ total size u32 LE ][ payload ]
//
// Total size includes the 7-byte header. Sequence numbers are per-buffer
// counters that wrap at 255.
package arsdk

import (
	"encoding/binary"
	"fmt"
)

// Frame data types.
const (
	TypeAck            uint8 = 1
	TypeData           uint8 = 2
	TypeDataLowLatency uint8 = 3
	TypeDataWithAck    uint8 = 4
)

// Buffer ids used by the Jumping Sumo.
const (
	BufferPing     uint8 = 0   // robot heartbeat, echoed back on BufferPong
	BufferPong     uint8 = 1   // controller reply to a ping
	BufferPiloting uint8 = 10  // PCMD stream and posture changes
	BufferCommand  uint8 = 11  // acknowledged commands
	BufferVideoAck uint8 = 13  // controller fragment acknowledgments
	BufferVideo    uint8 = 125 // MJPEG fragments from the robot
)

// AckOffset maps a data buffer to its acknowledgment buffer: acks for
// buffer N arrive on buffer N+AckOffset with the acked sequence number
// as the single payload byte.
const AckOffset uint8 = 128

// HeaderSize is the fixed frame header size.
const HeaderSize = 7

// Frame is one ARNetworkAL frame.
type Frame struct {
	Type    uint8
	Buffer  uint8
	Seq     uint8
	Payload []byte
}

// Encode serializes the frame into wire bytes.
func (f Frame) Encode() []byte {
	buf := make([]byte, HeaderSize+len(f.Payload))
	buf[0] = f.Type
	buf[1] = f.Buffer
	buf[2] = f.Seq
	binary.LittleEndian.PutUint32(buf[3:], uint32(HeaderSize+len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf
}

// Ack returns the acknowledgment frame for f, addressed to f's ack
// buffer and carrying f's sequence number as payload.
func (f Frame) Ack(seq uint8) Frame {
	return Frame{
		Type:    TypeAck,
		Buffer:  f.Buffer + AckOffset,
		Seq:     seq,
		Payload: []byte{f.Seq},
	}
}

// DecodeFrames parses every frame packed into one datagram. Payloads
// alias the input; callers retaining one past the next read must copy.
func DecodeFrames(datagram []byte) ([]Frame, error) {
	var frames []Frame
	rest := datagram
	for len(rest) > 0 {
		if len(rest) < HeaderSize {
			return nil, fmt.Errorf("truncated frame header: %d of %d bytes", len(rest), HeaderSize)
		}
		size := binary.LittleEndian.Uint32(rest[3:7])
		if size < HeaderSize {
			return nil, fmt.Errorf("frame size %d below header size", size)
		}
		if int(size) > len(rest) {
			return nil, fmt.Errorf("frame size %d exceeds datagram remainder %d", size, len(rest))
		}
		f := Frame{Type: rest[0], Buffer: rest[1], Seq: rest[2]}
		if size > HeaderSize {
			f.Payload = rest[HeaderSize:size]
		}
		frames = append(frames, f)
		rest = rest[size:]
	}
	return frames, nil
}
