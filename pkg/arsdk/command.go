package arsdk

import "encoding/binary"

// ProjectJumpingSumo is the ARSDK project id carried by every command.
const ProjectJumpingSumo uint8 = 3

// Command classes within the Jumping Sumo project.
const (
	ClassPiloting       uint8 = 0
	ClassAnimations     uint8 = 2
	ClassMediaRecord    uint8 = 8
	ClassMediaStreaming uint8 = 18
)

// Command ids, scoped by class.
const (
	PilotingPCMD    uint16 = 0
	PilotingPosture uint16 = 1

	AnimationsJumpStop        uint16 = 0
	AnimationsJumpCancel      uint16 = 1
	AnimationsJumpLoad        uint16 = 2
	AnimationsJump            uint16 = 3
	AnimationsSimpleAnimation uint16 = 4

	MediaRecordPicture        uint16 = 0
	MediaStreamingVideoEnable uint16 = 0
)

// Command is one encoded command and the channel it travels on. The
// payload is [ project u8 ][ class u8 ][ command id u16 LE ][ args ].
type Command struct {
	Buffer  uint8
	Type    uint8
	Payload []byte
}

// Frame wraps the command in a wire frame carrying seq.
func (c Command) Frame(seq uint8) Frame {
	return Frame{Type: c.Type, Buffer: c.Buffer, Seq: seq, Payload: c.Payload}
}

// Acknowledged reports whether the robot must ack this command.
func (c Command) Acknowledged() bool {
	return c.Type == TypeDataWithAck
}

// PCMD is the piloting command, streamed un-acknowledged at the drive
// tick rate. flag=true applies speed and turn; flag=false coasts.
func PCMD(flag bool, speed, turn int8) Command {
	f := byte(0)
	if flag {
		f = 1
	}
	return Command{
		Buffer:  BufferPiloting,
		Type:    TypeData,
		Payload: commandPayload(ClassPiloting, PilotingPCMD, f, byte(speed), byte(turn)),
	}
}

// ChangePosture switches the robot's stance. Sent acknowledged on the
// piloting channel, unlike the other acknowledged commands.
func ChangePosture(p Posture) Command {
	return Command{
		Buffer:  BufferPiloting,
		Type:    TypeDataWithAck,
		Payload: commandPayload(ClassPiloting, PilotingPosture, u32Arg(uint32(p))...),
	}
}

// Jump fires a loaded jump of the given kind.
func Jump(k JumpKind) Command {
	return ackCommand(ClassAnimations, AnimationsJump, u32Arg(uint32(k))...)
}

// JumpLoad compresses the jump spring without firing it.
func JumpLoad() Command {
	return ackCommand(ClassAnimations, AnimationsJumpLoad)
}

// JumpCancel releases a loaded jump without firing it.
func JumpCancel() Command {
	return ackCommand(ClassAnimations, AnimationsJumpCancel)
}

// JumpStop halts the jump motor immediately.
func JumpStop() Command {
	return ackCommand(ClassAnimations, AnimationsJumpStop)
}

// PlayAnimation runs one of the built-in animation routines.
func PlayAnimation(a Animation) Command {
	return ackCommand(ClassAnimations, AnimationsSimpleAnimation, u32Arg(uint32(a))...)
}

// TakePicture asks the robot to save a photo to its own mass storage.
func TakePicture(storageID uint8) Command {
	return ackCommand(ClassMediaRecord, MediaRecordPicture, storageID)
}

// VideoEnable toggles the MJPEG stream.
func VideoEnable(on bool) Command {
	v := byte(0)
	if on {
		v = 1
	}
	return ackCommand(ClassMediaStreaming, MediaStreamingVideoEnable, v)
}

func ackCommand(class uint8, id uint16, args ...byte) Command {
	return Command{
		Buffer:  BufferCommand,
		Type:    TypeDataWithAck,
		Payload: commandPayload(class, id, args...),
	}
}

func commandPayload(class uint8, id uint16, args ...byte) []byte {
	p := make([]byte, 0, 4+len(args))
	p = append(p, ProjectJumpingSumo, class)
	p = binary.LittleEndian.AppendUint16(p, id)
	return append(p, args...)
}

func u32Arg(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}
