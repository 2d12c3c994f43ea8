package arsdk

import (
	"bytes"
	"testing"
)

func TestParseVideoFragment(t *testing.T) {
	payload := []byte{
		0x2A, 0x01, // frame 298
		0x00,       // flags
		0x02,       // fragment index
		0x04,       // fragments per frame
		0xFF, 0xD8, 0x01, 0x02, // image bytes
	}

	frag, err := ParseVideoFragment(payload)
	if err != nil {
		t.Fatalf("ParseVideoFragment: %v", err)
	}
	if frag.FrameNumber != 298 {
		t.Errorf("FrameNumber: got %d, want 298", frag.FrameNumber)
	}
	if frag.Index != 2 {
		t.Errorf("Index: got %d, want 2", frag.Index)
	}
	if frag.FragmentsTotal != 4 {
		t.Errorf("FragmentsTotal: got %d, want 4", frag.FragmentsTotal)
	}
	if !bytes.Equal(frag.Data, []byte{0xFF, 0xD8, 0x01, 0x02}) {
		t.Errorf("Data: got % x", frag.Data)
	}
}

func TestParseVideoFragment_TooShort(t *testing.T) {
	if _, err := ParseVideoFragment([]byte{0x01, 0x00, 0x00, 0x01}); err == nil {
		t.Error("expected error for short payload, got nil")
	}
}

func TestVideoAck(t *testing.T) {
	got := VideoAck(0x0102, 0, 0b1011)

	want := []byte{
		0x02, 0x01, // frame number
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // high word
		0x0B, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // low word
	}
	if !bytes.Equal(got, want) {
		t.Errorf("VideoAck:\n got  % x\n want % x", got, want)
	}
}
