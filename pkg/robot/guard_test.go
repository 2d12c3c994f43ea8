package robot

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
)

type moveCall struct {
	speed, turn int8
	d           time.Duration
}

// mockSession records all transport calls for testing
type mockSession struct {
	mu        sync.Mutex
	connected bool
	closed    bool
	moves     []moveCall
	cmds      []arsdk.Command
	photos    int

	frame      []byte
	frameAfter int // Frame reports ok only after this many calls
	frameCalls int

	moveErr error
	sendErr error
}

func (m *mockSession) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected && !m.closed
}

func (m *mockSession) Move(ctx context.Context, speed, turn int8, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, moveCall{speed, turn, d})
	return m.moveErr
}

func (m *mockSession) Send(ctx context.Context, cmd arsdk.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = append(m.cmds, cmd)
	return m.sendErr
}

func (m *mockSession) Frame() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameCalls++
	if m.frame == nil || m.frameCalls <= m.frameAfter {
		return nil, false
	}
	return m.frame, true
}

func (m *mockSession) StorePicture(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos++
	return nil
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSession) moveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.moves)
}

func (m *mockSession) cmdCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cmds)
}

func (m *mockSession) lastCmd() arsdk.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cmds[len(m.cmds)-1]
}

func (m *mockSession) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func dialerFor(s *mockSession) Dialer {
	return func(ctx context.Context, addr string) (Session, error) {
		return s, nil
	}
}

// fastGuard shrinks the camera warmup so tests stay quick.
func fastGuard(dial Dialer) *Guard {
	g := NewGuard(dial)
	g.frameDelay = 5 * time.Millisecond
	return g
}

func TestGuard_ConnectOpensSession(t *testing.T) {
	mock := &mockSession{connected: true}
	g := NewGuard(dialerFor(mock))

	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	st := g.Status()
	if !st.Active || !st.Connected {
		t.Errorf("Status: got active=%v connected=%v, want true/true", st.Active, st.Connected)
	}
	if st.Addr != "192.168.2.1" {
		t.Errorf("Addr: got %q, want 192.168.2.1", st.Addr)
	}
	if st.SessionID == "" {
		t.Error("SessionID: got empty, want a UUID")
	}
}

func TestGuard_ConnectFailureLeavesNoSession(t *testing.T) {
	dialErr := errors.New("no route to robot")
	g := NewGuard(func(ctx context.Context, addr string) (Session, error) {
		return nil, dialErr
	})

	if err := g.Connect(context.Background(), "192.168.2.1"); !errors.Is(err, dialErr) {
		t.Fatalf("Connect: got %v, want dial error", err)
	}
	if g.Status().Active {
		t.Error("Status.Active after failed connect: got true, want false")
	}
	if err := g.Jump(context.Background(), "high"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Jump after failed connect: got %v, want ErrNotConnected", err)
	}
}

func TestGuard_ConnectReplacesExistingSession(t *testing.T) {
	first := &mockSession{connected: true}
	second := &mockSession{connected: true}
	sessions := []*mockSession{first, second}
	i := 0
	g := NewGuard(func(ctx context.Context, addr string) (Session, error) {
		s := sessions[i]
		i++
		return s, nil
	})

	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	firstID := g.Status().SessionID

	if err := g.Connect(context.Background(), "192.168.2.2"); err != nil {
		t.Fatalf("second Connect: %v", err)
	}

	if !first.isClosed() {
		t.Error("first session not closed by reconnect")
	}
	if first.moveCount() == 0 {
		t.Error("first session got no stop-move before teardown")
	} else {
		first.mu.Lock()
		stop := first.moves[len(first.moves)-1]
		first.mu.Unlock()
		if stop.speed != 0 || stop.turn != 0 {
			t.Errorf("teardown move: got speed=%d turn=%d, want 0/0", stop.speed, stop.turn)
		}
	}

	st := g.Status()
	if st.Addr != "192.168.2.2" {
		t.Errorf("Addr after reconnect: got %q, want 192.168.2.2", st.Addr)
	}
	if st.SessionID == firstID {
		t.Error("SessionID not rotated on reconnect")
	}

	// New commands go to the second session.
	if err := g.LoadJump(context.Background()); err != nil {
		t.Fatalf("LoadJump: %v", err)
	}
	if second.cmdCount() != 1 {
		t.Errorf("second session commands: got %d, want 1", second.cmdCount())
	}
	if first.cmdCount() != 0 {
		t.Errorf("first session commands after teardown: got %d, want 0", first.cmdCount())
	}
}

func TestGuard_DisconnectIdempotent(t *testing.T) {
	mock := &mockSession{connected: true}
	g := NewGuard(dialerFor(mock))

	if had := g.Disconnect(context.Background()); had {
		t.Error("Disconnect with no session: got had=true, want false")
	}

	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if had := g.Disconnect(context.Background()); !had {
		t.Error("Disconnect with session: got had=false, want true")
	}
	if !mock.isClosed() {
		t.Error("session not closed by Disconnect")
	}
	if mock.moveCount() == 0 {
		t.Error("no stop-move sent before Disconnect teardown")
	}

	if had := g.Disconnect(context.Background()); had {
		t.Error("second Disconnect: got had=true, want false")
	}
	if st := g.Status(); st.Active || st.Addr != "" {
		t.Errorf("Status after Disconnect: got %+v, want inactive and empty addr", st)
	}
}

func TestGuard_DisconnectIgnoresStopFailure(t *testing.T) {
	mock := &mockSession{connected: true, moveErr: errors.New("link dead")}
	g := NewGuard(dialerFor(mock))

	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if had := g.Disconnect(context.Background()); !had {
		t.Error("Disconnect: got had=false, want true")
	}
	if !mock.isClosed() {
		t.Error("session not released when the stop-move failed")
	}
}

func TestGuard_MoveValidation(t *testing.T) {
	tests := []struct {
		name      string
		speed     int
		turn      int
		duration  float64
		wantParam string
		wantMsg   string
	}{
		{"speed too high", 101, 0, 1.0, "speed", "Speed must be between -100 and 100"},
		{"speed too low", -101, 0, 1.0, "speed", "Speed must be between -100 and 100"},
		{"turn too high", 0, 101, 1.0, "turn", "Turn must be between -100 and 100"},
		{"turn too low", 0, -101, 1.0, "turn", "Turn must be between -100 and 100"},
		{"duration too short", 50, 0, 0.01, "duration", "Duration must be at least 0.025 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSession{connected: true}
			g := NewGuard(dialerFor(mock))
			if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
				t.Fatalf("Connect: %v", err)
			}

			err := g.Move(context.Background(), tt.speed, tt.turn, tt.duration)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Move: got %v, want ValidationError", err)
			}
			if verr.Param != tt.wantParam {
				t.Errorf("param: got %q, want %q", verr.Param, tt.wantParam)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", verr.Error(), tt.wantMsg)
			}
			if mock.moveCount() != 0 {
				t.Errorf("rejected move still reached the session: %d calls", mock.moveCount())
			}
		})
	}
}

func TestGuard_MovePassesThrough(t *testing.T) {
	mock := &mockSession{connected: true}
	g := NewGuard(dialerFor(mock))
	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := g.Move(context.Background(), -30, 15, 0.5); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if mock.moveCount() != 1 {
		t.Fatalf("move calls: got %d, want 1", mock.moveCount())
	}
	mock.mu.Lock()
	call := mock.moves[0]
	mock.mu.Unlock()
	if call.speed != -30 || call.turn != 15 {
		t.Errorf("move args: got speed=%d turn=%d, want -30/15", call.speed, call.turn)
	}
	if call.d != 500*time.Millisecond {
		t.Errorf("move duration: got %v, want 500ms", call.d)
	}
}

func TestGuard_MoveAcceptsRangeEdges(t *testing.T) {
	tests := []struct {
		name     string
		speed    int
		turn     int
		duration float64
		want     moveCall
	}{
		{"speed at upper bound", 100, 0, 1.0, moveCall{100, 0, time.Second}},
		{"speed at lower bound", -100, 0, 1.0, moveCall{-100, 0, time.Second}},
		{"turn at upper bound", 0, 100, 1.0, moveCall{0, 100, time.Second}},
		{"turn at lower bound", 0, -100, 1.0, moveCall{0, -100, time.Second}},
		{"duration at minimum", 10, 0, 0.025, moveCall{10, 0, 25 * time.Millisecond}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSession{connected: true}
			g := NewGuard(dialerFor(mock))
			if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
				t.Fatalf("Connect: %v", err)
			}

			if err := g.Move(context.Background(), tt.speed, tt.turn, tt.duration); err != nil {
				t.Fatalf("Move at bound: %v", err)
			}

			if mock.moveCount() != 1 {
				t.Fatalf("move calls: got %d, want 1", mock.moveCount())
			}
			mock.mu.Lock()
			got := mock.moves[0]
			mock.mu.Unlock()
			if got != tt.want {
				t.Errorf("forwarded move: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGuard_OperationsRequireLiveSession(t *testing.T) {
	ctx := context.Background()

	// No session at all.
	g := NewGuard(dialerFor(&mockSession{}))
	if err := g.Move(ctx, 10, 0, 1.0); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Move without session: got %v, want ErrNotConnected", err)
	}

	// Session present but transport dead.
	mock := &mockSession{connected: true}
	g = NewGuard(dialerFor(mock))
	if err := g.Connect(ctx, "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	mock.mu.Lock()
	mock.connected = false
	mock.mu.Unlock()

	if err := g.Jump(ctx, "high"); !errors.Is(err, ErrConnectionLost) {
		t.Errorf("Jump on dead session: got %v, want ErrConnectionLost", err)
	}
	if _, _, err := g.CameraFrame(ctx); !errors.Is(err, ErrConnectionLost) {
		t.Errorf("CameraFrame on dead session: got %v, want ErrConnectionLost", err)
	}
	if g.Connected() {
		t.Error("Connected on dead session: got true, want false")
	}
}

func TestGuard_CommandsEnqueueExactlyOne(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(g *Guard) error
		want arsdk.Command
	}{
		{"jump high", func(g *Guard) error { return g.Jump(ctx, "high") }, arsdk.Jump(arsdk.JumpHigh)},
		{"load", func(g *Guard) error { return g.LoadJump(ctx) }, arsdk.JumpLoad()},
		{"cancel", func(g *Guard) error { return g.CancelJump(ctx) }, arsdk.JumpCancel()},
		{"stop", func(g *Guard) error { return g.StopJump(ctx) }, arsdk.JumpStop()},
		{"posture", func(g *Guard) error { return g.ChangePosture(ctx, "kicker") }, arsdk.ChangePosture(arsdk.PostureKicker)},
		{"animation", func(g *Guard) error { return g.PlayAnimation(ctx, "spiral") }, arsdk.PlayAnimation(arsdk.AnimationSpiral)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSession{connected: true}
			g := NewGuard(dialerFor(mock))
			if err := g.Connect(ctx, "192.168.2.1"); err != nil {
				t.Fatalf("Connect: %v", err)
			}

			if err := tt.call(g); err != nil {
				t.Fatalf("call: %v", err)
			}

			if mock.cmdCount() != 1 {
				t.Fatalf("commands sent: got %d, want 1", mock.cmdCount())
			}
			got := mock.lastCmd()
			if got.Buffer != tt.want.Buffer || got.Type != tt.want.Type {
				t.Errorf("channel: got buffer=%d type=%d, want %d/%d",
					got.Buffer, got.Type, tt.want.Buffer, tt.want.Type)
			}
			if !bytes.Equal(got.Payload, tt.want.Payload) {
				t.Errorf("payload: got % x, want % x", got.Payload, tt.want.Payload)
			}
		})
	}
}

func TestGuard_RejectsUnknownEnums(t *testing.T) {
	ctx := context.Background()
	mock := &mockSession{connected: true}
	g := NewGuard(dialerFor(mock))
	if err := g.Connect(ctx, "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	calls := []struct {
		name      string
		wantParam string
		call      func() error
	}{
		{"jump", "jump_type", func() error { return g.Jump(ctx, "sideways") }},
		{"posture", "posture_type", func() error { return g.ChangePosture(ctx, "sitting") }},
		{"animation", "animation", func() error { return g.PlayAnimation(ctx, "moonwalk") }},
	}
	for _, tt := range calls {
		var verr *ValidationError
		if err := tt.call(); !errors.As(err, &verr) {
			t.Errorf("%s: got %v, want ValidationError", tt.name, err)
			continue
		}
		if verr.Param != tt.wantParam {
			t.Errorf("%s param: got %q, want %q", tt.name, verr.Param, tt.wantParam)
		}
	}
	if mock.cmdCount() != 0 {
		t.Errorf("rejected enums still sent commands: %d", mock.cmdCount())
	}
}

func TestGuard_CameraFrameWarmup(t *testing.T) {
	mock := &mockSession{connected: true, frame: []byte{0xFF, 0xD8, 0x01}, frameAfter: 2}
	g := fastGuard(dialerFor(mock))
	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	frame, ok, err := g.CameraFrame(context.Background())
	if err != nil {
		t.Fatalf("CameraFrame: %v", err)
	}
	if !ok {
		t.Fatal("CameraFrame: got ok=false, want true after warmup")
	}
	if !bytes.Equal(frame, mock.frame) {
		t.Errorf("frame: got % x, want % x", frame, mock.frame)
	}
	mock.mu.Lock()
	calls := mock.frameCalls
	mock.mu.Unlock()
	if calls != 3 {
		t.Errorf("frame polls: got %d, want 3", calls)
	}
}

func TestGuard_CameraFrameGivesUpQuietly(t *testing.T) {
	mock := &mockSession{connected: true}
	g := fastGuard(dialerFor(mock))
	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	frame, ok, err := g.CameraFrame(context.Background())
	if err != nil {
		t.Fatalf("CameraFrame: %v", err)
	}
	if ok || frame != nil {
		t.Errorf("CameraFrame with no stream: got ok=%v frame=%v, want false/nil", ok, frame)
	}
	mock.mu.Lock()
	calls := mock.frameCalls
	mock.mu.Unlock()
	if calls != g.frameRetries {
		t.Errorf("frame polls: got %d, want %d", calls, g.frameRetries)
	}
}

func TestGuard_CapturePhoto(t *testing.T) {
	mock := &mockSession{connected: true}
	g := NewGuard(dialerFor(mock))
	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := g.CapturePhoto(context.Background()); err != nil {
		t.Fatalf("CapturePhoto: %v", err)
	}
	mock.mu.Lock()
	photos := mock.photos
	mock.mu.Unlock()
	if photos != 1 {
		t.Errorf("photos: got %d, want 1", photos)
	}
}

func TestGuard_ConcurrentAccess(t *testing.T) {
	mock := &mockSession{connected: true, frame: []byte{0xFF, 0xD8}}
	g := NewGuard(dialerFor(mock))
	if err := g.Connect(context.Background(), "192.168.2.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				g.LoadJump(context.Background())
				g.Status()
				g.Connected()
				g.LatestFrame()
			}
		}()
	}
	wg.Wait()
	// If we get here without deadlock/race, test passes
}
