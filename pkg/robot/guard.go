// Package robot enforces the single-session discipline for Jumping
// Sumo control: at most one transport session exists process-wide,
// every operation is gated on session liveness, and arguments are
// validated before any command frame is produced.
package robot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
)

// Session is one open transport link to a robot. Implementations must
// be safe for concurrent use, and Connected must report rather than
// panic when the link has died.
type Session interface {
	Connected() bool
	Move(ctx context.Context, speed, turn int8, d time.Duration) error
	Send(ctx context.Context, cmd arsdk.Command) error
	Frame() ([]byte, bool)
	StorePicture(ctx context.Context) error
	Close() error
}

// Dialer opens a session to the robot at addr.
type Dialer func(ctx context.Context, addr string) (Session, error)

// Status is a snapshot of the guard's session state.
type Status struct {
	Active    bool // a session exists, live or not
	Connected bool // the transport reports live
	Addr      string
	SessionID string
	Since     time.Time
}

// Guard owns the process-wide robot session. Mutating operations
// serialize on one lock; Move holds it for the whole movement so a
// disconnect can never race an in-flight move.
type Guard struct {
	dial   Dialer
	logger *slog.Logger

	mu        sync.RWMutex
	session   Session
	addr      string
	sessionID string
	since     time.Time

	// First-frame warmup: CameraFrame polls frameRetries times,
	// frameDelay apart, before reporting no frame.
	frameRetries int
	frameDelay   time.Duration
}

// NewGuard creates a guard that opens sessions through dial.
func NewGuard(dial Dialer) *Guard {
	return &Guard{
		dial:         dial,
		logger:       slog.Default().With("component", "robot.guard"),
		frameRetries: 5,
		frameDelay:   200 * time.Millisecond,
	}
}

// Connect opens a session to the robot at addr, tearing down any
// existing session first. On failure no session is left active.
func (g *Guard) Connect(ctx context.Context, addr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.teardownLocked(ctx)

	s, err := g.dial(ctx, addr)
	if err != nil {
		g.logger.Warn("connect failed", "addr", addr, "error", err)
		return err
	}

	g.session = s
	g.addr = addr
	g.sessionID = uuid.New().String()
	g.since = time.Now()
	g.logger.Info("session opened", "addr", addr, "session_id", g.sessionID)
	return nil
}

// Disconnect tears down the active session if one exists and reports
// whether there was one. It is idempotent.
func (g *Guard) Disconnect(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	had := g.session != nil
	g.teardownLocked(ctx)
	return had
}

// teardownLocked halts and releases the current session. The halt is
// best-effort: a dead link must never block the teardown.
func (g *Guard) teardownLocked(ctx context.Context) {
	if g.session == nil {
		return
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	if err := g.session.Move(stopCtx, 0, 0, 100*time.Millisecond); err != nil {
		g.logger.Debug("stop before teardown failed", "error", err)
	}
	cancel()

	g.session.Close()
	g.logger.Info("session closed", "addr", g.addr, "session_id", g.sessionID)
	g.session = nil
	g.addr = ""
	g.sessionID = ""
	g.since = time.Time{}
}

// Connected reports whether a live session exists.
func (g *Guard) Connected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session != nil && g.session.Connected()
}

// Status returns a snapshot of the session state.
func (g *Guard) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.session == nil {
		return Status{}
	}
	return Status{
		Active:    true,
		Connected: g.session.Connected(),
		Addr:      g.addr,
		SessionID: g.sessionID,
		Since:     g.since,
	}
}

// Move drives the robot for the given duration, blocking until it
// ends. Out-of-range arguments are rejected, never clamped.
func (g *Guard) Move(ctx context.Context, speed, turn int, duration float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	if speed < -100 || speed > 100 {
		return invalidArg("speed", "Speed must be between -100 and 100")
	}
	if turn < -100 || turn > 100 {
		return invalidArg("turn", "Turn must be between -100 and 100")
	}
	if duration < 0.025 {
		return invalidArg("duration", "Duration must be at least 0.025 seconds")
	}
	return s.Move(ctx, int8(speed), int8(turn), time.Duration(duration*float64(time.Second)))
}

// Jump fires a jump of the given kind ("long" or "high").
func (g *Guard) Jump(ctx context.Context, kind string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	k, err := arsdk.ParseJumpKind(kind)
	if err != nil {
		return invalidArg("jump_type", err.Error())
	}
	return s.Send(ctx, arsdk.Jump(k))
}

// LoadJump compresses the jump spring without firing it.
func (g *Guard) LoadJump(ctx context.Context) error {
	return g.command(ctx, arsdk.JumpLoad())
}

// CancelJump releases a loaded jump without firing it.
func (g *Guard) CancelJump(ctx context.Context) error {
	return g.command(ctx, arsdk.JumpCancel())
}

// StopJump halts the jump motor immediately.
func (g *Guard) StopJump(ctx context.Context) error {
	return g.command(ctx, arsdk.JumpStop())
}

// ChangePosture switches the robot's stance ("standing", "jumper" or
// "kicker").
func (g *Guard) ChangePosture(ctx context.Context, posture string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	p, err := arsdk.ParsePosture(posture)
	if err != nil {
		return invalidArg("posture_type", err.Error())
	}
	return s.Send(ctx, arsdk.ChangePosture(p))
}

// PlayAnimation runs one of the built-in animation routines.
func (g *Guard) PlayAnimation(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	a, err := arsdk.ParseAnimation(name)
	if err != nil {
		return invalidArg("animation", err.Error())
	}
	return s.Send(ctx, arsdk.PlayAnimation(a))
}

// CapturePhoto asks the robot to save a photo to its own storage.
func (g *Guard) CapturePhoto(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	return s.StorePicture(ctx)
}

// CameraFrame returns the newest camera frame, polling briefly while
// the stream warms up. ok=false with a nil error means no frame has
// arrived yet, which is normal right after connecting.
func (g *Guard) CameraFrame(ctx context.Context) (frame []byte, ok bool, err error) {
	for attempt := 0; ; attempt++ {
		g.mu.RLock()
		s, err := g.liveLocked()
		g.mu.RUnlock()
		if err != nil {
			return nil, false, err
		}

		if frame, ok := s.Frame(); ok {
			return frame, true, nil
		}
		if attempt >= g.frameRetries-1 {
			return nil, false, nil
		}
		select {
		case <-time.After(g.frameDelay):
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// LatestFrame returns the newest frame without waiting, for callers
// that poll on their own schedule.
func (g *Guard) LatestFrame() ([]byte, bool) {
	g.mu.RLock()
	s := g.session
	g.mu.RUnlock()

	if s == nil {
		return nil, false
	}
	return s.Frame()
}

// command gates and sends one acknowledged command.
func (g *Guard) command(ctx context.Context, cmd arsdk.Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.liveLocked()
	if err != nil {
		return err
	}
	return s.Send(ctx, cmd)
}

// liveLocked returns the active session or the gating error. The
// caller holds g.mu.
func (g *Guard) liveLocked() (Session, error) {
	if g.session == nil {
		return nil, ErrNotConnected
	}
	if !g.session.Connected() {
		return nil, ErrConnectionLost
	}
	return g.session, nil
}
