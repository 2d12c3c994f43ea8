// Package sumo implements the UDP transport for the Parrot Jumping
// Sumo: the TCP discovery handshake, the ARNetworkAL frame pump,
// acknowledged command delivery, the piloting stream, and the MJPEG
// video feed.
package sumo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
)

// DefaultDiscoveryPort is the TCP port the robot firmware listens on
// for the connection handshake.
const DefaultDiscoveryPort = 44444

const (
	// tickInterval paces the outbound loop: the current piloting
	// target every tick, plus any queued commands.
	tickInterval = 25 * time.Millisecond

	// livenessWindow is how long the robot may stay silent before
	// Connected reports false.
	livenessWindow = 5 * time.Second

	// Acknowledged commands are retransmitted with their original
	// sequence number until acked or out of retries.
	ackResend  = 150 * time.Millisecond
	ackRetries = 5
)

// ErrClosed is returned by operations on a closed client.
var ErrClosed = errors.New("connection closed")

// Options configure a connection attempt.
type Options struct {
	// Addr is the robot's IP address.
	Addr string

	// D2CPort is the local UDP port announced to the robot for
	// device-to-controller traffic. 0 picks an ephemeral port.
	D2CPort int

	// DiscoveryPort overrides the handshake port. 0 means the
	// firmware default.
	DiscoveryPort int

	// ConnectTimeout bounds discovery and first contact. 0 leaves
	// only the caller's context as the bound.
	ConnectTimeout time.Duration

	// ControllerName is reported to the robot during discovery.
	ControllerName string
}

// Client is one UDP session with one robot. All methods are safe for
// concurrent use.
type Client struct {
	addr   string
	logger *slog.Logger

	recv *net.UDPConn
	send net.Conn

	seqMu sync.Mutex
	seqs  [256]uint8

	queue chan outbound

	targetMu sync.Mutex
	target   struct {
		flag        bool
		speed, turn int8
	}

	pendingMu sync.Mutex
	pending   map[pendingKey]*pendingAck

	aliveMu  sync.Mutex
	lastRecv time.Time

	stream *videoStream

	done      chan struct{}
	closeOnce sync.Once
}

type outbound struct {
	cmd   arsdk.Command
	acked chan error
}

type pendingKey struct {
	buffer uint8
	seq    uint8
}

type pendingAck struct {
	raw     []byte
	acked   chan error
	sentAt  time.Time
	resends int
}

type discoveryRequest struct {
	ControllerType string `json:"controller_type"`
	ControllerName string `json:"controller_name"`
	D2CPort        int    `json:"d2c_port"`
}

type discoveryReply struct {
	Status  int `json:"status"`
	C2DPort int `json:"c2d_port"`
}

// Connect performs the discovery handshake, opens the UDP session and
// enables the video stream. On failure nothing is left running.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if opts.Addr == "" {
		return nil, errors.New("robot address required")
	}
	if opts.ControllerName == "" {
		opts.ControllerName = "go-sumo"
	}
	if opts.DiscoveryPort == 0 {
		opts.DiscoveryPort = DefaultDiscoveryPort
	}
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	recv, err := net.ListenUDP("udp", &net.UDPAddr{Port: opts.D2CPort})
	if err != nil {
		return nil, fmt.Errorf("failed to open d2c socket: %w", err)
	}
	localPort := recv.LocalAddr().(*net.UDPAddr).Port

	c2dPort, err := discover(ctx, opts, localPort)
	if err != nil {
		recv.Close()
		return nil, err
	}

	send, err := (&net.Dialer{}).DialContext(ctx, "udp", net.JoinHostPort(opts.Addr, strconv.Itoa(c2dPort)))
	if err != nil {
		recv.Close()
		return nil, fmt.Errorf("failed to open c2d socket: %w", err)
	}

	c := &Client{
		addr:    opts.Addr,
		logger:  slog.Default().With("component", "sumo.client"),
		recv:    recv,
		send:    send,
		queue:   make(chan outbound, 16),
		pending: make(map[pendingKey]*pendingAck),
		stream:  newVideoStream(),
		done:    make(chan struct{}),
	}
	c.lastRecv = time.Now()

	go c.pumpIn()
	go c.pumpOut()

	if err := c.Send(ctx, arsdk.VideoEnable(true)); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to enable video: %w", err)
	}

	c.logger.Info("connected", "addr", opts.Addr, "c2d_port", c2dPort, "d2c_port", localPort)
	return c, nil
}

// discover runs the TCP handshake: announce our receive port, learn
// the robot's command port.
func discover(ctx context.Context, opts Options, d2cPort int) (int, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(opts.Addr, strconv.Itoa(opts.DiscoveryPort)))
	if err != nil {
		return 0, fmt.Errorf("discovery connect failed: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	req, err := json.Marshal(discoveryRequest{
		ControllerType: "computer",
		ControllerName: opts.ControllerName,
		D2CPort:        d2cPort,
	})
	if err != nil {
		return 0, err
	}
	if _, err := conn.Write(req); err != nil {
		return 0, fmt.Errorf("discovery request failed: %w", err)
	}

	// The firmware replies with one NUL-terminated JSON object.
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("discovery reply failed: %w", err)
	}

	var reply discoveryReply
	if err := json.Unmarshal(bytes.TrimRight(buf[:n], "\x00"), &reply); err != nil {
		return 0, fmt.Errorf("discovery reply malformed: %w", err)
	}
	if reply.Status != 0 {
		return 0, fmt.Errorf("robot refused connection (status %d)", reply.Status)
	}
	return reply.C2DPort, nil
}

// Send transmits a command on its channel and, for acknowledged
// commands, waits for the robot's ack.
func (c *Client) Send(ctx context.Context, cmd arsdk.Command) error {
	out := outbound{cmd: cmd, acked: make(chan error, 1)}
	select {
	case c.queue <- out:
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-out.acked:
		return err
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Move streams the piloting target for the given duration, then
// resets it to idle. It blocks for the full duration.
func (c *Client) Move(ctx context.Context, speed, turn int8, d time.Duration) error {
	c.setTarget(true, speed, turn)
	defer c.setTarget(false, 0, 0)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Client) setTarget(flag bool, speed, turn int8) {
	c.targetMu.Lock()
	c.target.flag = flag
	c.target.speed = speed
	c.target.turn = turn
	c.targetMu.Unlock()
}

// StorePicture asks the robot to save a photo to its internal storage.
func (c *Client) StorePicture(ctx context.Context) error {
	return c.Send(ctx, arsdk.TakePicture(0))
}

// Frame returns a copy of the newest complete camera frame. ok is
// false while no frame has arrived yet.
func (c *Client) Frame() ([]byte, bool) {
	return c.stream.frame()
}

// Connected reports whether the session looks alive: the client is
// open and the robot has been heard from within the liveness window.
func (c *Client) Connected() bool {
	select {
	case <-c.done:
		return false
	default:
	}
	c.aliveMu.Lock()
	last := c.lastRecv
	c.aliveMu.Unlock()
	return time.Since(last) <= livenessWindow
}

// Addr returns the robot address this client dialed.
func (c *Client) Addr() string {
	return c.addr
}

// Close shuts the session down: both pumps stop and the sockets
// close. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.recv.Close()
		c.send.Close()
		c.logger.Info("closed", "addr", c.addr)
	})
	return nil
}

func (c *Client) nextSeq(buffer uint8) uint8 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	seq := c.seqs[buffer]
	c.seqs[buffer]++
	return seq
}

func (c *Client) writeFrame(f arsdk.Frame) error {
	_, err := c.send.Write(f.Encode())
	return err
}

func (c *Client) touch() {
	c.aliveMu.Lock()
	c.lastRecv = time.Now()
	c.aliveMu.Unlock()
}

// pumpIn reads robot datagrams until the socket closes.
func (c *Client) pumpIn() {
	buf := make([]byte, 65536)
	for {
		n, err := c.recv.Read(buf)
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Debug("read loop ended", "error", err)
				c.Close()
			}
			return
		}
		c.touch()

		frames, err := arsdk.DecodeFrames(buf[:n])
		if err != nil {
			c.logger.Debug("dropping malformed datagram", "error", err)
			continue
		}
		for _, f := range frames {
			c.handleFrame(f)
		}
	}
}

func (c *Client) handleFrame(f arsdk.Frame) {
	if f.Type == arsdk.TypeDataWithAck {
		ack := f.Ack(c.nextSeq(f.Buffer + arsdk.AckOffset))
		if err := c.writeFrame(ack); err != nil {
			c.logger.Debug("ack write failed", "buffer", f.Buffer, "error", err)
		}
	}

	switch {
	case f.Buffer == arsdk.BufferPing:
		pong := arsdk.Frame{
			Type:    arsdk.TypeData,
			Buffer:  arsdk.BufferPong,
			Seq:     c.nextSeq(arsdk.BufferPong),
			Payload: f.Payload,
		}
		if err := c.writeFrame(pong); err != nil {
			c.logger.Debug("pong write failed", "error", err)
		}
	case f.Buffer >= arsdk.AckOffset:
		if len(f.Payload) == 1 {
			c.resolveAck(f.Buffer-arsdk.AckOffset, f.Payload[0])
		}
	case f.Buffer == arsdk.BufferVideo:
		c.handleVideo(f)
	}
}

func (c *Client) resolveAck(buffer, seq uint8) {
	key := pendingKey{buffer: buffer, seq: seq}
	c.pendingMu.Lock()
	p, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.pendingMu.Unlock()
	if ok {
		p.acked <- nil
	}
}

func (c *Client) handleVideo(f arsdk.Frame) {
	frag, err := arsdk.ParseVideoFragment(f.Payload)
	if err != nil {
		c.logger.Debug("dropping bad video fragment", "error", err)
		return
	}
	ack := c.stream.feed(frag)
	ackFrame := arsdk.Frame{
		Type:    arsdk.TypeData,
		Buffer:  arsdk.BufferVideoAck,
		Seq:     c.nextSeq(arsdk.BufferVideoAck),
		Payload: ack,
	}
	if err := c.writeFrame(ackFrame); err != nil {
		c.logger.Debug("video ack write failed", "error", err)
	}
}

// pumpOut drives the outbound side: the piloting target every tick,
// queued commands, and retransmits for unacked commands.
func (c *Client) pumpOut() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sendPCMD()
			c.drainQueue()
			c.sweepPending()
		}
	}
}

func (c *Client) sendPCMD() {
	c.targetMu.Lock()
	cmd := arsdk.PCMD(c.target.flag, c.target.speed, c.target.turn)
	c.targetMu.Unlock()

	if err := c.writeFrame(cmd.Frame(c.nextSeq(cmd.Buffer))); err != nil {
		c.logger.Debug("pcmd write failed", "error", err)
	}
}

func (c *Client) drainQueue() {
	for {
		select {
		case out := <-c.queue:
			c.transmit(out)
		default:
			return
		}
	}
}

func (c *Client) transmit(out outbound) {
	seq := c.nextSeq(out.cmd.Buffer)
	raw := out.cmd.Frame(seq).Encode()

	if !out.cmd.Acknowledged() {
		if _, err := c.send.Write(raw); err != nil {
			out.acked <- fmt.Errorf("command write failed: %w", err)
			return
		}
		out.acked <- nil
		return
	}

	// Register before writing so a fast ack cannot slip past.
	key := pendingKey{buffer: out.cmd.Buffer, seq: seq}
	c.pendingMu.Lock()
	c.pending[key] = &pendingAck{raw: raw, acked: out.acked, sentAt: time.Now()}
	c.pendingMu.Unlock()

	if _, err := c.send.Write(raw); err != nil {
		c.pendingMu.Lock()
		_, still := c.pending[key]
		delete(c.pending, key)
		c.pendingMu.Unlock()
		if still {
			out.acked <- fmt.Errorf("command write failed: %w", err)
		}
	}
}

func (c *Client) sweepPending() {
	now := time.Now()
	var resend [][]byte
	var failed []chan error

	c.pendingMu.Lock()
	for key, p := range c.pending {
		if now.Sub(p.sentAt) < ackResend {
			continue
		}
		if p.resends >= ackRetries {
			delete(c.pending, key)
			failed = append(failed, p.acked)
			continue
		}
		p.resends++
		p.sentAt = now
		resend = append(resend, p.raw)
	}
	c.pendingMu.Unlock()

	for _, raw := range resend {
		if _, err := c.send.Write(raw); err != nil {
			c.logger.Debug("command resend failed", "error", err)
		}
	}
	for _, ch := range failed {
		ch <- errors.New("command not acknowledged")
	}
}
