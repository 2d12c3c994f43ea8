// Package tui provides the interactive keyboard teleop for the Jumping
// Sumo. It is built on the bubbletea/lipgloss stack: arrows or WASD
// drive in half-second bursts, dedicated keys fire jumps and postures,
// and a status bar tracks the session guard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
	"github.com/teslashibe/go-sumo/pkg/robot"
)

// ---------------------------------------------------------------------------
// Shared styles
// ---------------------------------------------------------------------------

var (
	// titleStyle renders the application title bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("208")).
			Padding(0, 1)

	// okStyle renders the status line while the link is live.
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	// badStyle renders the status line when the link has died.
	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	// dimStyle is used for idle status and help text.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// selStyle highlights the currently selected animation.
	selStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	// failStyle renders failed actions in the log.
	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	// statusBarStyle renders the bottom status bar.
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)
)

// ---------------------------------------------------------------------------
// Tuning
// ---------------------------------------------------------------------------

const (
	// driveSpeed and turnRate are the burst magnitudes for keyboard
	// driving, well inside the robot's ±100 range.
	driveSpeed = 50
	turnRate   = 50

	// burstSeconds is how long one keypress drives the robot.
	burstSeconds = 0.5

	// refreshInterval is how often the session status is re-read.
	refreshInterval = 500 * time.Millisecond

	// actionTimeout bounds any single robot operation.
	actionTimeout = 5 * time.Second

	// maxActionLog caps the recent-actions list.
	maxActionLog = 8
)

// ---------------------------------------------------------------------------
// Tea messages
// ---------------------------------------------------------------------------

// tickMsg is sent every refreshInterval to refresh the session status.
type tickMsg time.Time

// connectMsg reports the outcome of an async connect attempt.
type connectMsg struct{ err error }

// actionMsg reports the outcome of one robot operation.
type actionMsg struct {
	label string
	err   error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the top-level bubbletea model for the teleop.
type Model struct {
	guard *robot.Guard
	addr  string

	status     robot.Status
	connecting bool

	animations []string
	animIdx    int

	actions []string // newest first
	width   int
	height  int
}

// New returns a Model that drives the robot at addr through guard.
// Init dials immediately, so the model starts in the connecting state.
func New(guard *robot.Guard, addr string) Model {
	m := Model{
		guard:      guard,
		addr:       addr,
		animations: arsdk.AnimationNames(),
		connecting: true,
	}
	// Start the selector on "spin" rather than "stop".
	for i, n := range m.animations {
		if n == "spin" {
			m.animIdx = i
			break
		}
	}
	return m
}

// Init starts the status ticker and kicks off the first connect.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.connect())
}

// tick schedules a tickMsg after refreshInterval.
func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update processes messages and returns an updated model plus any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.status = m.guard.Status()
		return m, tick()

	case connectMsg:
		m.connecting = false
		m.status = m.guard.Status()
		m.logAction("connect", msg.err)
		return m, nil

	case actionMsg:
		m.status = m.guard.Status()
		m.logAction(msg.label, msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey maps one keypress to a robot operation.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "w":
		return m, m.drive("forward", driveSpeed, 0)
	case "down", "s":
		return m, m.drive("backward", -driveSpeed, 0)
	case "left", "a":
		return m, m.drive("turn left", 0, -turnRate)
	case "right", "d":
		return m, m.drive("turn right", 0, turnRate)

	case " ":
		return m, m.act("high jump", func(ctx context.Context) error {
			return m.guard.Jump(ctx, "high")
		})
	case "j":
		return m, m.act("long jump", func(ctx context.Context) error {
			return m.guard.Jump(ctx, "long")
		})
	case "l":
		return m, m.act("load jump", m.guard.LoadJump)
	case "c":
		return m, m.act("cancel jump", m.guard.CancelJump)
	case "x":
		return m, m.act("stop jump motor", m.guard.StopJump)

	case "1":
		return m, m.posture("standing")
	case "2":
		return m, m.posture("jumper")
	case "3":
		return m, m.posture("kicker")

	case "tab":
		m.animIdx = (m.animIdx + 1) % len(m.animations)
		return m, nil
	case "shift+tab":
		m.animIdx = (m.animIdx - 1 + len(m.animations)) % len(m.animations)
		return m, nil
	case "enter":
		name := m.animations[m.animIdx]
		return m, m.act("animation "+name, func(ctx context.Context) error {
			return m.guard.PlayAnimation(ctx, name)
		})

	case "p":
		return m, m.act("photo", m.guard.CapturePhoto)

	case "r":
		if m.connecting {
			return m, nil
		}
		m.connecting = true
		return m, m.connect()
	}

	return m, nil
}

// connect dials the robot asynchronously.
func (m Model) connect() tea.Cmd {
	g, addr := m.guard, m.addr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return connectMsg{err: g.Connect(ctx, addr)}
	}
}

// drive issues one movement burst. The guard serializes bursts, so
// mashed keys queue rather than interleave.
func (m Model) drive(label string, speed, turn int) tea.Cmd {
	g := m.guard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionMsg{label: label, err: g.Move(ctx, speed, turn, burstSeconds)}
	}
}

// act runs one robot operation with a bounded context.
func (m Model) act(label string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionMsg{label: label, err: fn(ctx)}
	}
}

// posture switches the robot's stance.
func (m Model) posture(name string) tea.Cmd {
	return m.act("posture "+name, func(ctx context.Context) error {
		return m.guard.ChangePosture(ctx, name)
	})
}

// logAction records one outcome at the head of the action log.
func (m *Model) logAction(label string, err error) {
	line := "✅ " + label
	if err != nil {
		line = failStyle.Render("❌ " + label + ": " + firstLine(err.Error()))
	}
	m.actions = append([]string{line}, m.actions...)
	if len(m.actions) > maxActionLog {
		m.actions = m.actions[:maxActionLog]
	}
}

// firstLine trims a possibly multi-line error to its first line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// View renders the entire teleop screen to a string.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("  🤖 Jumping Sumo Teleop  "))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderStatusLine())
	sb.WriteString("\n\n")

	// Animation selector
	sb.WriteString("Animation: ◀ ")
	sb.WriteString(selStyle.Render(m.animations[m.animIdx]))
	sb.WriteString(" ▶")
	sb.WriteString(dimStyle.Render("  (tab to cycle, enter to play)"))
	sb.WriteString("\n\n")

	// Recent actions, newest first
	if len(m.actions) == 0 {
		sb.WriteString(dimStyle.Render("No actions yet."))
		sb.WriteString("\n")
	} else {
		for _, a := range m.actions {
			sb.WriteString(a)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString(dimStyle.Render(helpText))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")
	sb.WriteString(statusBarStyle.Render(fmt.Sprintf("robot: %s  |  q: quit  r: reconnect", m.addr)))

	return sb.String()
}

// renderStatusLine renders the connection state with uptime.
func (m Model) renderStatusLine() string {
	switch {
	case m.connecting:
		return dimStyle.Render("● Connecting to " + m.addr + "…")
	case m.status.Connected:
		up := time.Since(m.status.Since).Round(time.Second)
		return okStyle.Render(fmt.Sprintf("● Connected to %s (up %s)", m.status.Addr, up))
	case m.status.Active:
		return badStyle.Render("● Link lost to " + m.status.Addr + " (press r to reconnect)")
	default:
		return dimStyle.Render("○ Disconnected (press r to connect)")
	}
}

const helpText = `↑/w forward   ↓/s backward   ←/a turn left   →/d turn right
space high jump   j long jump   l load   c cancel   x stop motor
1 standing   2 jumper   3 kicker   p photo`
