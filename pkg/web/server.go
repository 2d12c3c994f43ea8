// Package web provides a real-time operator dashboard for the Sumo:
// connection status, manual tool triggers, live camera, and activity log.
package web

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-sumo/pkg/hub"
)

// SumoStatus is the dashboard's view of the robot connection.
type SumoStatus struct {
	Active     bool   `json:"active"`
	Connected  bool   `json:"connected"`
	Addr       string `json:"addr"`
	SessionID  string `json:"session_id"`
	Uptime     string `json:"uptime"`
	LastTool   string `json:"last_tool"`
	LastResult string `json:"last_result"`
}

// LogEntry represents an activity line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, tool, error
	Message string `json:"message"`
}

// ToolInfo describes a manual trigger button
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server is the web dashboard server
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	state   SumoStatus
	stateMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	tools   []ToolInfo
	toolsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub

	// OnToolTrigger executes a manual tool trigger. The result is the
	// rendered text; isError marks failures.
	OnToolTrigger func(name string, args map[string]any) (result string, isError bool)
}

// NewServer creates a new dashboard server on the given port
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		logger:    slog.Default().With("component", "web.server"),
		logs:      make([]LogEntry, 0, 500),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Sumo Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tools", s.handleListTools)
	api.Post("/tools/:name", s.handleTriggerTool)
	api.Get("/logs", s.handleGetLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start serves the dashboard on the configured port, blocking. The
// banner goes to stderr so a stdio MCP stream on stdout stays clean.
func (s *Server) Start() error {
	fmt.Fprintf(os.Stderr, "🌐 Sumo dashboard: http://localhost:%s\n", s.port)
	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the dashboard on an existing listener, blocking.
func (s *Server) Serve(ln net.Listener) error {
	go s.statusHub.Run()
	go s.logHub.Run()
	go s.cameraHub.Run()
	return s.app.Listener(ln)
}

// StartAsync starts the dashboard in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("dashboard stopped", "error", err)
		}
	}()
}

// SetTools publishes the manual trigger catalog
func (s *Server) SetTools(tools []ToolInfo) {
	s.toolsMu.Lock()
	s.tools = tools
	s.toolsMu.Unlock()
}

// UpdateState updates the robot state and broadcasts it to clients
func (s *Server) UpdateState(update func(*SumoStatus)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddLog appends an activity entry and broadcasts it to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// SendCameraFrame broadcasts a JPEG frame to camera stream clients
func (s *Server) SendCameraFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// Shutdown stops the server and all broadcast hubs
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	s.logHub.Stop()
	s.cameraHub.Stop()
	return s.app.Shutdown()
}
