package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-sumo/pkg/hub"
)

// handleIndex serves the embedded dashboard page
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(dashboardHTML)
}

// handleStatus returns the current robot state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleListTools returns the manual trigger catalog
func (s *Server) handleListTools(c *fiber.Ctx) error {
	s.toolsMu.RLock()
	defer s.toolsMu.RUnlock()
	return c.JSON(s.tools)
}

// TriggerToolRequest is the request body for triggering a tool
type TriggerToolRequest struct {
	Args map[string]any `json:"args"`
}

// handleTriggerTool runs a tool manually through the same path MCP
// clients use
func (s *Server) handleTriggerTool(c *fiber.Ctx) error {
	name := c.Params("name")

	var req TriggerToolRequest
	if err := c.BodyParser(&req); err != nil {
		req.Args = make(map[string]any)
	}

	if s.OnToolTrigger == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Tool trigger not configured",
		})
	}

	result, isError := s.OnToolTrigger(name, req.Args)

	logType := "tool"
	if isError {
		logType = "error"
	}
	s.AddLog(logType, "Manual "+name+": "+firstLine(result))

	return c.JSON(fiber.Map{
		"tool":     name,
		"result":   result,
		"is_error": isError,
	})
}

// handleGetLogs returns recent activity entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleStatusWS streams state snapshots; the current one is sent on
// connect
func (s *Server) handleStatusWS(c *websocket.Conn) {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	c.WriteJSON(state)

	hub.NewClient(s.statusHub, c).Run()
}

// handleLogsWS streams activity entries; recent history is replayed on
// connect
func (s *Server) handleLogsWS(c *websocket.Conn) {
	s.logsMu.RLock()
	recent := make([]LogEntry, len(s.logs))
	copy(recent, s.logs)
	s.logsMu.RUnlock()
	for _, entry := range recent {
		if err := c.WriteJSON(entry); err != nil {
			c.Close()
			return
		}
	}

	hub.NewClient(s.logHub, c).Run()
}

// handleCameraWS streams binary JPEG frames
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}

func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i]
		}
	}
	return text
}
