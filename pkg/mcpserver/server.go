// Package mcpserver exposes Jumping Sumo control as MCP tools over the
// official go-sdk: connection management, movement, jumps, postures,
// animations, and camera capture, rendered as operator-facing text.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teslashibe/go-sumo/internal/config"
	"github.com/teslashibe/go-sumo/pkg/robot"
)

const (
	serverName = "sumo-robot-controller"
	version    = "1.0.0"
)

// Server bridges the MCP protocol to the session guard. Every tool call
// flows through one dispatcher, so the dashboard's manual triggers and
// real MCP clients share the exact same behavior.
type Server struct {
	guard  *robot.Guard
	cfg    *config.Config
	logger *slog.Logger
	mcp    *mcp.Server
	tools  []*mcp.Tool

	// OnActivity, when set, receives the tool name and the first line of
	// the rendered response after every call. The dashboard subscribes
	// here for its activity feed.
	OnActivity func(tool, summary string)
}

// New builds the server and registers the full tool catalog.
func New(guard *robot.Guard, cfg *config.Config) *Server {
	s := &Server{
		guard:  guard,
		cfg:    cfg,
		logger: slog.Default().With("component", "mcp.server"),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	s.register()
	return s
}

// Run serves MCP over the given transport until the context ends or the
// client disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("serving", "name", serverName, "tools", len(s.tools))
	return s.mcp.Run(ctx, t)
}

// MCP returns the underlying SDK server for transports that attach to
// it directly, such as the streamable HTTP handler.
func (s *Server) MCP() *mcp.Server { return s.mcp }

func (s *Server) register() {
	for _, tool := range toolCatalog() {
		s.tools = append(s.tools, tool)
		name := tool.Name
		mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, args json.RawMessage) (*mcp.CallToolResult, any, error) {
			return s.dispatch(ctx, name, args), nil, nil
		})
	}
}

// dispatch runs one tool call end to end. Every outcome, including an
// unknown name or a failed operation, comes back as a rendered result;
// errors never escape to the protocol layer.
func (s *Server) dispatch(ctx context.Context, name string, args []byte) *mcp.CallToolResult {
	if len(args) == 0 {
		args = []byte("{}")
	}
	res := s.call(ctx, name, args)
	s.logger.Debug("tool call", "tool", name, "is_error", res.IsError)
	if s.OnActivity != nil {
		s.OnActivity(name, firstLine(res))
	}
	return res
}

func (s *Server) call(ctx context.Context, name string, args []byte) *mcp.CallToolResult {
	switch name {
	case "connect_robot":
		var in connectArgs
		if res := decodeArgs(name, args, &in); res != nil {
			return res
		}
		return s.connectRobot(ctx, in)
	case "disconnect_robot":
		return s.disconnectRobot(ctx)
	case "get_connection_status":
		return s.connectionStatus()
	case "move_robot":
		var in moveArgs
		if res := decodeArgs(name, args, &in); res != nil {
			return res
		}
		return s.moveRobot(ctx, in)
	case "get_camera_frame":
		return s.cameraFrame(ctx)
	case "capture_photo":
		return s.capturePhoto(ctx)
	case "jump_robot":
		var in jumpArgs
		if res := decodeArgs(name, args, &in); res != nil {
			return res
		}
		return s.jumpRobot(ctx, in)
	case "load_jump":
		return s.loadJump(ctx)
	case "cancel_jump":
		return s.cancelJump(ctx)
	case "stop_jump":
		return s.stopJump(ctx)
	case "change_posture":
		var in postureArgs
		if res := decodeArgs(name, args, &in); res != nil {
			return res
		}
		return s.changePosture(ctx, in)
	case "play_animation":
		var in animationArgs
		if res := decodeArgs(name, args, &in); res != nil {
			return res
		}
		return s.playAnimation(ctx, in)
	default:
		return result(unknownToolText(name))
	}
}

// TriggerTool runs a tool outside an MCP session, for the dashboard's
// manual controls. It returns the rendered text and the error flag.
func (s *Server) TriggerTool(ctx context.Context, name string, args map[string]any) (string, bool) {
	data, err := json.Marshal(args)
	if err != nil {
		return errExecutingText(name, err), true
	}
	res := s.dispatch(ctx, name, data)
	return allText(res), res.IsError
}

// ToolInfo describes one registered tool for the dashboard catalog.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog lists the registered tools in registration order.
func (s *Server) Catalog() []ToolInfo {
	infos := make([]ToolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		infos = append(infos, ToolInfo{Name: t.Name, Description: t.Description})
	}
	return infos
}

func decodeArgs(name string, data []byte, v any) *mcp.CallToolResult {
	if err := json.Unmarshal(data, v); err != nil {
		return result(errExecutingText(name, err))
	}
	return nil
}

func allText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func firstLine(res *mcp.CallToolResult) string {
	text := allText(res)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}
