package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool argument bundles. Optional fields are pointers so the handlers
// can tell "absent" from an explicit zero before applying defaults.
type connectArgs struct {
	SumoIP string `json:"sumo_ip"`
}

type moveArgs struct {
	Speed    int      `json:"speed"`
	Turn     *int     `json:"turn"`
	Duration *float64 `json:"duration"`
}

type jumpArgs struct {
	JumpType string `json:"jump_type"`
}

type postureArgs struct {
	PostureType string `json:"posture_type"`
}

type animationArgs struct {
	Animation string `json:"animation"`
}

func (s *Server) connectRobot(ctx context.Context, in connectArgs) *mcp.CallToolResult {
	addr := in.SumoIP
	if addr == "" {
		addr = s.cfg.SumoIP
	}
	if err := s.guard.Connect(ctx, addr); err != nil {
		s.logger.Warn("connect failed", "addr", addr, "error", err)
		return result(connectFailedText(addr))
	}
	if !s.guard.Connected() {
		return result(connectFailedText(addr))
	}
	return result(connectedText(addr))
}

func (s *Server) disconnectRobot(ctx context.Context) *mcp.CallToolResult {
	if !s.guard.Disconnect(ctx) {
		return result(noConnectionText)
	}
	return result(disconnectedText)
}

func (s *Server) connectionStatus() *mcp.CallToolResult {
	st := s.guard.Status()
	if !st.Active {
		return result(statusNoneText)
	}
	return result(statusText(st.Connected, st.Addr))
}

func (s *Server) moveRobot(ctx context.Context, in moveArgs) *mcp.CallToolResult {
	turn := 0
	if in.Turn != nil {
		turn = *in.Turn
	}
	duration := 1.0
	if in.Duration != nil {
		duration = *in.Duration
	}
	if err := s.guard.Move(ctx, in.Speed, turn, duration); err != nil {
		return renderError("move_robot", err)
	}
	return result(moveText(in.Speed, turn, duration))
}

func (s *Server) cameraFrame(ctx context.Context) *mcp.CallToolResult {
	frame, ok, err := s.guard.CameraFrame(ctx)
	if err != nil {
		return renderError("get_camera_frame", err)
	}
	if !ok {
		return result(noFrameText)
	}
	path, err := saveFrame(s.cfg.ArtifactsDir, frame)
	if err != nil {
		return result(errExecutingText("get_camera_frame", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: cameraFrameText(path, len(frame))},
			&mcp.ImageContent{Data: frame, MIMEType: "image/jpeg"},
		},
	}
}

func (s *Server) capturePhoto(ctx context.Context) *mcp.CallToolResult {
	if err := s.guard.CapturePhoto(ctx); err != nil {
		return renderError("capture_photo", err)
	}
	return result(photoStoredText)
}

func (s *Server) jumpRobot(ctx context.Context, in jumpArgs) *mcp.CallToolResult {
	kind := in.JumpType
	if kind == "" {
		kind = "long"
	}
	if err := s.guard.Jump(ctx, kind); err != nil {
		return renderError("jump_robot", err)
	}
	return result(jumpText(kind))
}

func (s *Server) loadJump(ctx context.Context) *mcp.CallToolResult {
	if err := s.guard.LoadJump(ctx); err != nil {
		return renderError("load_jump", err)
	}
	return result(loadJumpText)
}

func (s *Server) cancelJump(ctx context.Context) *mcp.CallToolResult {
	if err := s.guard.CancelJump(ctx); err != nil {
		return renderError("cancel_jump", err)
	}
	return result(cancelJumpText)
}

func (s *Server) stopJump(ctx context.Context) *mcp.CallToolResult {
	if err := s.guard.StopJump(ctx); err != nil {
		return renderError("stop_jump", err)
	}
	return result(stopJumpText)
}

func (s *Server) changePosture(ctx context.Context, in postureArgs) *mcp.CallToolResult {
	posture := in.PostureType
	if posture == "" {
		posture = "standing"
	}
	if err := s.guard.ChangePosture(ctx, posture); err != nil {
		return renderError("change_posture", err)
	}
	return result(postureText(posture))
}

func (s *Server) playAnimation(ctx context.Context, in animationArgs) *mcp.CallToolResult {
	name := in.Animation
	if name == "" {
		name = "spin"
	}
	if err := s.guard.PlayAnimation(ctx, name); err != nil {
		return renderError("play_animation", err)
	}
	return result(animationText(name))
}
