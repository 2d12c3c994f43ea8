package mcpserver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teslashibe/go-sumo/pkg/robot"
)

// Response texts for the tools that always say the same thing.
const (
	notConnectedText = "❌ Error: Not connected to robot.\n" +
		"Please use connect_robot first to establish a connection."

	connectionLostText = "❌ Error: Robot connection lost.\n" +
		"Please reconnect using connect_robot."

	noConnectionText = "ℹ️ No robot connection active."

	disconnectedText = "✅ Successfully disconnected from robot."

	statusNoneText = "❌ Not connected to robot.\n" +
		"Use connect_robot to establish a connection."

	noFrameText = "⚠️ No camera frame available yet.\n" +
		"The video stream may still be initializing. Please try again in a moment."

	photoStoredText = "📸 Photo captured to robot's internal storage.\n\n" +
		"Note: The photo is stored on the robot itself.\n" +
		"To retrieve it, you'll need to access the robot via FTP.\n" +
		"For immediate viewing, use get_camera_frame instead."

	loadJumpText = "🔧 Spring loaded! Robot ready to jump or kick.\n\n" +
		"Next steps:\n" +
		"- Call jump_robot to execute the jump\n" +
		"- Or change_posture to kicker, then jump_robot to kick\n" +
		"- Or cancel_jump to abort"

	cancelJumpText = "↩️ Jump cancelled. Robot returning to previous state."

	stopJumpText = "🛑 Jump motor stopped immediately (emergency stop)."
)

var postureEmojis = map[string]string{
	"standing": "🚗",
	"jumper":   "🦘",
	"kicker":   "⚽",
}

var postureDescriptions = map[string]string{
	"standing": "normal driving mode",
	"jumper":   "jump-ready position",
	"kicker":   "kicking stance (front accessory active)",
}

var animationEmojis = map[string]string{
	"stop":          "⏹️",
	"spin":          "🌀",
	"tap":           "👆",
	"slowshake":     "🤝",
	"metronome":     "⏱️",
	"ondulation":    "💃",
	"spinjump":      "🌪️",
	"spintoposture": "🔄",
	"spiral":        "🌀",
	"slalom":        "⛷️",
}

// result wraps text in a tool result. Texts that open with the failure
// marker are flagged IsError so clients can branch on them.
func result(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: strings.HasPrefix(text, "❌"),
	}
}

// renderError maps guard failures onto operator-facing texts. The
// connection sentinels get dedicated messages; everything else goes
// through the catch-all.
func renderError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, robot.ErrNotConnected):
		return result(notConnectedText)
	case errors.Is(err, robot.ErrConnectionLost):
		return result(connectionLostText)
	default:
		return result(errExecutingText(tool, err))
	}
}

func connectedText(addr string) string {
	return fmt.Sprintf("✅ Successfully connected to Sumo robot at %s\n", addr) +
		"Video streaming is active. You can now control the robot!\n\n" +
		"Available commands:\n" +
		"- move_robot: Control movement\n" +
		"- get_camera_frame: View camera\n" +
		"- capture_photo: Take a photo\n" +
		"- get_connection_status: Check status"
}

func connectFailedText(addr string) string {
	return fmt.Sprintf("❌ Failed to connect to Sumo robot at %s\n\n", addr) +
		"Troubleshooting:\n" +
		"1. Ensure the robot is powered on\n" +
		"2. Connect to the robot's WiFi network (JumpingSumo-XXXXXX)\n" +
		fmt.Sprintf("3. Verify you can ping %s\n", addr) +
		"4. Check that no other device is connected to the robot"
}

func statusText(connected bool, addr string) string {
	emoji, status := "❌", "Disconnected"
	if connected {
		emoji, status = "✅", "Connected"
	}
	return fmt.Sprintf("%s Robot Status: %s\nIP Address: %s", emoji, status, addr)
}

func moveText(speed, turn int, duration float64) string {
	direction := "no movement"
	switch {
	case speed > 0:
		direction = "forward"
	case speed < 0:
		direction = "backward"
		speed = -speed
	}
	turnDesc := ""
	switch {
	case turn > 0:
		turnDesc = fmt.Sprintf(", turning right (%d%%)", turn)
	case turn < 0:
		turnDesc = fmt.Sprintf(", turning left (%d%%)", -turn)
	}
	return fmt.Sprintf("🤖 Robot moving %s at %d%% speed%s for %ss",
		direction, speed, turnDesc, formatSeconds(duration))
}

func jumpText(kind string) string {
	emoji, desc := "🦘", "long jump (for distance)"
	if kind == "high" {
		emoji, desc = "⬆️", "high jump (for height)"
	}
	return fmt.Sprintf("%s Robot performing %s!\n\n"+
		"⚠️ Make sure there's adequate clearance around the robot.", emoji, desc)
}

func postureText(posture string) string {
	return fmt.Sprintf("%s Posture changed to %s (%s).",
		postureEmojis[posture], posture, postureDescriptions[posture])
}

func animationText(name string) string {
	return fmt.Sprintf("%s Playing '%s' animation!", animationEmojis[name], name)
}

func cameraFrameText(path string, size int) string {
	return fmt.Sprintf("📷 Camera frame captured and saved to:\n%s\n\n"+
		"Image size: %d bytes", path, size)
}

func errExecutingText(tool string, err error) string {
	return fmt.Sprintf("❌ Error executing %s: %v\n\n"+
		"If this is a connection error, try reconnecting with connect_robot.", tool, err)
}

func unknownToolText(name string) string {
	return fmt.Sprintf("❌ Unknown tool: %s", name)
}

// formatSeconds renders a duration the way operators type it: "1.0",
// "0.5", "2.25". Whole values keep a trailing .0 so "for 1.0s" reads as
// a duration rather than a count.
func formatSeconds(d float64) string {
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
