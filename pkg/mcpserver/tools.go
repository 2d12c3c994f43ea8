package mcpserver

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolCatalog returns the twelve robot control tools. Schemas carry the
// descriptions, ranges, and defaults clients rely on for argument
// completion; the handlers apply the same defaults server-side.
func toolCatalog() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        "connect_robot",
			Description: "Connect to the Parrot Jumping Sumo robot via WiFi. The robot must be powered on and your computer must be connected to its WiFi network (default IP: 192.168.2.1).",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"sumo_ip": {
						Type:        "string",
						Description: "IP address of the Sumo robot (default: 192.168.2.1)",
						Default:     json.RawMessage(`"192.168.2.1"`),
					},
				},
			},
		},
		{
			Name:        "disconnect_robot",
			Description: "Safely disconnect from the Sumo robot and clean up resources.",
			InputSchema: emptyObject(),
		},
		{
			Name:        "move_robot",
			Description: "Control the robot's movement. Speed controls forward/backward motion (-100 to 100), turn controls rotation (-100 to 100 for -360 to 360 degrees), and duration is in seconds. The robot will execute the command for the specified duration then stop.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"speed": {
						Type:        "integer",
						Description: "Movement speed from -100 (full backward) to 100 (full forward), 0 = stop",
						Minimum:     f64(-100),
						Maximum:     f64(100),
					},
					"turn": {
						Type:        "integer",
						Description: "Turn rate from -100 (full left) to 100 (full right), 0 = straight",
						Minimum:     f64(-100),
						Maximum:     f64(100),
						Default:     json.RawMessage("0"),
					},
					"duration": {
						Type:        "number",
						Description: "Duration of movement in seconds (minimum 0.025s)",
						Minimum:     f64(0.025),
						Default:     json.RawMessage("1.0"),
					},
				},
				Required: []string{"speed"},
			},
		},
		{
			Name:        "get_camera_frame",
			Description: "Retrieve the current frame from the robot's onboard camera. Returns a base64-encoded JPEG image and saves it to the artifacts directory for viewing. The video stream must be active (automatically started on connect).",
			InputSchema: emptyObject(),
		},
		{
			Name:        "capture_photo",
			Description: "Capture a photo to the robot's internal storage. Note: The photo is stored on the robot itself and requires FTP access to retrieve. Use get_camera_frame instead if you want immediate access to images.",
			InputSchema: emptyObject(),
		},
		{
			Name:        "jump_robot",
			Description: "Make the robot jump! The Jumping Sumo can perform two types of jumps: 'long' for distance and 'high' for height. Note: Ensure adequate clearance above and around the robot before jumping.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"jump_type": {
						Type:        "string",
						Enum:        []any{"long", "high"},
						Description: "Type of jump: 'long' for maximum distance or 'high' for maximum height",
						Default:     json.RawMessage(`"long"`),
					},
				},
			},
		},
		{
			Name:        "load_jump",
			Description: "Load/compress the spring for jumping or kicking. This prepares the robot without executing the action immediately. After loading, you can execute a jump or kick.",
			InputSchema: emptyObject(),
		},
		{
			Name:        "cancel_jump",
			Description: "Cancel a loaded jump and return the robot to its previous state. Use this to abort a jump after calling load_jump.",
			InputSchema: emptyObject(),
		},
		{
			Name:        "stop_jump",
			Description: "Emergency stop for the jump motor. Immediately stops any jump-related motion. Use for safety.",
			InputSchema: emptyObject(),
		},
		{
			Name:        "change_posture",
			Description: "Change the robot's physical posture. Options: 'standing' (normal driving), 'jumper' (jump-ready), or 'kicker' (enables kicking with front accessory).",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"posture_type": {
						Type:        "string",
						Enum:        []any{"standing", "jumper", "kicker"},
						Description: "The posture to assume",
						Default:     json.RawMessage(`"standing"`),
					},
				},
			},
		},
		{
			Name:        "play_animation",
			Description: "Play one of the robot's built-in animations for fun and personality. Options include spin, tap, slowshake, metronome, ondulation (dance), spinjump, spintoposture, spiral, slalom, and stop.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"animation": {
						Type:        "string",
						Enum:        []any{"stop", "spin", "tap", "slowshake", "metronome", "ondulation", "spinjump", "spintoposture", "spiral", "slalom"},
						Description: "The animation to play",
						Default:     json.RawMessage(`"spin"`),
					},
				},
			},
		},
		{
			Name:        "get_connection_status",
			Description: "Check if the robot is currently connected and responding. Returns connection status and details.",
			InputSchema: emptyObject(),
		},
	}
}

func emptyObject() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}}
}

func f64(v float64) *float64 { return &v }
