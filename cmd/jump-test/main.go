// Jump test - exercise the Jumping Sumo jump workflow end to end.
//
// Talks to a running sumo-mcp server over streamable HTTP:
//
//	sumo-mcp -transport http -addr :8000
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	url := flag.String("url", "http://localhost:8000/mcp", "Streamable HTTP endpoint of sumo-mcp")
	sumoIP := flag.String("robot", "", "Robot IP (empty uses the server default)")
	flag.Parse()

	fmt.Println("🦘 Jumping Sumo Jump Test")
	fmt.Println("=========================")
	fmt.Printf("Server: %s\n", *url)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "jump-test", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: *url}, nil)
	if err != nil {
		log.Fatalf("❌ Failed to reach server: %v", err)
	}
	defer session.Close()

	args := map[string]any{}
	if *sumoIP != "" {
		args["sumo_ip"] = *sumoIP
	}
	if !call(ctx, session, "connect_robot", args) {
		fmt.Println("\nIs the robot powered on and its wifi joined?")
		os.Exit(1)
	}

	steps := []struct {
		title string
		tool  string
		args  map[string]any
		pause time.Duration
	}{
		{"Switch to jumper posture", "change_posture", map[string]any{"posture_type": "jumper"}, 2 * time.Second},
		{"Load the jump spring", "load_jump", nil, 2 * time.Second},
		{"Cancel the loaded jump", "cancel_jump", nil, 2 * time.Second},
		{"High jump", "jump_robot", map[string]any{"jump_type": "high"}, 3 * time.Second},
		{"Long jump", "jump_robot", map[string]any{"jump_type": "long"}, 3 * time.Second},
		{"Emergency stop the jump motor", "stop_jump", nil, time.Second},
		{"Back to standing posture", "change_posture", map[string]any{"posture_type": "standing"}, 0},
	}

	for i, step := range steps {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("\nStep %d/%d: %s\n", i+1, len(steps), step.title)
		call(ctx, session, step.tool, step.args)
		select {
		case <-time.After(step.pause):
		case <-ctx.Done():
		}
	}

	fmt.Println()
	call(ctx, session, "disconnect_robot", nil)
	fmt.Println("👋 Done!")
}

// call invokes one tool and prints its rendered response. It returns
// false when the server flagged the result as an error.
func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) bool {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		fmt.Printf("❌ %s: %v\n", name, err)
		return false
	}
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			fmt.Println(tc.Text)
		}
	}
	return !res.IsError
}
