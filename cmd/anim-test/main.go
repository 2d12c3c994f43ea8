// Anim test - walk the Jumping Sumo through every built-in animation.
//
// Spawns the sumo-mcp server over stdio and drives it as an MCP
// client, the same way an agent would.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teslashibe/go-sumo/pkg/arsdk"
)

func main() {
	serverBin := flag.String("server", "sumo-mcp", "Path to the sumo-mcp binary")
	sumoIP := flag.String("robot", "", "Robot IP (empty uses the server default)")
	pause := flag.Duration("pause", 4*time.Second, "Pause between animations")
	flag.Parse()

	fmt.Println("🎬 Jumping Sumo Animation Test")
	fmt.Println("==============================")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "anim-test", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: exec.Command(*serverBin)}, nil)
	if err != nil {
		log.Fatalf("❌ Failed to start %s: %v", *serverBin, err)
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

	call(ctx, session, "change_posture", map[string]any{"posture_type": "standing"})
	time.Sleep(2 * time.Second)

	for _, name := range arsdk.AnimationNames() {
		if name == "stop" {
			// "stop" halts a running animation rather than playing one.
			continue
		}
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("\n🎭 %s\n", name)
		call(ctx, session, "play_animation", map[string]any{"animation": name})
		select {
		case <-time.After(*pause):
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
