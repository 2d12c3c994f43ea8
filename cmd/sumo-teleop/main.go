// Sumo teleop - drive the Jumping Sumo from the keyboard.
//
// Arrow keys or WASD move the robot, space jumps, 1/2/3 switch
// postures, tab+enter play animations. Run with -robot to override
// the SUMO_IP environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teslashibe/go-sumo/internal/config"
	sumolog "github.com/teslashibe/go-sumo/internal/log"
	"github.com/teslashibe/go-sumo/pkg/robot"
	"github.com/teslashibe/go-sumo/pkg/tui"
)

func main() {
	robotIP := flag.String("robot", "", "Robot IP address (overrides SUMO_IP env)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	// The TUI owns the terminal, so keep structured logging quiet.
	sumolog.Init("error")

	addr := cfg.SumoIP
	if *robotIP != "" {
		addr = *robotIP
	}

	guard := robot.NewGuard(robot.SumoDialer(cfg.D2CPort, cfg.ConnectTimeout))

	p := tea.NewProgram(tui.New(guard, addr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("❌ Teleop error: %v", err)
	}

	// Stop the robot and close the link on the way out.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	guard.Disconnect(ctx)
	fmt.Println("👋 Goodbye!")
}
