// Sumo MCP server - drive a Parrot Jumping Sumo from any MCP client.
//
// Exposes connection, movement, jump, posture, animation, and camera
// tools over stdio (default) or streamable HTTP, with an optional web
// dashboard for manual control.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teslashibe/go-sumo/internal/config"
	sumolog "github.com/teslashibe/go-sumo/internal/log"
	"github.com/teslashibe/go-sumo/pkg/mcpserver"
	"github.com/teslashibe/go-sumo/pkg/robot"
	"github.com/teslashibe/go-sumo/pkg/web"
)

func main() {
	transport := flag.String("transport", "stdio", "MCP transport: stdio or http")
	addr := flag.String("addr", ":8000", "Listen address for the http transport")
	dashboard := flag.String("dashboard", "", "Dashboard port (overrides SUMO_DASHBOARD_PORT)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if *dashboard != "" {
		cfg.DashboardPort = *dashboard
	}
	sumolog.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	guard := robot.NewGuard(robot.SumoDialer(cfg.D2CPort, cfg.ConnectTimeout))
	srv := mcpserver.New(guard, cfg)

	// Stdout carries the protocol on the stdio transport, so everything
	// human-facing goes to stderr.
	fmt.Fprintln(os.Stderr, "🤖 Jumping Sumo MCP Server")
	fmt.Fprintf(os.Stderr, "   Transport: %s\n", *transport)
	fmt.Fprintf(os.Stderr, "   Default robot: %s\n", cfg.SumoIP)

	var dash *web.Server
	if cfg.DashboardPort != "" {
		dash = runDashboard(ctx, cfg.DashboardPort, guard, srv)
	}

	switch *transport {
	case "stdio":
		err = srv.Run(ctx, &mcp.StdioTransport{})
	case "http":
		err = serveHTTP(ctx, srv, *addr)
	default:
		log.Fatalf("❌ Unknown transport %q (want stdio or http)", *transport)
	}
	if err != nil && ctx.Err() == nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	// Leave the robot stopped and the link closed on the way out.
	guard.Disconnect(context.Background())
	if dash != nil {
		dash.Shutdown()
	}
	fmt.Fprintln(os.Stderr, "👋 Goodbye!")
}

// serveHTTP exposes the MCP server over the streamable HTTP transport
// at /mcp until the context ends.
func serveHTTP(ctx context.Context, srv *mcpserver.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv.MCP() }, nil)
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)

	hs := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		hs.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "   Endpoint: http://localhost%s/mcp\n", addr)
	if err := hs.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runDashboard starts the operator dashboard and keeps it fed with
// session state and camera frames.
func runDashboard(ctx context.Context, port string, guard *robot.Guard, srv *mcpserver.Server) *web.Server {
	dash := web.NewServer(port)
	catalog := srv.Catalog()
	tools := make([]web.ToolInfo, len(catalog))
	for i, t := range catalog {
		tools[i] = web.ToolInfo{Name: t.Name, Description: t.Description}
	}
	dash.SetTools(tools)
	dash.OnToolTrigger = func(name string, args map[string]any) (string, bool) {
		return srv.TriggerTool(ctx, name, args)
	}
	srv.OnActivity = func(tool, summary string) {
		dash.AddLog("tool", tool+": "+summary)
		dash.UpdateState(func(st *web.SumoStatus) {
			st.LastTool = tool
			st.LastResult = summary
		})
	}
	dash.StartAsync()

	// Session state poller.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := guard.Status()
				dash.UpdateState(func(ws *web.SumoStatus) {
					ws.Active = st.Active
					ws.Connected = st.Connected
					ws.Addr = st.Addr
					ws.SessionID = st.SessionID
					ws.Uptime = ""
					if st.Active {
						ws.Uptime = time.Since(st.Since).Round(time.Second).String()
					}
				})
			}
		}
	}()

	// Camera relay, roughly 5 fps.
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if frame, ok := guard.LatestFrame(); ok {
					dash.SendCameraFrame(frame)
				}
			}
		}
	}()

	return dash
}
