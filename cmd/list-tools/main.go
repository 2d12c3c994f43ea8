// List tools - print the MCP tool catalog of a sumo-mcp server.
//
// Without -url it spawns the server binary over stdio; with -url it
// queries a running streamable HTTP server instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	url := flag.String("url", "", "Streamable HTTP endpoint (empty spawns -server over stdio)")
	serverBin := flag.String("server", "sumo-mcp", "Path to the sumo-mcp binary for stdio mode")
	flag.Parse()

	var transport mcp.Transport
	if *url != "" {
		transport = &mcp.StreamableClientTransport{Endpoint: *url}
	} else {
		transport = &mcp.CommandTransport{Command: exec.Command(*serverBin)}
	}

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "list-tools", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("❌ Failed to reach server: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("❌ ListTools: %v", err)
	}

	fmt.Println("🤖 Jumping Sumo MCP tools")
	fmt.Println()
	for _, tool := range res.Tools {
		desc := tool.Description
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Printf("  %-22s %s\n", tool.Name, desc)
	}
	fmt.Printf("\n%d tools\n", len(res.Tools))
}
