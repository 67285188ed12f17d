// The toolserver binary exposes the tool catalog over the transport the
// agent connects to: stdio when spawned per run, or a long-lived HTTP
// endpoint when started standalone.
//
//	geoinsight-toolserver stdio
//	geoinsight-toolserver http
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/k3053/GeoInsight.AI/config"
	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/tools"
)

const serverVersion = "0.1"

func main() {
	// stdout is the protocol channel in stdio mode; logs go to stderr.
	log.SetOutput(os.Stderr)

	cfg := config.Load()
	provider := tools.NewProvider(cfg.GoogleMapsAPIKey, cfg.SerpAPIKey)
	server := mcp.NewServer("geoinsight-tools", serverVersion)
	provider.RegisterAll(server)

	transport := "stdio"
	if len(os.Args) > 1 {
		transport = strings.ToLower(os.Args[1])
	}

	switch transport {
	case "stdio":
		if err := server.ServeStdio(context.Background(), os.Stdin, os.Stdout); err != nil {
			log.Fatalf("stdio transport failed: %v", err)
		}
	case "http":
		mux := http.NewServeMux()
		mux.Handle("/mcp", server.HTTPHandler())
		addr := ":" + cfg.ToolServerPort
		log.Printf("tool server listening on %s/mcp", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("http transport failed: %v", err)
		}
	default:
		log.Fatalf("unknown transport %q (want stdio or http)", transport)
	}
}
