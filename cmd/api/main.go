package main

import (
	"context"
	"os"

	_ "context-gateway/docs" // Swagger docs
)

// @title       Context Gateway API
// @description MCP Streamable HTTP transport with a memory-aware context engine.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
