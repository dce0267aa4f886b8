// Command ghtools serves the GitHub REST API as MCP tools over stdio or SSE.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
