// Drag-and-drop fixture server
//
// Serves the pages the e2e suite drives, so they can be opened by hand in a
// browser when a drag test misbehaves.
//
// Usage:
//
//	go run ./cmd/dnd-fixtures serve --addr :8080
//	DND_ADDR=:9000 DND_DEBUG=true go run ./cmd/dnd-fixtures serve
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
