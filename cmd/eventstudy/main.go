package main

import (
	"os"

	"github.com/wonny/eventstudy/cmd/eventstudy/commands"
)

// main is the entry point for the event study CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/eventstudy [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
