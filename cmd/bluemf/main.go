package main

import (
	"os"

	"github.com/wonny/bluemf/backend/cmd/bluemf/commands"
)

// main is the entry point for the BlueMF CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/bluemf [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
