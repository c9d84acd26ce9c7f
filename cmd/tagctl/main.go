package main

import (
	"os"

	"github.com/leopoldus11/tag-directory/cmd/tagctl/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Failures are already reported by the command with color formatting
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
