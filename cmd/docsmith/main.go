// Package main is the entry point for the docsmith CLI.
//
// Startup is deliberately thin: initialize logging, then hand off to the
// command tree. Loading site.yaml, scanning documents, building, and
// serving all live behind the subcommands in internal/cli.
package main

import (
	"docsmith/internal/cli"
	"docsmith/internal/logging"
)

func main() {
	logging.GetDefault()
	cli.Execute()
}
