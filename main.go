// Package main is the entry point for the parcelwatch CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The parcelwatch tool tracks shipments
// across multiple carriers and keeps their delivery status up to date.
package main

import "github.com/parcelwatch/parcelwatch/cmd"

// main initializes and runs the parcelwatch CLI application.
//
// It delegates all command parsing and execution to the cmd package,
// which handles subcommands like track, untrack, list, update, and genfeed.
func main() {
	cmd.Execute()
}
