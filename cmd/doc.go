// Package cmd implements the command-line interface for calrooms.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the calendar room tools
//   - tools: Print the registered tool descriptors as JSON
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
