// Package cmd implements the command-line interface for optimeet.
//
// This package provides the following commands:
//   - serve: Start the MCP server with the scheduling and notes tools
//   - slot: Find a free meeting slot from the command line
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Commands that read calendars share the data flags defined in sources.go.
// Every flag can also be set through an environment variable, and a .env
// file is loaded before any command runs.
package cmd
