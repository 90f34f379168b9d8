// Package resources provides MCP resources for the data behind the tools.
// Resources are read-only documents that MCP clients can fetch to give an
// assistant context before it calls a tool: who the user is, which
// contacts can be scheduled with and what is already on the calendar.
package resources
