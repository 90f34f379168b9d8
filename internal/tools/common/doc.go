// Package common provides helpers shared by the MCP tool packages: argument
// parsing, JSON results, per-contact batch results and the instrumented
// handler wrapper.
package common
