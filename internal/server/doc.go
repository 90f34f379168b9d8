// Package server provides the MCP server context and the HTTP servers of
// optimeet.
//
// # Key Components
//
// ServerContext owns the process-wide state: the principal's calendar, the
// contact directory, the notes notebook and the slot finder, plus the
// optional Google Calendar client. Tools receive it at registration time.
//
// HTTPServer serves the MCP server over streamable HTTP on /mcp, with
// /healthz, /readyz and /healthz/detailed next to it. Requests are counted by
// InstrumentHandler.
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
