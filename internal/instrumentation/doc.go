// Package instrumentation wires OpenTelemetry metrics and tracing into the
// optimeet MCP server.
//
// # Metrics
//
// MCP tools:
//   - mcp_tool_invocations_total: tool invocations by tool and status
//   - mcp_tool_duration_seconds: tool execution time
//
// Calendar API:
//   - calendar_api_operations_total: Google Calendar calls by operation and status
//   - calendar_api_operation_duration_seconds: Google Calendar call latency
//
// Scheduling:
//   - slot_searches_total: slot searches by mode (day, soonest) and outcome
//   - slot_candidates: number of free slots seen per search
//
// HTTP:
//   - http_requests_total and http_request_duration_seconds for the
//     streamable HTTP transport
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>) and Google Calendar
// calls (calendar.<operation>).
//
// # Configuration
//
// DefaultConfig reads the environment:
//   - INSTRUMENTATION_ENABLED (default true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default 0.1)
//   - OTEL_SERVICE_NAME (default optimeet)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_CONTACTS
//
// Usage:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordSlotSearch(ctx, "soonest", instrumentation.StatusSuccess, 12)
package instrumentation
