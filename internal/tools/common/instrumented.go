package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/optimeet/internal/instrumentation"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and an
// audit record. A result with IsError set counts as a failed call.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		contact := ContactFromArgs(request.GetArguments())

		attrs := []attribute.KeyValue{attribute.Bool(instrumentation.SpanAttrReadOnly, sc.ReadOnly())}
		if contact != "" {
			attrs = append(attrs, attribute.String(instrumentation.SpanAttrContact, logging.Hash("contact", contact)))
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)
		if contact != "" {
			invocation.WithContact(contact)
		}

		result, err := handler(ctx, request)

		var failure error
		switch {
		case err != nil:
			failure = err
		case result != nil && result.IsError:
			failure = errors.New(resultText(result))
		}

		status := instrumentation.StatusSuccess
		if failure != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, failure)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		invocation.Complete(failure == nil, failure)

		contactLabel := ""
		if contact != "" {
			contactLabel = logging.Hash("contact", contact)
		}
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, contactLabel, time.Since(start))
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return "tool returned an error"
}
