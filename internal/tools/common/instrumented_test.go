package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/optimeet/internal/instrumentation"
	"github.com/teemow/optimeet/internal/server"
)

func newServerContext(t *testing.T, cfg server.Config) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t, server.Config{})

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newServerContext(t, server.Config{})

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})
	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedToolHandler_AuditLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	sc := newServerContext(t, server.Config{
		Metrics:     metrics,
		AuditLogger: instrumentation.NewAuditLogger(logger),
	})

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("no meeting with Marcos"), nil
	}

	result, err := InstrumentedToolHandler("get_meeting", sc, handler)(context.Background(),
		callRequest(map[string]any{"contact": "Marcos"}))
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result")
	}

	out := buf.String()
	if !strings.Contains(out, "tool_failed") {
		t.Errorf("audit log = %q, want tool_failed", out)
	}
	if !strings.Contains(out, "no meeting with Marcos") {
		t.Errorf("audit log = %q, want the error text", out)
	}
	if strings.Contains(out, `"contact":"Marcos"`) {
		t.Errorf("audit log = %q, contact should be hashed", out)
	}
	if !strings.Contains(out, "contact:") {
		t.Errorf("audit log = %q, want a hashed contact", out)
	}
}

func TestResultText(t *testing.T) {
	if got := resultText(mcp.NewToolResultError("boom")); got != "boom" {
		t.Errorf("resultText() = %q, want %q", got, "boom")
	}
	if got := resultText(&mcp.CallToolResult{}); got != "tool returned an error" {
		t.Errorf("resultText() = %q", got)
	}
}
