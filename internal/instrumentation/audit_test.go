package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("record_notes").WithContact("Marcos")
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.Complete(true, nil)
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}

	ti = NewToolInvocation("book_meeting").Complete(false, errors.New("conflict"))
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
	if ti.Error != "conflict" {
		t.Errorf("Error = %q, want %q", ti.Error, "conflict")
	}
}

func TestAuditLogger_HashesContacts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewAuditLogger(logger).LogToolInvocation(
		NewToolInvocation("get_notes").WithContact("Marcos").Complete(true, nil))

	out := buf.String()
	if !strings.Contains(out, "tool_executed") {
		t.Errorf("expected tool_executed message, got %q", out)
	}
	if strings.Contains(out, "Marcos") {
		t.Errorf("contact name leaked into audit log: %q", out)
	}
	if !strings.Contains(out, "contact_hash=contact:") {
		t.Errorf("expected hashed contact, got %q", out)
	}
}

func TestAuditLogger_IncludeContacts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludeContacts: true})
	al.LogToolInvocation(NewToolInvocation("book_meeting").WithContact("Marcos").Complete(false, errors.New("conflict")))

	out := buf.String()
	if !strings.Contains(out, "tool_failed") || !strings.Contains(out, "level=WARN") {
		t.Errorf("expected warn tool_failed, got %q", out)
	}
	if !strings.Contains(out, "contact=Marcos") {
		t.Errorf("expected clear contact, got %q", out)
	}
	if !strings.Contains(out, "error=conflict") {
		t.Errorf("expected error attribute, got %q", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewAuditLoggerWithConfig(logger, AuditLoggingConfig{}).LogToolInvocation(NewToolInvocation("get_notes").Complete(true, nil))
	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation("get_notes"))
}
