package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Attribute keys shared by all packages.
const (
	KeyOperation   = "operation"
	KeyTool        = "tool"
	KeyStatus      = "status"
	KeyError       = "error"
	KeyDuration    = "duration"
	KeyContactHash = "contact_hash"
	KeyCalendar    = "calendar_hash"
	KeyDay         = "day"
	KeySlot        = "slot"
)

// Status values. They mirror the instrumentation package, which imports this
// one.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return OrDefault(logger).With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return OrDefault(logger).With(slog.String(KeyTool, tool))
}

// Operation returns an attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns an attribute for an MCP tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns an attribute for an outcome.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Day returns an attribute for a weekday or date label.
func Day(day string) slog.Attr {
	return slog.String(KeyDay, day)
}

// Slot returns an attribute for a rendered time slot.
func Slot(slot fmt.Stringer) slog.Attr {
	return slog.String(KeySlot, slot.String())
}

// Err returns an attribute for err. A nil error yields an empty group, which
// slog omits.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// Hash returns a short stable digest of s with the given prefix, or "" for
// an empty s. Names are lowercased first so "Marcos" and "marcos" correlate.
func Hash(prefix, s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return prefix + ":" + hex.EncodeToString(sum[:8])
}

// Contact returns an attribute with the hashed contact name.
func Contact(name string) slog.Attr {
	return slog.String(KeyContactHash, Hash("contact", name))
}

// Calendar returns an attribute with the hashed calendar ID or address.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, Hash("calendar", id))
}

// SanitizeToken returns a length indicator for token without any of its
// content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
