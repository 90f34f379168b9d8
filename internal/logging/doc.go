// Package logging provides structured logging helpers for optimeet.
//
// Everything logs through log/slog. This package fixes the attribute names
// used across packages and keeps personal data out of the logs: contact names
// and calendar addresses are hashed before they are written.
//
//	logger := logging.WithOperation(slog.Default(), "availability.soonest")
//	logger.Debug("slot found",
//	    logging.Contact("Marcos"),
//	    logging.Status(logging.StatusSuccess))
package logging
