// Package google loads an already issued Google OAuth token and builds the
// authenticated HTTP client used by the calendar adapter.
//
// Obtaining tokens is left to other tools. The token file holds either the
// JSON encoding of an oauth2.Token or the legacy "<access> <refresh>" pair.
// When a client ID and secret are configured, expired access tokens are
// refreshed and written back to the file.
package google
