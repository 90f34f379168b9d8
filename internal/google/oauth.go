package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoToken is returned when the token file does not exist.
var ErrNoToken = errors.New("no Google OAuth token found")

// OAuthConfig returns the OAuth2 configuration used to refresh tokens. Both
// values may be empty, in which case tokens are used until they expire.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       CalendarScopes,
	}
}

// LoadToken reads a token file.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoToken, path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return ParseToken(data)
}

// ParseToken decodes a JSON token or a legacy "<access> <refresh>" pair. A
// legacy token is treated as expired so that it is refreshed before use.
func ParseToken(data []byte) (*oauth2.Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var token oauth2.Token
		if err := json.Unmarshal([]byte(trimmed), &token); err != nil {
			return nil, fmt.Errorf("invalid token file: %w", err)
		}
		if token.AccessToken == "" && token.RefreshToken == "" {
			return nil, fmt.Errorf("invalid token file: no access or refresh token")
		}
		if token.TokenType == "" {
			token.TokenType = "Bearer"
		}
		return &token, nil
	}

	f := strings.Fields(trimmed)
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}
	return &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	}, nil
}

// SaveToken writes token as JSON with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// NewHTTPClient returns an HTTP/1.1 client that authenticates with ts.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}
