package google

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/optimeet/internal/logging"
)

// TokenProvider supplies OAuth tokens for Google API calls.
type TokenProvider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
	HasToken() bool
}

// FileTokenProvider serves tokens from a token file and persists refreshed
// tokens back to it.
type FileTokenProvider struct {
	Path   string
	Config *oauth2.Config
	Logger *slog.Logger
}

// NewFileTokenProvider creates a provider for the token file at path.
func NewFileTokenProvider(path string, config *oauth2.Config) *FileTokenProvider {
	return &FileTokenProvider{Path: path, Config: config}
}

// HasToken reports whether the token file exists.
func (p *FileTokenProvider) HasToken() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}

// TokenSource loads the token file and returns a source that refreshes the
// token through Config and saves every new token.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := LoadToken(p.Path)
	if err != nil {
		return nil, err
	}

	config := p.Config
	if config == nil {
		config = OAuthConfig("", "")
	}

	return &persistingTokenSource{
		base:   config.TokenSource(ctx, token),
		path:   p.Path,
		last:   token.AccessToken,
		logger: logging.OrDefault(p.Logger),
	}, nil
}

type persistingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get Google token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := SaveToken(s.path, token); err != nil {
			s.logger.Warn("failed to persist refreshed token", logging.Err(err))
		} else {
			s.logger.Debug("persisted refreshed token", slog.String("token", logging.SanitizeToken(token.AccessToken)))
		}
	}
	return token, nil
}
