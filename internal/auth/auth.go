// Package auth manages the Google OAuth2 session for phishdash.
//
// The session has an explicit lifecycle (Init, SignIn, SignOut,
// IsSignedIn) instead of the ambient client state the Gmail SDK would
// otherwise encourage.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gm "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/dkathe/phishdash/internal/gmail"
)

// DefaultScopes covers reading messages and adding the SPAM label.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
}

// Session holds the OAuth2 configuration and token location.
type Session struct {
	config    *oauth2.Config
	tokenPath string
	logger    *zap.Logger
}

// Init loads the OAuth client configuration from credentials.json and
// returns a session. No network traffic happens until SignIn or Service.
func Init(credentialsPath, tokenPath string, scopes []string, logger *zap.Logger) (*Session, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials from %s: %w", credentialsPath, err)
	}

	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	config, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	return &Session{config: config, tokenPath: tokenPath, logger: logger}, nil
}

// IsSignedIn reports whether a usable token is on disk.
func (s *Session) IsSignedIn() bool {
	token, err := s.loadToken()
	return err == nil && (token.Valid() || token.RefreshToken != "")
}

// SignIn runs the authorization-code flow: print the consent URL, read the
// code from in, exchange it, and save the token.
func (s *Session) SignIn(ctx context.Context, in *os.File, out *os.File) error {
	url := s.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser, then paste the authorization code:\n%s\n\n> ", url)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := s.saveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.logger.Info("signed in", zap.String("token_path", s.tokenPath))
	return nil
}

// SignOut removes the stored token. Missing token is not an error.
func (s *Session) SignOut() error {
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// Service returns an authenticated Gmail API service. A missing or
// unusable token yields a gmail.AuthError so callers can prompt for
// sign-in.
func (s *Session) Service(ctx context.Context) (*gm.Service, error) {
	token, err := s.loadToken()
	if err != nil {
		return nil, &gmail.AuthError{Err: err}
	}

	// Auto-refresh, and keep the saved token current.
	ts := s.config.TokenSource(ctx, token)
	fresh, err := ts.Token()
	if err != nil {
		return nil, &gmail.AuthError{Err: fmt.Errorf("refresh token: %w", err)}
	}
	if fresh.AccessToken != token.AccessToken {
		if saveErr := s.saveToken(fresh); saveErr != nil {
			s.logger.Warn("could not save refreshed token", zap.Error(saveErr))
		}
	}

	return gm.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
}

func (s *Session) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &token, nil
}

func (s *Session) saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, data, 0o600)
}
