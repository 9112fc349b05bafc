// Package sharepoint (auth.go) implements the two authentication providers:
// NTLM, where credentials ride on every request through a negotiating
// transport, and token, where a client-credentials exchange yields a bearer
// token cached in memory until it expires.
package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// authProvider decorates outbound requests with credentials.
type authProvider interface {
	apply(req *http.Request) error
}

// ntlmAuth forwards basic credentials on each request; the ntlmssp.Negotiator
// transport installed by NewClient upgrades them to the NTLM handshake.
type ntlmAuth struct {
	username string
	password string
}

func (a *ntlmAuth) apply(req *http.Request) error {
	req.SetBasicAuth(a.username, a.password)
	return nil
}

// tokenAuth sources a bearer token from a cached token source.
type tokenAuth struct {
	source oauth2.TokenSource
}

func (a *tokenAuth) apply(req *http.Request) error {
	tok, err := a.source.Token()
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)
	return nil
}

// tokenSource implements oauth2.TokenSource against the deployment's token
// endpoint. The exchange is a JSON POST rather than a standard OAuth2 form
// post, so the stock clientcredentials config does not apply; caching and
// expiry semantics follow oauth2.Token.
type tokenSource struct {
	cfg        *Config
	httpClient *http.Client
	logger     Logger

	mu    sync.Mutex
	token *oauth2.Token

	// now is a test seam for expiry checks.
	now func() time.Time
}

func newTokenSource(cfg *Config, httpClient *http.Client, logger Logger) *tokenSource {
	return &tokenSource{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns the cached access token while it is still valid, fetching a
// fresh one otherwise. Concurrent callers within one expiry window trigger
// exactly one fetch.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Expiry.After(s.now()) {
		return s.token, nil
	}

	s.logger.Debug("fetching access token", "token_url", s.cfg.TokenURL)
	token, err := s.fetch()
	if err != nil {
		return nil, err
	}
	s.token = token
	return s.token, nil
}

// tokenRequest is the JSON body of the client-credentials exchange.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TenantID     string `json:"tenant_id"`
	CertName     string `json:"cert_name"`
	AuthScope    string `json:"auth_scope"`
}

// tokenResponse is the expected response shape: {"Token": {...}}.
type tokenResponse struct {
	Token struct {
		ExpiresIn   int    `json:"expires_in"`
		AccessToken string `json:"access_token"`
	} `json:"Token"`
}

func (s *tokenSource) fetch() (*oauth2.Token, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		TenantID:     s.cfg.TenantID,
		CertName:     s.cfg.CertName,
		AuthScope:    s.cfg.AuthScope,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer closeBodySafely(res.Body, s.logger, "token fetch")

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: status %d from %s: %s", ErrInvalidToken, res.StatusCode, s.cfg.TokenURL, string(resBody))
	}

	var parsed tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding token response: %w", ErrInvalidToken, err)
	}
	if parsed.Token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access_token from %s", ErrInvalidToken, s.cfg.TokenURL)
	}

	return &oauth2.Token{
		AccessToken: parsed.Token.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(time.Duration(parsed.Token.ExpiresIn) * time.Second),
	}, nil
}
