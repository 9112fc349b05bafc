// Package sharepoint (client.go) holds the Client type and the HTTP request
// executor: the single chokepoint through which every operation issues
// requests and surfaces failures.
package sharepoint

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/go-ntlmssp"
)

// Client is a stateful client for a single SharePoint deployment. The only
// mutable state is the cached access token owned by its auth provider;
// everything else is fixed at construction.
type Client struct {
	config     Config
	httpClient *http.Client
	auth       authProvider
	logger     Logger
}

// NewClient validates the configuration and constructs a client. All
// configuration errors surface here, before any network call.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.HTTP == nil {
		cfg.HTTP = DefaultHTTPConfig()
	}
	if cfg.MaxFetchConcurrency == 0 {
		cfg.MaxFetchConcurrency = DefaultFetchConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	cfg.URI = strings.TrimRight(cfg.URI, "/")

	transport := &http.Transport{
		MaxIdleConns:    cfg.HTTP.MaxIdleConns,
		IdleConnTimeout: cfg.HTTP.IdleConnTimeout,
	}
	if cfg.HTTP.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		config: cfg,
		logger: cfg.Logger,
	}

	switch cfg.Authentication {
	case AuthNTLM:
		// The negotiator upgrades the basic credentials set per request to
		// the NTLM challenge/response handshake.
		c.httpClient = &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: ntlmssp.Negotiator{RoundTripper: transport},
		}
		c.auth = &ntlmAuth{username: cfg.Username, password: cfg.Password}
	case AuthToken:
		c.httpClient = &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
		}
		// Token fetches bypass the auth provider, so they get a plain client
		// sharing the same transport.
		tokenClient := &http.Client{Timeout: cfg.HTTP.Timeout, Transport: transport}
		c.auth = &tokenAuth{source: newTokenSource(&c.config, tokenClient, c.logger)}
	}

	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// siteURL is the site-scoped root, e.g. "https://host/sites/records".
func (c *Client) siteURL() string {
	if c.config.SitePath == "" {
		return c.config.URI
	}
	return RemoveDoubleSlashes(c.config.URI + "/" + c.config.SitePath)
}

// apiURL builds a site-scoped _api URL from a resource path.
func (c *Client) apiURL(resource string) string {
	return RemoveDoubleSlashes(c.siteURL() + "/_api/" + resource)
}

// rootAPIURL builds a deployment-root _api URL (search, for instance, is not
// site-scoped).
func (c *Client) rootAPIURL(resource string) string {
	return RemoveDoubleSlashes(c.config.URI + "/_api/" + resource)
}

// serverRelative resolves a caller path against the site path. Paths already
// starting with '/' are taken as server-relative verbatim.
func (c *Client) serverRelative(path string) string {
	if strings.HasPrefix(path, "/") {
		return RemoveDoubleSlashes(path)
	}
	base, err := url.Parse(c.siteURL())
	if err != nil || base.Path == "" {
		return RemoveDoubleSlashes("/" + path)
	}
	return RemoveDoubleSlashes(base.Path + "/" + path)
}

// absoluteURL turns a server-relative URL into an absolute one on this
// deployment.
func (c *Client) absoluteURL(serverRelativeURL string) string {
	return RemoveDoubleSlashes(c.config.URI + "/" + serverRelativeURL)
}

// apiCall issues a single HTTP request through the configured auth provider
// and surfaces any non-2xx response as a *RequestError. It is the error
// chokepoint for every operation; callers own the response body on success.
func (c *Client) apiCall(ctx context.Context, method, rawURL, contentType string, body io.Reader, headers map[string]string) (*http.Response, error) {
	requestURL := EscapeURI(rawURL)
	c.logger.Debug("api call", "method", method, "url", requestURL)

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s %s: %w", method, requestURL, err)
	}
	req.Header.Set("Accept", acceptVerbose)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if err := c.auth.apply(req); err != nil {
		return nil, fmt.Errorf("applying credentials: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	if err := checkResponse(res, requestURL); err != nil {
		return nil, err
	}
	return res, nil
}

// checkResponse converts any response outside [200,299] into a *RequestError
// carrying status, URL, and body. The body is consumed and closed on failure.
func checkResponse(res *http.Response, requestURL string) error {
	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return &RequestError{
		StatusCode: res.StatusCode,
		URL:        requestURL,
		Body:       string(body),
	}
}

// contextInfoResponse carries the request-verification digest required in the
// X-RequestDigest header of every mutating call.
type contextInfoResponse struct {
	D struct {
		GetContextWebInformation struct {
			FormDigestValue string `json:"FormDigestValue"`
		} `json:"GetContextWebInformation"`
	} `json:"d"`
}

// requestDigest fetches a fresh request-verification digest from the
// contextinfo endpoint.
func (c *Client) requestDigest(ctx context.Context) (string, error) {
	res, err := c.apiCall(ctx, http.MethodPost, c.apiURL("contextinfo"), "", nil, nil)
	if err != nil {
		return "", fmt.Errorf("fetching request digest: %w", err)
	}
	defer closeBodySafely(res.Body, c.logger, "context info")

	var info contextInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("%w: decoding context info: %w", ErrDecodingFailed, err)
	}
	if info.D.GetContextWebInformation.FormDigestValue == "" {
		return "", fmt.Errorf("%w: context info carried no digest", ErrDecodingFailed)
	}
	return info.D.GetContextWebInformation.FormDigestValue, nil
}

// fetchContents downloads raw bytes, following up to MaxRedirectHops
// redirects. The Location header of the last 302 hop is returned decoded; a
// requested file can itself be a pointer that 302s into another repository,
// and callers report where the bytes finally came from.
func (c *Client) fetchContents(ctx context.Context, rawURL string) ([]byte, string, error) {
	var lastLocation string

	redirectClient := &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: c.httpClient.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirectHops {
				return fmt.Errorf("stopped after %d redirects", MaxRedirectHops)
			}
			if prev := req.Response; prev != nil && prev.StatusCode == http.StatusFound {
				if loc := prev.Header.Get("Location"); loc != "" {
					lastLocation = decodeHeaderEscapes(UnescapeURI(loc))
				}
			}
			// Credentials must ride along to the redirect target.
			if err := c.auth.apply(req); err != nil {
				return err
			}
			return nil
		},
	}

	requestURL := EscapeURI(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating download request: %w", err)
	}
	if err := c.auth.apply(req); err != nil {
		return nil, "", fmt.Errorf("applying credentials: %w", err)
	}

	res, err := redirectClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("network error: %w", err)
	}
	if err := checkResponse(res, requestURL); err != nil {
		return nil, "", err
	}
	defer closeBodySafely(res.Body, c.logger, "content download")

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading contents: %w", err)
	}
	return contents, lastLocation, nil
}
