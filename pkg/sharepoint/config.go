// Package sharepoint (config.go) defines the client configuration and its
// single validation entry point. Configuration is immutable after NewClient;
// validation errors are raised before any network call and name every
// violated field.
package sharepoint

import (
	"net/url"
	"strings"
	"time"
)

// Authentication modes.
const (
	AuthNTLM  = "ntlm"
	AuthToken = "token"
)

// HTTPConfig holds transport tuning options. A nil HTTPConfig selects the
// defaults below.
type HTTPConfig struct {
	Timeout            time.Duration
	MaxIdleConns       int
	IdleConnTimeout    time.Duration
	InsecureSkipVerify bool
}

// DefaultHTTPConfig returns the transport settings used when the caller does
// not supply any.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    DefaultMaxIdleConns,
		IdleConnTimeout: DefaultIdleConnTimeout,
	}
}

// Config holds everything needed to construct a Client. The zero value is not
// usable; URI and a complete credential set for the selected authentication
// mode are required.
type Config struct {
	// URI is the root of the SharePoint deployment, e.g.
	// "https://sharepoint.example.com". Required, must be http or https.
	URI string

	// Authentication selects the credential mode: AuthNTLM or AuthToken.
	Authentication string

	// NTLM mode credentials.
	Username string
	Password string

	// Token mode credentials, exchanged at TokenURL for a bearer token.
	ClientID     string
	ClientSecret string
	TenantID     string
	CertName     string
	AuthScope    string
	TokenURL     string

	// SitePath scopes requests to a site collection, e.g. "/sites/records".
	// Optional; when empty the root web is used.
	SitePath string

	// BaseFolder and BaseURI are the defaults for the collaboration
	// operations (CollaborationUpload, WebEditURL). Optional.
	BaseFolder string
	BaseURI    string

	// HTTP tunes the underlying transport. Optional.
	HTTP *HTTPConfig

	// MaxFetchConcurrency caps the number of simultaneous per-file metadata
	// requests issued by DocumentsIn. Zero selects the default.
	MaxFetchConcurrency int

	// Logger receives debug output. Optional.
	Logger Logger
}

// ConfigError reports every invalid or missing configuration field at once.
type ConfigError struct {
	Fields []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, ", ")
}

// Validate checks the configuration and returns a *ConfigError naming every
// violated field, or nil when the configuration is usable.
func (c *Config) Validate() error {
	var invalid []string

	if !validHTTPURI(c.URI) {
		invalid = append(invalid, "uri")
	}

	switch c.Authentication {
	case AuthNTLM:
		for field, value := range map[string]string{
			"username": c.Username,
			"password": c.Password,
		} {
			if strings.TrimSpace(value) == "" {
				invalid = append(invalid, field)
			}
		}
	case AuthToken:
		for field, value := range map[string]string{
			"client_id":     c.ClientID,
			"client_secret": c.ClientSecret,
			"tenant_id":     c.TenantID,
			"cert_name":     c.CertName,
			"auth_scope":    c.AuthScope,
			"token_url":     c.TokenURL,
		} {
			if strings.TrimSpace(value) == "" {
				invalid = append(invalid, field)
			}
		}
	default:
		invalid = append(invalid, "authentication")
	}

	if c.HTTP != nil {
		if c.HTTP.Timeout < 0 || c.HTTP.MaxIdleConns < 0 || c.HTTP.IdleConnTimeout < 0 {
			invalid = append(invalid, "http")
		}
	}

	if c.MaxFetchConcurrency < 0 {
		invalid = append(invalid, "max_fetch_concurrency")
	}

	if len(invalid) > 0 {
		sortFields(invalid)
		return &ConfigError{Fields: invalid}
	}
	return nil
}

func validHTTPURI(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// sortFields orders field names so ConfigError messages are deterministic
// regardless of map iteration order.
func sortFields(fields []string) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j] < fields[j-1]; j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
}
