// Package sharepoint provides a client for SharePoint 2013-style REST (OData)
// APIs. It covers document CRUD, folder management, list queries with
// transparent pagination, full-text search (KQL/FQL), permission management,
// and link-following downloads across site collections.
//
// Authentication is either NTLM (credentials forwarded per request) or a
// bearer token obtained through a client-credentials exchange and cached in
// memory until it expires. Nothing is ever persisted by this package.
package sharepoint

import (
	"errors"
	"fmt"
)

// Logger is the interface the SDK uses for logging. internal/logger provides
// a slog-backed implementation; the default discards everything.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)
	Warn(msg string, args ...any)
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)     {}
func (noopLogger) Debugf(format string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)      {}
func (noopLogger) Warnf(format string, args ...any)  {}

// Sentinel errors
var (
	// ErrInvalidToken indicates the token endpoint rejected the
	// client-credentials exchange or returned an unusable response.
	ErrInvalidToken = errors.New("invalid token response")

	// ErrInvalidInput indicates a caller-supplied value was rejected before
	// any network call (bad filename, unescaped quotes, missing conditions).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecodingFailed indicates a response body could not be decoded.
	ErrDecodingFailed = errors.New("decoding response failed")

	// Domain errors for the higher-level collaboration operations. Each wraps
	// the underlying request failure, preserving its message.
	ErrUploadFailed     = errors.New("upload failed")
	ErrDownloadFailed   = errors.New("download failed")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrPermissionFailed = errors.New("permission operation failed")
)

// RequestError is returned for any HTTP response outside [200,299] on an
// operation that expects success. It carries everything needed for diagnosis:
// the status code, the requested URL, and the raw response body.
type RequestError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}
