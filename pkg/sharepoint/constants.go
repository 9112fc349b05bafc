// Package sharepoint provides constants used throughout the SDK.
package sharepoint

import "time"

// Default HTTP configuration.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxIdleConns    = 10
	DefaultIdleConnTimeout = 90 * time.Second
)

// MaxRedirectHops bounds redirect-following during content downloads. Link
// documents resolve through at most a handful of 302 hops in practice.
const MaxRedirectHops = 5

// DefaultFetchConcurrency is the cap on simultaneous per-file metadata
// requests in DocumentsIn when the configuration does not set one.
const DefaultFetchConcurrency = 8

// FileSystemObjectType discriminants in list item entries.
const (
	ObjectTypeFile   = 0
	ObjectTypeFolder = 1
)

// MaxFilenameLength is the longest filename SanitizeFilename will produce.
const MaxFilenameLength = 128

// Custom property internal names fetched by the secondary per-file metadata
// request in DocumentsIn.
const (
	PropertyRecordType  = "RecordType"
	PropertyDateOfIssue = "DateOfIssue"
)

// acceptVerbose selects the verbose OData JSON format ({"d": {...}}
// envelopes, "__next" pagination links) spoken by SharePoint 2013.
const acceptVerbose = "application/json;odata=verbose"

// contentTypeVerbose is sent on mutating calls carrying OData bodies.
const contentTypeVerbose = "application/json;odata=verbose"
