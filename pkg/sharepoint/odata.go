// Package sharepoint (odata.go) contains the URL and query builders: pure
// functions from inputs to URL fragments with explicit escaping per context
// (URL, OData path-segment string literal, JSON body string). No I/O happens
// here, which keeps every escaping rule unit-testable in isolation.
package sharepoint

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// invalidFilenameChars are rejected by SharePoint in file names.
const invalidFilenameChars = "~\"#%&*:<>?/\\{|}"

// EscapeURI percent-encodes a URL. Unreserved and reserved URI characters
// pass through, with the exception of '[' and ']' which SharePoint rejects
// unescaped even though the standard escaper leaves them alone.
func EscapeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escapeURIByte(ch) {
			fmt.Fprintf(&b, "%%%02X", ch)
		} else {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func escapeURIByte(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return false
	}
	switch ch {
	case '-', '_', '.', '~', ':', '/', '?', '#', '@', '!', '$', '&', '\'',
		'(', ')', '*', '+', ',', ';', '=', '%':
		return false
	}
	return true
}

// UnescapeURI reverses EscapeURI. Malformed escapes are left untouched rather
// than dropped, so the function never loses input.
func UnescapeURI(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// EscapeODataQuote doubles single quotes for use inside an OData string
// literal embedded in a URL path segment, e.g.
// GetFileByServerRelativeUrl('O''Brien.docx').
func EscapeODataQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeJSONQuote backslash-escapes single quotes for use inside a hand-built
// JSON metadata body string.
func EscapeJSONQuote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// SanitizeFilename replaces every character SharePoint rejects with '-' and
// truncates the result to MaxFilenameLength, preserving the extension when
// one exists.
func SanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 128 && strings.ContainsRune(invalidFilenameChars, r) {
			return '-'
		}
		return r
	}, name)

	if len(sanitized) <= MaxFilenameLength {
		return sanitized
	}

	dot := strings.LastIndex(sanitized, ".")
	if dot <= 0 || len(sanitized)-dot >= MaxFilenameLength {
		// No extension, or one too long to reserve room for.
		return sanitized[:MaxFilenameLength]
	}
	ext := sanitized[dot:]
	return sanitized[:MaxFilenameLength-len(ext)] + ext
}

// ValidateFilename reports whether a filename contains characters SharePoint
// rejects. Callers that cannot tolerate silent renaming should validate
// instead of sanitizing.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidInput)
	}
	if idx := strings.IndexAny(name, invalidFilenameChars); idx >= 0 {
		return fmt.Errorf("%w: filename contains invalid character %q", ErrInvalidInput, name[idx])
	}
	return nil
}

// RemoveDoubleSlashes collapses "//" to "/" everywhere except immediately
// after the scheme. Paths are composed by concatenating site path fragments
// that may each carry leading or trailing slashes.
func RemoveDoubleSlashes(s string) string {
	scheme := ""
	rest := s
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(s, prefix) {
			scheme = prefix
			rest = s[len(prefix):]
			break
		}
	}
	for strings.Contains(rest, "//") {
		rest = strings.ReplaceAll(rest, "//", "/")
	}
	return scheme + rest
}

// defaultSearchProperties is the fixed property set requested from the search
// endpoint; caller-supplied properties are merged in.
var defaultSearchProperties = []string{
	"Title", "Path", "Name", "Write", "IsDocument", "ListId", "WebId", "SiteName",
}

// BuildKQLConditions assembles the quoted KQL querytext for document
// searches. The "is a document, not a container" predicate is always present;
// webID and listID narrow the scope when non-empty.
func BuildKQLConditions(webID, listID string) string {
	conds := []string{"IsDocument=True", "IsContainer=False"}
	if webID != "" {
		conds = append(conds, "WebId:"+webID)
	}
	if listID != "" {
		conds = append(conds, "ListId:"+listID)
	}
	return "'" + strings.Join(conds, "+") + "'"
}

// BuildFQLRange builds the write:range refinement filter for last-modified
// windows. startAt is mandatory; a nil endAt leaves the range open-ended.
// Both bounds are rendered as ISO-8601 UTC.
func BuildFQLRange(startAt time.Time, endAt *time.Time) string {
	start := startAt.UTC().Format(time.RFC3339)
	if endAt == nil {
		return fmt.Sprintf(`write:range(%s,max,from="ge")`, start)
	}
	return fmt.Sprintf(`write:range(%s,%s,from="ge",to="le")`, start, endAt.UTC().Format(time.RFC3339))
}

// BuildSearchProperties merges caller-supplied properties into the default
// set, preserving order and dropping duplicates, and returns the quoted
// selectproperties value.
func BuildSearchProperties(custom ...string) string {
	seen := make(map[string]bool, len(defaultSearchProperties)+len(custom))
	merged := make([]string, 0, len(defaultSearchProperties)+len(custom))
	for _, p := range append(append([]string{}, defaultSearchProperties...), custom...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		merged = append(merged, p)
	}
	return "'" + strings.Join(merged, ",") + "'"
}

// BuildSearchPaging renders the startrow/rowlimit query fragment. Zero values
// are omitted, letting the server defaults apply.
func BuildSearchPaging(startRow, rowLimit int) string {
	var parts []string
	if startRow > 0 {
		parts = append(parts, fmt.Sprintf("startrow=%d", startRow))
	}
	if rowLimit > 0 {
		parts = append(parts, fmt.Sprintf("rowlimit=%d", rowLimit))
	}
	return strings.Join(parts, "&")
}

// headerEscapes maps C-style escape letters to the bytes they denote.
// Redirect Location headers occasionally arrive with literal backslash
// escapes; they are decoded through this table, never by evaluating input.
var headerEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'f':  '\f',
	'v':  '\v',
	'b':  '\b',
	'a':  '\a',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// decodeHeaderEscapes replaces backslash escape sequences using
// headerEscapes. Unknown sequences are preserved verbatim.
func decodeHeaderEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if decoded, ok := headerEscapes[s[i+1]]; ok {
				b.WriteByte(decoded)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
