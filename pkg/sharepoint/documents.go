// Package sharepoint (documents.go) provides the document operations of the
// client facade: metadata retrieval, link-following download, upload,
// metadata update, deletion, and existence checks.
package sharepoint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// GetDocument retrieves the metadata record for a file by its path (relative
// to the site, or server-relative when it starts with '/'). customProperties
// names additional item fields to extract beyond the default set.
func (c *Client) GetDocument(ctx context.Context, filePath string, customProperties []string) (*DocumentInfo, error) {
	c.logger.Debug("GetDocument", "path", filePath)

	res, err := c.apiCall(ctx, http.MethodGet, c.fileResourceURL(filePath)+"/ListItemAllFields", "", nil, nil)
	if err != nil {
		return nil, err
	}
	defer closeBodySafely(res.Body, c.logger, "document metadata")

	var payload itemFieldsResponse
	if err := decodeBody(res.Body, &payload, "document metadata"); err != nil {
		return nil, err
	}
	return parseDocumentInfo(payload.D, customProperties), nil
}

// DocumentExists reports whether a file exists at the given path. Both "not
// found" and transport failures intentionally collapse into false; this is
// the only place errors are swallowed.
func (c *Client) DocumentExists(ctx context.Context, filePath string) bool {
	_, err := c.GetDocument(ctx, filePath, nil)
	return err == nil
}

// Download fetches a document's bytes. When the document's metadata carries a
// link-target URL, the file is a shortcut into a different site collection or
// tenant: the link URL is decomposed into root origin, site segment, and file
// path, and the fetch is delegated to a secondary client scoped to that root,
// authenticated with the same credentials unless linkCredentials overrides
// them. The final redirect Location, when any hop occurred, is reported as
// the LinkURL.
func (c *Client) Download(ctx context.Context, filePath string, linkCredentials *Credentials) (*DownloadResult, error) {
	info, err := c.GetDocument(ctx, filePath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if !info.IsLink() {
		contents, lastLocation, err := c.fetchContents(ctx, c.fileResourceURL(filePath)+"/$value")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
		return &DownloadResult{Contents: contents, LinkURL: lastLocation}, nil
	}

	origin, sitePath, linkPath, err := splitLinkURL(info.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	c.logger.Debug("following link document", "origin", origin, "site", sitePath, "path", linkPath)

	secondary, err := c.linkClient(origin, sitePath, linkCredentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	contents, lastLocation, err := secondary.fetchContents(ctx, secondary.fileResourceURL(linkPath)+"/$value")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if lastLocation == "" {
		lastLocation = info.URL
	}
	return &DownloadResult{Contents: contents, LinkURL: lastLocation}, nil
}

// DownloadContents fetches raw bytes for a path without the link-following
// indirection.
func (c *Client) DownloadContents(ctx context.Context, filePath string) ([]byte, error) {
	contents, _, err := c.fetchContents(ctx, c.fileResourceURL(filePath)+"/$value")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return contents, nil
}

// Upload stores content as fileName inside folderPath, overwriting any
// existing file, and returns the HTTP status code as the success signal.
func (c *Client) Upload(ctx context.Context, folderPath, fileName string, content io.Reader) (int, error) {
	if err := ValidateFilename(fileName); err != nil {
		return 0, err
	}

	digest, err := c.requestDigest(ctx)
	if err != nil {
		return 0, err
	}

	uploadURL := c.folderResourceURL(folderPath) +
		"/Files/add(url='" + EscapeODataQuote(fileName) + "',overwrite=true)"
	res, err := c.apiCall(ctx, http.MethodPost, uploadURL, "application/octet-stream", content, map[string]string{
		"X-RequestDigest": digest,
	})
	if err != nil {
		return 0, err
	}
	defer closeBodySafely(res.Body, c.logger, "upload")

	return res.StatusCode, nil
}

// UpdateMetadata merges properties into a document's list item and returns
// the HTTP status code. Values containing double quotes are rejected before
// any network call; single quotes are escaped for the hand-built body.
func (c *Client) UpdateMetadata(ctx context.Context, filePath string, properties map[string]string) (int, error) {
	if len(properties) == 0 {
		return 0, fmt.Errorf("%w: no properties to update", ErrInvalidInput)
	}
	for key, value := range properties {
		if strings.ContainsAny(key, `"`) || strings.ContainsAny(value, `"`) {
			return 0, fmt.Errorf("%w: metadata for %q contains an unescaped quote", ErrInvalidInput, key)
		}
	}

	// The MERGE body needs the item's concrete entity type, which only the
	// item itself can tell us.
	info, err := c.GetDocument(ctx, filePath, nil)
	if err != nil {
		return 0, err
	}
	if info.EntityType == "" {
		return 0, fmt.Errorf("%w: item carried no entity type", ErrDecodingFailed)
	}

	digest, err := c.requestDigest(ctx)
	if err != nil {
		return 0, err
	}

	body := buildMetadataBody(info.EntityType, properties)
	res, err := c.apiCall(ctx, http.MethodPost, c.fileResourceURL(filePath)+"/ListItemAllFields",
		contentTypeVerbose, strings.NewReader(body), map[string]string{
			"X-RequestDigest": digest,
			"X-HTTP-Method":   "MERGE",
			"If-Match":        "*",
		})
	if err != nil {
		return 0, err
	}
	defer closeBodySafely(res.Body, c.logger, "metadata update")

	return res.StatusCode, nil
}

// DeleteDocument removes a file.
func (c *Client) DeleteDocument(ctx context.Context, filePath string) error {
	digest, err := c.requestDigest(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	res, err := c.apiCall(ctx, http.MethodPost, c.fileResourceURL(filePath), "", nil, map[string]string{
		"X-RequestDigest": digest,
		"X-HTTP-Method":   "DELETE",
		"If-Match":        "*",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	closeBodySafely(res.Body, c.logger, "delete")
	return nil
}

// fileResourceURL addresses a file resource by server-relative URL, with the
// path quoted as an OData string literal.
func (c *Client) fileResourceURL(filePath string) string {
	return c.apiURL("web/GetFileByServerRelativeUrl('" + EscapeODataQuote(c.serverRelative(filePath)) + "')")
}

// folderResourceURL addresses a folder resource by server-relative URL.
func (c *Client) folderResourceURL(folderPath string) string {
	return c.apiURL("web/GetFolderByServerRelativeUrl('" + EscapeODataQuote(c.serverRelative(folderPath)) + "')")
}

// buildMetadataBody hand-builds the verbose MERGE body. Keys are emitted in
// sorted order so the body is deterministic.
func buildMetadataBody(entityType string, properties map[string]string) string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`{"__metadata":{"type":"` + EscapeJSONQuote(entityType) + `"}`)
	for _, key := range keys {
		b.WriteString(`,"` + EscapeJSONQuote(key) + `":"` + EscapeJSONQuote(properties[key]) + `"`)
	}
	b.WriteString("}")
	return b.String()
}

// splitLinkURL decomposes an absolute link-target URL into the root origin,
// the site segment, and the file path within that site. Managed paths
// ("sites", "teams", "personal") take their first two segments as the site;
// anything else belongs to the root web.
func splitLinkURL(raw string) (origin, sitePath, filePath string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing link URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", "", fmt.Errorf("%w: link URL %q has no origin", ErrInvalidInput, raw)
	}

	origin = u.Scheme + "://" + u.Host
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) >= 2 {
		switch segments[0] {
		case "sites", "teams", "personal":
			sitePath = "/" + segments[0] + "/" + segments[1]
			filePath = "/" + strings.Join(segments, "/")
			return origin, sitePath, filePath, nil
		}
	}
	return origin, "", RemoveDoubleSlashes("/" + u.Path), nil
}

// linkClient builds the secondary client used to follow a link document,
// scoped to the link's root origin. Current credentials are reused unless
// override is non-nil; token-mode clients keep their token source
// configuration and fetch a fresh token for the new root.
func (c *Client) linkClient(origin, sitePath string, override *Credentials) (*Client, error) {
	cfg := c.config
	cfg.URI = origin
	cfg.SitePath = sitePath
	cfg.BaseFolder = ""
	cfg.BaseURI = ""

	if override != nil {
		cfg.Authentication = AuthNTLM
		cfg.Username = override.Username
		cfg.Password = override.Password
	}
	return NewClient(cfg)
}
