// Package sharepoint (folders.go) provides folder management and the folder
// listing operation with its concurrent per-file metadata enrichment.
package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DocumentsIn lists the files of a folder and enriches each record with the
// record type and date of issue from a secondary per-file metadata request.
// The secondary fetches run concurrently, bounded by MaxFetchConcurrency,
// and the call joins all of them before returning. Policy on partial
// failure: fail fast. The first error cancels the remaining fetches and the
// whole operation fails; callers never observe a partially populated slice.
func (c *Client) DocumentsIn(ctx context.Context, folderPath string) ([]Document, error) {
	c.logger.Debug("DocumentsIn", "folder", folderPath)

	res, err := c.apiCall(ctx, http.MethodGet, c.folderResourceURL(folderPath)+"/Files", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var listing folderFilesResponse
	err = decodeBody(res.Body, &listing, "folder listing")
	closeBodySafely(res.Body, c.logger, "folder listing")
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(listing.D.Results))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxFetchConcurrency)

	for i, entry := range listing.D.Results {
		i := i
		docs[i] = Document{
			Title:     entry.Title,
			Path:      entry.ServerRelativeURL,
			Name:      entry.Name,
			URL:       c.absoluteURL(entry.ServerRelativeURL),
			CreatedAt: entry.TimeCreated,
			UpdatedAt: entry.TimeLastModified,
		}

		// Each worker writes only its own pre-allocated record; the join
		// below publishes them all at once.
		g.Go(func() error {
			info, err := c.GetDocument(ctx, docs[i].Path, []string{PropertyRecordType, PropertyDateOfIssue})
			if err != nil {
				return fmt.Errorf("fetching metadata for %s: %w", docs[i].Path, err)
			}
			docs[i].RecordType = info.Properties[PropertyRecordType]
			docs[i].DateOfIssue = info.Properties[PropertyDateOfIssue]
			docs[i].Properties = info.Properties
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateFolder creates a folder at the given path and returns the HTTP
// status code. Parent folders must already exist.
func (c *Client) CreateFolder(ctx context.Context, folderPath string) (int, error) {
	digest, err := c.requestDigest(ctx)
	if err != nil {
		return 0, err
	}

	body := `{"__metadata":{"type":"SP.Folder"},"ServerRelativeUrl":"` +
		EscapeJSONQuote(c.serverRelative(folderPath)) + `"}`
	res, err := c.apiCall(ctx, http.MethodPost, c.apiURL("web/folders"), contentTypeVerbose,
		strings.NewReader(body), map[string]string{
			"X-RequestDigest": digest,
		})
	if err != nil {
		return 0, err
	}
	defer closeBodySafely(res.Body, c.logger, "folder creation")

	return res.StatusCode, nil
}

// FolderExists reports whether a folder exists. Like DocumentExists, any
// failure collapses into false.
func (c *Client) FolderExists(ctx context.Context, folderPath string) bool {
	res, err := c.apiCall(ctx, http.MethodGet, c.folderResourceURL(folderPath), "", nil, nil)
	if err != nil {
		return false
	}
	closeBodySafely(res.Body, c.logger, "folder existence check")
	return true
}
