// Package sharepoint (search.go) provides the two search operations. Each
// builds its query independently; they share only the fragment builders in
// odata.go.
package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SearchOptions parameterizes a free-text document search.
type SearchOptions struct {
	// Query is the raw KQL querytext. Required.
	Query string

	// Properties extends the default selectproperties set.
	Properties []string

	// StartRow and RowLimit page through large result sets. Zero values let
	// the server defaults apply.
	StartRow int
	RowLimit int
}

// ModifiedSearchOptions parameterizes a search for documents modified within
// a time window, scoped by web and list.
type ModifiedSearchOptions struct {
	// StartAt is the inclusive lower bound of the last-modified window.
	// Required.
	StartAt time.Time

	// EndAt is the inclusive upper bound; nil leaves the window open.
	EndAt *time.Time

	// WebID and ListID narrow the KQL conditions when non-empty.
	WebID  string
	ListID string

	Properties []string
	StartRow   int
	RowLimit   int
}

// Search runs a free-text KQL query against the search endpoint and returns
// one record per result row, keyed by snake-cased property name.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", ErrInvalidInput)
	}

	queryURL := c.rootAPIURL("search/query") +
		"?querytext='" + EscapeODataQuote(opts.Query) + "'" +
		"&selectproperties=" + BuildSearchProperties(opts.Properties...)
	if paging := BuildSearchPaging(opts.StartRow, opts.RowLimit); paging != "" {
		queryURL += "&" + paging
	}

	return c.runSearch(ctx, queryURL)
}

// SearchModifiedDocuments finds documents whose last-modified time falls in
// the given window, using the fixed document/container KQL conditions and a
// write:range FQL refinement filter.
func (c *Client) SearchModifiedDocuments(ctx context.Context, opts ModifiedSearchOptions) ([]SearchResult, error) {
	if opts.StartAt.IsZero() {
		return nil, fmt.Errorf("%w: start of the modification window is required", ErrInvalidInput)
	}

	queryURL := c.rootAPIURL("search/query") +
		"?querytext=" + BuildKQLConditions(opts.WebID, opts.ListID) +
		"&refinementfilters='" + BuildFQLRange(opts.StartAt, opts.EndAt) + "'" +
		"&selectproperties=" + BuildSearchProperties(opts.Properties...)
	if paging := BuildSearchPaging(opts.StartRow, opts.RowLimit); paging != "" {
		queryURL += "&" + paging
	}

	return c.runSearch(ctx, queryURL)
}

func (c *Client) runSearch(ctx context.Context, queryURL string) ([]SearchResult, error) {
	res, err := c.apiCall(ctx, http.MethodGet, queryURL, "", nil, nil)
	if err != nil {
		return nil, err
	}
	defer closeBodySafely(res.Body, c.logger, "search")

	var payload searchResponse
	if err := decodeBody(res.Body, &payload, "search"); err != nil {
		return nil, err
	}
	return parseSearchRows(payload.D.Query.PrimaryQueryResult.RelevantResults.Table.Rows.Results), nil
}
