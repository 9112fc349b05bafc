// Package sharepoint (lists.go) provides list item queries with transparent
// __next pagination, plus list field administration.
package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// defaultListSelect is always requested so the parser can discriminate files
// from folders and flatten the File sub-object.
var defaultListSelect = []string{
	"FileSystemObjectType",
	"File/Name",
	"File/ServerRelativeUrl",
	"File/Length",
	"URL",
}

// ListDocuments queries a list by title, returning one flattened record per
// file item. filter is a raw OData $filter expression and must be non-empty;
// customProperties extends the $select set. Pages linked through __next are
// followed transparently and concatenated in order.
func (c *Client) ListDocuments(ctx context.Context, listTitle, filter string, customProperties []string) ([]ListItem, error) {
	if strings.TrimSpace(listTitle) == "" {
		return nil, fmt.Errorf("%w: list title must not be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(filter) == "" {
		return nil, fmt.Errorf("%w: list query conditions must not be empty", ErrInvalidInput)
	}

	sel := append(append([]string{}, defaultListSelect...), customProperties...)
	next := c.apiURL("web/Lists/GetByTitle('"+EscapeODataQuote(listTitle)+"')/Items") +
		"?$expand=File&$select=" + strings.Join(sel, ",") +
		"&$filter=" + filter

	var items []ListItem
	for next != "" {
		c.logger.Debug("list page", "url", next)
		res, err := c.apiCall(ctx, http.MethodGet, next, "", nil, nil)
		if err != nil {
			return nil, err
		}

		var page listItemsPage
		err = decodeBody(res.Body, &page, "list items")
		closeBodySafely(res.Body, c.logger, "list items")
		if err != nil {
			return nil, err
		}

		for _, entry := range page.D.Results {
			if item, ok := parseListItem(entry); ok {
				items = append(items, item)
			}
		}
		next = page.D.Next
	}
	return items, nil
}

// IndexField marks a list field as indexed and returns the HTTP status code.
func (c *Client) IndexField(ctx context.Context, listTitle, fieldTitle string) (int, error) {
	if strings.TrimSpace(listTitle) == "" || strings.TrimSpace(fieldTitle) == "" {
		return 0, fmt.Errorf("%w: list and field titles must not be empty", ErrInvalidInput)
	}

	digest, err := c.requestDigest(ctx)
	if err != nil {
		return 0, err
	}

	fieldURL := c.apiURL("web/Lists/GetByTitle('" + EscapeODataQuote(listTitle) +
		"')/Fields/GetByTitle('" + EscapeODataQuote(fieldTitle) + "')")
	body := `{"__metadata":{"type":"SP.Field"},"Indexed":true}`
	res, err := c.apiCall(ctx, http.MethodPost, fieldURL, contentTypeVerbose,
		strings.NewReader(body), map[string]string{
			"X-RequestDigest": digest,
			"X-HTTP-Method":   "MERGE",
			"If-Match":        "*",
		})
	if err != nil {
		return 0, err
	}
	defer closeBodySafely(res.Body, c.logger, "field indexing")

	return res.StatusCode, nil
}
