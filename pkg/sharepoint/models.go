package sharepoint

import "time"

// Document is a file record produced by DocumentsIn: a folder listing entry
// merged with the secondary per-file metadata fetch.
type Document struct {
	Title       string
	Path        string
	Name        string
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RecordType  string
	DateOfIssue string

	// Properties carries any further custom properties present on the item.
	Properties map[string]string
}

// DocumentInfo is the metadata record returned by GetDocument: the fixed
// default property set plus caller-requested custom properties.
type DocumentInfo struct {
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// URL is the link target pulled from the nested URL.Url structure when
	// present. A non-empty URL marks the document as a link/shortcut into
	// another site collection.
	URL string

	// EntityType is the OData entity type of the backing list item, needed
	// to construct metadata MERGE bodies.
	EntityType string

	Properties map[string]string
}

// IsLink reports whether the document is a pointer to a file hosted under a
// different root.
func (d *DocumentInfo) IsLink() bool {
	return d.URL != ""
}

// SearchResult maps snake-cased search-schema property names to string
// values. The field set is dynamic: the search endpoint returns rows of
// {Key, Value} cells.
type SearchResult map[string]string

// ListItem maps snake-cased selected OData properties to string values, with
// the nested File sub-object flattened in (name, server_relative_url,
// length) and the optional link URL under "url".
type ListItem map[string]string

// DownloadResult carries downloaded contents plus the resolved link URL when
// the document was a link/shortcut or the fetch followed redirects.
type DownloadResult struct {
	Contents []byte
	LinkURL  string
}

// Credentials overrides the client credentials when following a link
// document into a different site collection or tenant.
type Credentials struct {
	Username string
	Password string
}

// fileEntry is a folder listing entry from .../Files.
type fileEntry struct {
	Title             string    `json:"Title"`
	Name              string    `json:"Name"`
	ServerRelativeURL string    `json:"ServerRelativeUrl"`
	TimeCreated       time.Time `json:"TimeCreated"`
	TimeLastModified  time.Time `json:"TimeLastModified"`
}

// folderFilesResponse is the verbose envelope of a folder listing.
type folderFilesResponse struct {
	D struct {
		Results []fileEntry `json:"results"`
	} `json:"d"`
}

// listItemsPage is one page of a list items query. Next carries the absolute
// URL of the following page, empty on the last one.
type listItemsPage struct {
	D struct {
		Results []map[string]any `json:"results"`
		Next    string           `json:"__next"`
	} `json:"d"`
}

// searchResponse is the verbose search envelope: results come back as a
// table of rows, each row a list of {Key, Value} cells.
type searchResponse struct {
	D struct {
		Query struct {
			PrimaryQueryResult struct {
				RelevantResults struct {
					Table struct {
						Rows struct {
							Results []searchRow `json:"results"`
						} `json:"Rows"`
					} `json:"Table"`
				} `json:"RelevantResults"`
			} `json:"PrimaryQueryResult"`
		} `json:"query"`
	} `json:"d"`
}

type searchRow struct {
	Cells struct {
		Results []searchCell `json:"results"`
	} `json:"Cells"`
}

type searchCell struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// ensureUserResponse is the envelope of a web/ensureuser call.
type ensureUserResponse struct {
	D struct {
		ID int `json:"Id"`
	} `json:"d"`
}

// itemFieldsResponse is the envelope of a ListItemAllFields fetch, kept as a
// generic map because the field set is site-defined.
type itemFieldsResponse struct {
	D map[string]any `json:"d"`
}
