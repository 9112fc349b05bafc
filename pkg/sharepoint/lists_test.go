package sharepoint

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDocumentsPagination(t *testing.T) {
	var server *httptest.Server
	var firstQuery string
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_api/web/Lists/GetByTitle('Records')/Items", r.URL.Path)

		if r.URL.Query().Get("$skiptoken") == "" {
			firstQuery = r.URL.RawQuery
			// First page links to the second through __next.
			w.Write([]byte(`{"d":{
				"results":[
					{
						"FileSystemObjectType":0,
						"Title":"First",
						"File":{"Name":"first.docx","ServerRelativeUrl":"/a/first.docx","Length":"100"}
					},
					{
						"FileSystemObjectType":1,
						"Title":"A folder"
					}
				],
				"__next":"` + server.URL + `/_api/web/Lists/GetByTitle('Records')/Items?$skiptoken=2"
			}}`))
			return
		}

		w.Write([]byte(`{"d":{"results":[
			{
				"FileSystemObjectType":0,
				"Title":"Second",
				"File":{"Name":"second.docx","ServerRelativeUrl":"/a/second.docx","Length":"200"}
			}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	items, err := client.ListDocuments(context.Background(), "Records",
		"RecordType eq 'Invoice'", []string{"RecordType"})
	require.NoError(t, err)

	require.Len(t, items, 2, "folders are excluded, pages concatenated in order")
	assert.Equal(t, "First", items[0]["title"])
	assert.Equal(t, "first.docx", items[0]["name"])
	assert.Equal(t, "/a/first.docx", items[0]["server_relative_url"])
	assert.Equal(t, "Second", items[1]["title"])

	query := mustParseQuery(t, firstQuery)
	assert.Equal(t, "File", query.Get("$expand"))
	assert.Equal(t,
		"FileSystemObjectType,File/Name,File/ServerRelativeUrl,File/Length,URL,RecordType",
		query.Get("$select"))
	assert.Equal(t, "RecordType eq 'Invoice'", query.Get("$filter"))
}

func TestListDocumentsRejectsEmptyInput(t *testing.T) {
	client := newTestClient(t, "https://unused.example.com")

	_, err := client.ListDocuments(context.Background(), "", "x eq 1", nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = client.ListDocuments(context.Background(), "Records", "  ", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIndexField(t *testing.T) {
	var mergeBody string
	var mergeHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case "/_api/web/Lists/GetByTitle('Records')/Fields/GetByTitle('RecordType')":
			body, _ := io.ReadAll(r.Body)
			mergeBody = string(body)
			mergeHeaders = r.Header.Clone()
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, err := client.IndexField(context.Background(), "Records", "RecordType")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, `{"__metadata":{"type":"SP.Field"},"Indexed":true}`, mergeBody)
	assert.Equal(t, "MERGE", mergeHeaders.Get("X-HTTP-Method"))
	assert.Equal(t, "*", mergeHeaders.Get("If-Match"))
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	query, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return query
}
