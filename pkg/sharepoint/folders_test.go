package sharepoint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folderListingBody(count int) string {
	entries := make([]string, count)
	for i := 0; i < count; i++ {
		entries[i] = fmt.Sprintf(`{
			"Title":"Document %d",
			"Name":"doc-%d.docx",
			"ServerRelativeUrl":"/Shared Documents/doc-%d.docx",
			"TimeCreated":"2024-05-01T10:00:00Z",
			"TimeLastModified":"2024-05-02T11:00:00Z"
		}`, i, i, i)
	}
	return `{"d":{"results":[` + strings.Join(entries, ",") + `]}}`
}

func TestDocumentsIn(t *testing.T) {
	const fileCount = 20

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/Files"):
			w.Write([]byte(folderListingBody(fileCount)))
		case strings.HasSuffix(r.URL.Path, "/ListItemAllFields"):
			// The file path rides inside the OData string literal.
			var n int
			_, err := fmt.Sscanf(r.URL.Path,
				"/_api/web/GetFileByServerRelativeUrl('/Shared Documents/doc-%d.docx')/ListItemAllFields", &n)
			require.NoError(t, err)
			fmt.Fprintf(w, `{"d":{"RecordType":"Type-%d","DateOfIssue":"2024-04-%02d"}}`, n, n+1)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	docs, err := client.DocumentsIn(context.Background(), "Shared Documents")
	require.NoError(t, err)
	require.Len(t, docs, fileCount)

	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("Document %d", i), doc.Title)
		assert.Equal(t, fmt.Sprintf("doc-%d.docx", i), doc.Name)
		assert.Equal(t, fmt.Sprintf("/Shared Documents/doc-%d.docx", i), doc.Path)
		assert.Equal(t, server.URL+fmt.Sprintf("/Shared Documents/doc-%d.docx", i), doc.URL)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), doc.CreatedAt)
		assert.Equal(t, fmt.Sprintf("Type-%d", i), doc.RecordType, "enrichment landed on the right record")
		assert.Equal(t, fmt.Sprintf("2024-04-%02d", i+1), doc.DateOfIssue)
	}
}

func TestDocumentsInFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/Files"):
			w.Write([]byte(folderListingBody(5)))
		case strings.Contains(r.URL.Path, "doc-2.docx"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"d":{"RecordType":"ok"}}`))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	docs, err := client.DocumentsIn(context.Background(), "Shared Documents")
	require.Error(t, err)
	assert.Nil(t, docs, "no partial results on failure")
	assert.Contains(t, err.Error(), "doc-2.docx")
}

func TestDocumentsInEmptyFolder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"d":{"results":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	docs, err := client.DocumentsIn(context.Background(), "Shared Documents")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCreateFolder(t *testing.T) {
	var createBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case "/_api/web/folders":
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json;odata=verbose", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			createBody = string(body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"d":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, err := client.CreateFolder(context.Background(), "Shared Documents/archive")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t,
		`{"__metadata":{"type":"SP.Folder"},"ServerRelativeUrl":"/Shared Documents/archive"}`,
		createBody)
}

func TestFolderExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"d":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	assert.True(t, client.FolderExists(context.Background(), "Shared Documents"))
	assert.False(t, client.FolderExists(context.Background(), "missing"))
}
