package sharepoint

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	var seenBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case "/_api/web/ensureuser":
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "0xDIGEST", r.Header.Get("X-RequestDigest"))
			body, _ := io.ReadAll(r.Body)
			seenBody = string(body)
			w.Write([]byte(`{"d":{"Id":17}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	id, err := client.EnsureUser(context.Background(), `DOMAIN\jdoe`)
	require.NoError(t, err)
	assert.Equal(t, 17, id)
	assert.Equal(t, `{"logonName":"DOMAIN\\jdoe"}`, seenBody)
}

func TestEnsureUserRejectsEmptyName(t *testing.T) {
	client := newTestClient(t, "https://unused.example.com")
	_, err := client.EnsureUser(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGrantPermission(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case r.URL.Path == "/_api/web/ensureuser":
			calls = append(calls, "ensureuser")
			w.Write([]byte(`{"d":{"Id":17}}`))
		case strings.Contains(r.URL.Path, "breakroleinheritance(copyRoleAssignments=true,clearSubscopes=true)"):
			calls = append(calls, "break")
			w.WriteHeader(http.StatusOK)
		case strings.Contains(r.URL.Path, "addroleassignment(principalid=17,roledefid=1073741827)"):
			calls = append(calls, "grant")
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.GrantPermission(context.Background(), "report.docx", `DOMAIN\jdoe`, 1073741827)
	require.NoError(t, err)
	assert.Equal(t, []string{"ensureuser", "break", "grant"}, calls)
}

func TestGrantPermissionWrapsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.GrantPermission(context.Background(), "report.docx", `DOMAIN\jdoe`, 1)
	require.ErrorIs(t, err, ErrPermissionFailed)
}

func TestRevokePermission(t *testing.T) {
	var revoked bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case strings.Contains(r.URL.Path, "removeroleassignment(principalid=17)"):
			revoked = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.RevokePermission(context.Background(), "report.docx", 17))
	assert.True(t, revoked)
}

func TestResetRoleInheritance(t *testing.T) {
	var reset bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/_api/contextinfo":
			w.Write([]byte(digestResponse))
		case strings.HasSuffix(r.URL.Path, "/ListItemAllFields/resetroleinheritance"):
			reset = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.ResetRoleInheritance(context.Background(), "report.docx"))
	assert.True(t, reset)
}
