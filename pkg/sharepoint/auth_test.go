package sharepoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, fetches *atomic.Int32, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client", body.ClientID)
		assert.Equal(t, "secret", body.ClientSecret)
		assert.Equal(t, "tenant", body.TenantID)
		assert.Equal(t, "cert", body.CertName)
		assert.Equal(t, "scope", body.AuthScope)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Token":{"expires_in":` + jsonInt(expiresIn) + `,"access_token":"tok-abc"}}`))
	}))
}

func jsonInt(n int) string {
	data, _ := json.Marshal(n)
	return string(data)
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	var fetches atomic.Int32
	server := newTokenServer(t, &fetches, 3600)
	defer server.Close()

	cfg := validTokenConfig()
	cfg.TokenURL = server.URL

	source := newTokenSource(&cfg, server.Client(), noopLogger{})
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return current }

	first, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", first.AccessToken)
	assert.Equal(t, "Bearer", first.TokenType)
	assert.Equal(t, current.Add(time.Hour), first.Expiry)

	// A second call inside the expiry window reuses the cached token.
	second, err := source.Token()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), fetches.Load())

	// Past expiry the source fetches again.
	current = current.Add(2 * time.Hour)
	third, err := source.Token()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestTokenSourceRejectionSurfacesAsInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad client secret"))
	}))
	defer server.Close()

	cfg := validTokenConfig()
	cfg.TokenURL = server.URL

	source := newTokenSource(&cfg, server.Client(), noopLogger{})
	_, err := source.Token()
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad client secret")
}

func TestTokenSourceEmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token":{"expires_in":3600,"access_token":""}}`))
	}))
	defer server.Close()

	cfg := validTokenConfig()
	cfg.TokenURL = server.URL

	source := newTokenSource(&cfg, server.Client(), noopLogger{})
	_, err := source.Token()
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenAuthSetsBearerHeader(t *testing.T) {
	var fetches atomic.Int32
	tokenServer := newTokenServer(t, &fetches, 3600)
	defer tokenServer.Close()

	var seenAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"d":{}}`))
	}))
	defer apiServer.Close()

	cfg := validTokenConfig()
	cfg.URI = apiServer.URL
	cfg.TokenURL = tokenServer.URL

	client, err := NewClient(cfg)
	require.NoError(t, err)

	res, err := client.apiCall(context.Background(), http.MethodGet, client.apiURL("web"), "", nil, nil)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "Bearer tok-abc", seenAuth)
	assert.Equal(t, int32(1), fetches.Load())
}
