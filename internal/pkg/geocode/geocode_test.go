package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "alumni-registry-test/1.0", 2*time.Second)
	return client, server
}

func TestResolveHit(t *testing.T) {
	var gotRequest *http.Request
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"-37.3217","lon":"-59.1332","display_name":"Tandil, Argentina"}]`))
	})
	defer server.Close()

	coords, ok := client.Resolve(context.Background(), "Tandil, Argentina")
	require.True(t, ok)
	assert.InDelta(t, -37.3217, coords.Latitude, 0.0001)
	assert.InDelta(t, -59.1332, coords.Longitude, 0.0001)

	require.NotNil(t, gotRequest)
	assert.Equal(t, "/search", gotRequest.URL.Path)
	assert.Equal(t, "Tandil, Argentina", gotRequest.URL.Query().Get("q"))
	assert.Equal(t, "json", gotRequest.URL.Query().Get("format"))
	assert.Equal(t, "1", gotRequest.URL.Query().Get("limit"))
	assert.Equal(t, "alumni-registry-test/1.0", gotRequest.Header.Get("User-Agent"))
}

func TestResolveNoResults(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer server.Close()

	_, ok := client.Resolve(context.Background(), "Nowhere In Particular")
	assert.False(t, ok)
}

func TestResolveServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, ok := client.Resolve(context.Background(), "Tandil")
	assert.False(t, ok)
}

func TestResolveMalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	})
	defer server.Close()

	_, ok := client.Resolve(context.Background(), "Tandil")
	assert.False(t, ok)
}

func TestResolveMalformedCoordinates(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"-59.1332"}]`))
	})
	defer server.Close()

	_, ok := client.Resolve(context.Background(), "Tandil")
	assert.False(t, ok)
}

func TestResolveUnreachableServer(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, ok := client.Resolve(context.Background(), "Tandil")
	assert.False(t, ok)
}
