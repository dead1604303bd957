package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/justsurfingit/brightpath/internal/errors"
)

type failingTokens struct{}

func (failingTokens) Token() (*oauth2.Token, error) { return nil, errors.New("no token") }

func TestClient_Success(t *testing.T) {
	var gotAuth, gotQuery, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL + "/", Tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret"})})

	var out struct{ Value string }
	status, err := c.Do(context.Background(), http.MethodPost, "/things", url.Values{"limit": {"5"}}, map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "limit=5", gotQuery)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	for name, tokens := range map[string]oauth2.TokenSource{
		"no source":      nil,
		"failing source": failingTokens{},
		"empty token":    oauth2.StaticTokenSource(&oauth2.Token{}),
	} {
		t.Run(name, func(t *testing.T) {
			var present bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, present = r.Header["Authorization"]
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			c := New(Config{BaseURL: server.URL, Tokens: tokens})
			_, err := c.Do(context.Background(), http.MethodGet, "/", nil, nil, nil)
			require.NoError(t, err)
			assert.False(t, present)
		})
	}
}

func TestClient_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message from body", http.StatusNotFound, `{"message":"application not found"}`, "application not found"},
		{"error key from body", http.StatusBadRequest, `{"error":"bad input"}`, "bad input"},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, "HTTP error 500"},
		{"empty body", http.StatusBadGateway, ``, "HTTP error 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL}).Do(context.Background(), http.MethodGet, "/", nil, nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.status, errors.ServerStatus(err))
			assert.False(t, errors.IsConnectivity(err))
			assert.False(t, errors.IsTimeout(err))
		})
	}
}

func TestClient_UnexpectedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out map[string]interface{}
	_, err := New(Config{BaseURL: server.URL}).Do(context.Background(), http.MethodGet, "/", nil, nil, &out)
	require.Error(t, err)
	assert.Equal(t, "unexpected response from server", err.Error())
	assert.Equal(t, http.StatusOK, errors.ServerStatus(err))
}

func TestClient_Connectivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := New(Config{BaseURL: addr}).Do(context.Background(), http.MethodGet, "/applications", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConnectivity(err))
	assert.False(t, errors.IsTimeout(err))
	assert.Equal(t, 0, errors.ServerStatus(err))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}).
		Do(context.Background(), http.MethodGet, "/slow", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
	assert.False(t, errors.IsConnectivity(err))
}

func TestClient_DefaultTimeout(t *testing.T) {
	c := New(Config{BaseURL: "http://example.invalid"})
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "http://example.invalid", c.BaseURL())
}
