package reqres

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "usertable/internal/domain/user"
	"usertable/pkg/logger"
	pkgerrors "usertable/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, zaptest.NewLogger(t))
}

func TestListUsers_Success(t *testing.T) {
	mockResponse := `{"page":1,"per_page":6,"total":12,"total_pages":2,
		"data":[{"id":1,"email":"a@x.com","first_name":"Ann","last_name":"Lee","avatar":"https://x/1.jpg"}]}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(mockResponse))
	})

	page, err := client.ListUsers(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, []domain.User{{ID: 1, Email: "a@x.com", FirstName: "Ann", LastName: "Lee"}}, page.Users)
}

func TestListUsers_EmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":5,"total":12,"data":[]}`))
	})

	page, err := client.ListUsers(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, int64(12), page.Total)
}

func TestListUsers_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"missing api key"}`},
		{name: "malformed json", status: http.StatusOK, body: `{"data":[`},
		{name: "missing data", status: http.StatusOK, body: `{"total":3}`},
		{name: "negative total", status: http.StatusOK, body: `{"data":[],"total":-100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			page, err := client.ListUsers(context.Background(), 1)
			assert.Nil(t, page)

			var upstream *pkgerrors.UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, "list users", upstream.Op)
			assert.Equal(t, tt.status, upstream.Status)
		})
	}
}

func TestListUsers_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second}, zaptest.NewLogger(t))
	_, err := client.ListUsers(context.Background(), 1)

	var upstream *pkgerrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 0, upstream.Status)
}

func TestListUsers_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond}, zaptest.NewLogger(t))
	_, err := client.ListUsers(context.Background(), 1)

	assert.True(t, pkgerrors.IsUpstream(err))
}

func TestDeleteUser(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/users/7", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteUser(context.Background(), 7))
	})

	t.Run("ok with body ignored", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		assert.NoError(t, client.DeleteUser(context.Background(), 7))
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.DeleteUser(context.Background(), 7)
		var upstream *pkgerrors.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusNotFound, upstream.Status)
		assert.Equal(t, "delete user", upstream.Op)
	})
}

func TestHeaders_APIKeyAndRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "req-9", r.Header.Get(logger.RequestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:      server.URL,
		Timeout:      time.Second,
		APIKey:       "secret",
		APIKeyHeader: "x-api-key",
	}, zaptest.NewLogger(t))

	ctx := logger.WithRequestID(context.Background(), "req-9")
	assert.NoError(t, client.DeleteUser(ctx, 1))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(Config{}, zaptest.NewLogger(t))
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
