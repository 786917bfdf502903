package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teckmodel/aptai/internal/config"
)

func newTestClient(baseURL string, opts ...Option) *Client {
	return New(config.SourceConfig{Name: "test", BaseURL: baseURL}, opts...)
}

func TestGetJSONErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		checkError func(t *testing.T, err error)
	}{
		{
			name:   "404 is a plain miss",
			status: http.StatusNotFound,
			body:   `{"error":"not found"}`,
			checkError: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name:   "Server error is a transport fault with status",
			status: http.StatusInternalServerError,
			body:   "boom",
			checkError: func(t *testing.T, err error) {
				var te *TransportError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
				assert.Equal(t, "test", te.Source)
				assert.False(t, IsSoft(err))
			},
		},
		{
			name:   "Undecodable body is malformed",
			status: http.StatusOK,
			body:   "<html>oops</html>",
			checkError: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMalformed)
				assert.True(t, IsSoft(err))
			},
		},
		{
			name:   "Empty 2xx body is a miss",
			status: http.StatusOK,
			body:   "  ",
			checkError: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out map[string]any
			err := newTestClient(srv.URL).GetJSON(context.Background(), "/thing", &out)
			require.Error(t, err)
			tt.checkError(t, err)
		})
	}
}

func TestGetJSONSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/thing", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"value":7}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, newTestClient(srv.URL).GetJSON(context.Background(), "/thing", &out))
	assert.Equal(t, 7, out.Value)
}

func TestPostJSONSendsBearerAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	c := newTestClient(srv.URL, WithBearer("sk-test"))
	require.NoError(t, c.PostJSON(context.Background(), "/submit", map[string]string{"a": "b"}, &out))
	assert.True(t, out.OK)
}

func TestWhitespacePathIsInvalidInput(t *testing.T) {
	t.Parallel()

	err := newTestClient("http://localhost:0").GetJSON(context.Background(), "/bad path", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSourceTimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(config.SourceConfig{Name: "slow", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	err := c.GetJSON(context.Background(), "/thing", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, IsSoft(err))
}

func TestUnreachableHostIsTransportError(t *testing.T) {
	t.Parallel()

	err := newTestClient("http://127.0.0.1:1").GetJSON(context.Background(), "/thing", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.False(t, IsSoft(err))
}
