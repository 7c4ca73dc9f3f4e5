package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(host string, opts ...Option) *Client {
	return NewClient(host, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

// === NewClient ===

func TestNewClient_TrailingSlash(t *testing.T) {
	c := newTestClient("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", c.BaseURL)
}

func TestNewClient_SetsTimeout(t *testing.T) {
	c := newTestClient("http://localhost:5000")
	require.NotNil(t, c.HTTPClient)
	assert.Equal(t, 30*time.Second, c.HTTPClient.Timeout)
}

func TestNewClient_LoadsSessionFromStore(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.SaveSession(Session{Token: "stored", User: &User{Role: "教师"}}))

	c := newTestClient("http://localhost:5000", WithSessionStore(store))
	assert.Equal(t, "stored", c.Session().Token)
	assert.Equal(t, "教师", c.Session().Role())
}

func TestNewClient_ExplicitSessionWins(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.SaveSession(Session{Token: "stored"}))

	c := newTestClient("http://localhost:5000", WithSessionStore(store), WithSession(Session{Token: "flag"}))
	assert.Equal(t, "flag", c.Session().Token)
}

// === Client.Do ===

func TestDo_URLConstruction(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	resp, err := c.Do(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "/api/v1/textbooks", gotPath)
}

func TestDo_QueryParams(t *testing.T) {
	var gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	q := url.Values{}
	q.Set("page", "2")
	q.Set("per_page", "20")

	resp, err := c.Do(context.Background(), http.MethodGet, "/textbooks", q, nil, true)
	require.NoError(t, err)
	resp.Body.Close()

	parsed, err := url.ParseQuery(gotRawQuery)
	require.NoError(t, err)
	assert.Equal(t, "2", parsed.Get("page"))
	assert.Equal(t, "20", parsed.Get("per_page"))
}

func TestDo_WithBody(t *testing.T) {
	var (
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	resp, err := c.Do(context.Background(), http.MethodPost, "/publishers", nil, map[string]string{"publisher_name": "高等教育出版社"}, true)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", gotContentType)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &parsed))
	assert.Equal(t, "高等教育出版社", parsed["publisher_name"])
}

func TestDo_BodyOnlyForPostAndPut(t *testing.T) {
	tests := []struct {
		method   string
		wantBody bool
	}{
		{method: http.MethodGet, wantBody: false},
		{method: http.MethodDelete, wantBody: false},
		{method: http.MethodPost, wantBody: true},
		{method: http.MethodPut, wantBody: true},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var (
				gotBody        []byte
				gotContentType string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBody, _ = io.ReadAll(r.Body)
				gotContentType = r.Header.Get("Content-Type")
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(srv.Close)

			c := newTestClient(srv.URL)
			resp, err := c.Do(context.Background(), tt.method, "/x", nil, map[string]int{"a": 1}, true)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, "application/json", gotContentType, "content type is always sent")
			if tt.wantBody {
				assert.JSONEq(t, `{"a":1}`, string(gotBody))
			} else {
				assert.Empty(t, gotBody)
			}
		})
	}
}

func TestDo_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL, WithSession(Session{Token: "my-jwt-token"}))
	resp, err := c.Do(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer my-jwt-token", gotAuth)

	resp, err = c.Do(context.Background(), http.MethodGet, "/textbooks", nil, nil, false)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotAuth, "includeAuth=false must not send the token")
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	resp, err := c.Do(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestDo_ConnectionRefused(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.Do(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

// === Client.Request ===

func TestRequest_SessionExpired(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "HTTP 200 envelope 401", status: http.StatusOK},
		{name: "HTTP 401 envelope 401", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":401,"message":"Token已过期"}`))
			}))
			t.Cleanup(srv.Close)

			store := &MemoryStore{}
			require.NoError(t, store.SaveSession(Session{Token: "old", User: &User{Role: "管理员"}}))
			c := newTestClient(srv.URL, WithSessionStore(store))

			resp, err := c.Request(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
			require.ErrorIs(t, err, ErrSessionExpired)
			assert.True(t, IsSessionExpired(err))
			assert.Nil(t, resp)

			assert.False(t, c.Session().Valid())
			stored, _ := store.LoadSession()
			assert.False(t, stored.Valid())
			assert.Nil(t, stored.User)
		})
	}
}

func TestRequest_APIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{
			name:       "HTTP 400 envelope",
			status:     http.StatusBadRequest,
			body:       `{"code":400,"message":"数据验证失败","errors":{"isbn":["格式不正确"]}}`,
			wantStatus: 400,
			wantCode:   400,
			wantMsg:    "API error (HTTP 400): 数据验证失败",
		},
		{
			name:       "HTTP 200 with error code",
			status:     http.StatusOK,
			body:       `{"code":403,"message":"权限不足"}`,
			wantStatus: 200,
			wantCode:   403,
			wantMsg:    "API error (HTTP 200): 权限不足",
		},
		{
			name:       "HTTP 500 plain text",
			status:     http.StatusInternalServerError,
			body:       `Internal Server Error`,
			wantStatus: 500,
			wantMsg:    "API error (HTTP 500): Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := newTestClient(srv.URL, WithSession(Session{Token: "t"}))
			_, err := c.Request(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
			require.Error(t, err)
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
			assert.True(t, c.Session().Valid(), "non-401 errors keep the session")
		})
	}
}

func TestRequest_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"message":"数据验证失败","errors":{"isbn":["格式不正确"]}}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	_, err := c.CreateTextbook(context.Background(), map[string]string{"isbn": "x"})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, map[string][]string{"isbn": {"格式不正确"}}, apiErr.FieldErrors())
}

func TestRequest_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	_, err := c.Request(context.Background(), http.MethodGet, "/textbooks", nil, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"message":"success","data":{"textbook_id":7},"timestamp":1700000000}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	resp, err := c.GetTextbook(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, int64(1700000000), resp.Timestamp)

	rec, err := Decode[map[string]any](resp)
	require.NoError(t, err)
	assert.Equal(t, float64(7), rec["textbook_id"])
}

// === CheckError / ReadBody ===

func TestCheckError_SuccessRange(t *testing.T) {
	for _, code := range []int{200, 201, 204} {
		resp := &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(""))}
		assert.NoError(t, CheckError(resp))
	}
}

func TestCheckError_StructuredError(t *testing.T) {
	resp := &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(strings.NewReader(`{"code":404,"message":"资源不存在"}`)),
	}
	err := CheckError(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 404): 资源不存在")
}
