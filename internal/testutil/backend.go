// Package testutil holds test doubles shared by the console and CLI tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"textbook-admin/pkg/client"
)

// Call is one request the fake backend received. Path has the API prefix
// stripped.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   string
}

// Backend is a fake of the textbook REST API. Routes map "METHOD /path"
// (without /api/v1) to a canned envelope; anything else answers 404.
type Backend struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	routes map[string]string
	status map[string]int
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB, routes map[string]string) *Backend {
	t.Helper()
	b := &Backend{routes: routes, status: map[string]int{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, client.APIPrefix)
	key := r.Method + " " + path

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	resp, ok := b.routes[key]
	status := b.status[key]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"资源不存在"}`))
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

// SetStatus makes route answer with an HTTP status other than 200.
func (b *Backend) SetStatus(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[route] = status
}

// Calls returns a copy of the requests received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

func (b *Backend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// Last returns the most recent request, failing the test when there is none.
func (b *Backend) Last(t testing.TB) Call {
	t.Helper()
	calls := b.Calls()
	require.NotEmpty(t, calls, "backend received no request")
	return calls[len(calls)-1]
}
