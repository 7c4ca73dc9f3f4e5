package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireCSRF_RejectsMissingCookie(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodPost, "/ui/orders/1/approve", strings.NewReader("csrf_token=abc"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "请求校验失败")
}

func TestRequireCSRF_RejectsMismatch(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader("csrf_token=other"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireCSRF_AllowsMatchingFormToken(t *testing.T) {
	h := &Handler{}
	form := url.Values{}
	form.Set(csrfFormField, "abc123")
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequireCSRF_AllowsMatchingHeader(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodPost, "/ui/orders", nil)
	r.Header.Set(csrfHeader, "abc123")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequireCSRF_SafeMethodsPass(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	h.RequireCSRF(noContent()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ui", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestEnsureCSRFToken_SetsCookieWhenMissing(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.EnsureCSRFToken(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Set-Cookie"), csrfCookieName+"=")
}

func TestEnsureCSRFToken_KeepsExistingCookie(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "keep-me"})
	rr := httptest.NewRecorder()

	var seen string
	h.EnsureCSRFToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = render(t, csrfField(r))
	})).ServeHTTP(rr, r)

	assert.Empty(t, rr.Header().Get("Set-Cookie"))
	assert.Contains(t, seen, `value="keep-me"`)
}
