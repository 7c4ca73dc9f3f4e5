package ui

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const (
	csrfCookieName = "ui_csrf"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

type csrfContextKey struct{}

// EnsureCSRFToken issues the double-submit token cookie on first visit and
// exposes the token to forms rendered for this request.
func (h *Handler) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := readCookie(r, csrfCookieName)
		if token == "" {
			token = randomToken(32)
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.Production,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCSRF rejects unsafe methods whose form field or header does not
// match the token cookie.
func (h *Handler) RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookieToken := readCookie(r, csrfCookieName)
		if cookieToken == "" {
			renderHTML(w, http.StatusForbidden, errorPage("请求校验失败", "缺少 CSRF 令牌，请刷新页面后重试。"))
			return
		}

		sent := strings.TrimSpace(r.Header.Get(csrfHeader))
		if sent == "" {
			_ = r.ParseForm()
			sent = strings.TrimSpace(r.Form.Get(csrfFormField))
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(sent)) != 1 {
			renderHTML(w, http.StatusForbidden, errorPage("请求校验失败", "CSRF 令牌无效，请刷新页面后重试。"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func csrfField(r *http.Request) gomponents.Node {
	token, _ := r.Context().Value(csrfContextKey{}).(string)
	if token == "" {
		token = readCookie(r, csrfCookieName)
	}
	return html.Input(html.Type("hidden"), html.Name(csrfFormField), html.Value(token))
}

func randomToken(size int) string {
	if size < 16 {
		size = 16
	}
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
