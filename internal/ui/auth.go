package ui

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

const (
	tokenCookieName = "ui_token"
	userCookieName  = "ui_user"
	sessionLifetime = 24 * time.Hour
)

// cookieStore is a client.SessionStore backed by the request's cookies.
// Saves and clears are written to the response as Set-Cookie headers.
type cookieStore struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

func newCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *cookieStore {
	return &cookieStore{w: w, r: r, secure: secure}
}

func (s *cookieStore) LoadSession() (client.Session, error) {
	token := readCookie(s.r, tokenCookieName)
	if token == "" {
		return client.Session{}, nil
	}
	sess := client.Session{Token: token}
	if raw := readCookie(s.r, userCookieName); raw != "" {
		// A damaged user cookie leaves the token usable; the role is
		// recovered from the token claims below.
		if decoded, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			sess.User, _ = client.DecodeUser(string(decoded))
		}
	}
	if sess.User == nil {
		if claims, err := sess.Claims(); err == nil {
			sess.User = &client.User{Username: claims.Username, RealName: claims.RealName, Role: claims.Role}
		}
	}
	return sess, nil
}

func (s *cookieStore) SaveSession(sess client.Session) error {
	userJSON, err := client.EncodeUser(sess.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expires := time.Now().Add(sessionLifetime)
	http.SetCookie(s.w, s.cookie(tokenCookieName, sess.Token, expires))
	http.SetCookie(s.w, s.cookie(userCookieName, base64.RawURLEncoding.EncodeToString([]byte(userJSON)), expires))
	return nil
}

func (s *cookieStore) ClearSession() error {
	s.clear()
	return nil
}

func (s *cookieStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range []string{tokenCookieName, userCookieName} {
		c := s.cookie(name, "", time.Time{})
		c.MaxAge = -1
		http.SetCookie(s.w, c)
	}
}

func (s *cookieStore) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
}

func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

type sessionContextKey struct{}

type requestSession struct {
	Client *client.Client
	User   *client.User
}

// LoadSession attaches a backend client bound to the caller's cookies.
func (h *Handler) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := h.newClient(newCookieStore(w, r, h.Production))
		ctx := context.WithValue(r.Context(), sessionContextKey{}, &requestSession{
			Client: c,
			User:   c.Session().User,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends callers without a live token to the login page.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if sess == nil || !sess.Client.Session().Valid() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if claims, err := sess.Client.Session().Claims(); err == nil && claims.Expired(h.now()) {
			h.expireSession(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole refuses the route when check fails for the signed-in user.
func (h *Handler) RequireRole(check Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := RequirePermission(currentUser(r.Context()), check, ""); err != nil {
				h.renderError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFromContext(ctx context.Context) *requestSession {
	sess, _ := ctx.Value(sessionContextKey{}).(*requestSession)
	return sess
}

func backendFromContext(ctx context.Context) *client.Client {
	if sess := sessionFromContext(ctx); sess != nil {
		return sess.Client
	}
	return nil
}

func currentUser(ctx context.Context) *client.User {
	if sess := sessionFromContext(ctx); sess != nil {
		return sess.User
	}
	return nil
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if c := backendFromContext(r.Context()); c != nil && c.Session().Valid() {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, loginPage(r))
}

// LoginRules are the checks applied before credentials are sent.
var LoginRules = []Rule{
	{Field: "username", Label: "用户名", Required: true},
	{Field: "password", Label: "密码", Required: true},
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "/", "表单无效", MessageError)
		return
	}
	values := formValues(r, "username", "password")
	if errs := ValidateForm(values, LoginRules); len(errs) > 0 {
		redirectWithMessage(w, r, "/", strings.Join(errs, "；"), MessageError)
		return
	}

	c := backendFromContext(r.Context())
	result, err := c.Login(r.Context(), values["username"], values["password"])
	if err != nil {
		h.Logger.Info("login failed", "username", values["username"], "error", err)
		redirectWithMessage(w, r, "/", LoginErrorMessage(err), MessageError)
		return
	}
	redirectWithMessage(w, r, "/ui", "欢迎，"+result.User.DisplayName(), MessageSuccess)
}

// LoginErrorMessage describes a failed login. The backend rejects bad
// credentials with code 401, which the client reports as session expiry.
func LoginErrorMessage(err error) string {
	if client.IsSessionExpired(err) {
		return "用户名或密码错误"
	}
	return ErrorMessage(err, "登录失败")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c := backendFromContext(r.Context()); c != nil {
		_ = c.Logout()
	} else {
		newCookieStore(w, r, h.Production).clear()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginPage(r *http.Request) gomponents.Node {
	return html.HTML(
		html.Lang("zh-CN"),
		pageHead("登录"),
		html.Body(
			html.Class("login-body"),
			flashFromRequest(r),
			html.Main(
				html.Class("login-wrap"),
				html.H1(html.I(html.Class("fas fa-book")), gomponents.Text(" 教材管理系统")),
				html.P(html.Class("muted"), gomponents.Text("请使用系统账号登录")),
				html.Form(
					html.Method("post"),
					html.Action("/login"),
					html.Class("login-form"),
					csrfField(r),
					html.Label(html.For("username"), gomponents.Text("用户名")),
					html.Input(html.ID("username"), html.Name("username"), html.Type("text"), html.AutoComplete("username"), html.Required()),
					html.Label(html.For("password"), gomponents.Text("密码")),
					html.Input(html.ID("password"), html.Name("password"), html.Type("password"), html.AutoComplete("current-password"), html.Required()),
					Button{Label: `<i class="fas fa-sign-in-alt"></i> 登录`, Class: "btn btn-primary"}.Node(),
				),
			),
			html.Script(gomponents.Raw(loadingOnSubmit)),
		),
	)
}
