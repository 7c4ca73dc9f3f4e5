package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gomponents "maragu.dev/gomponents"

	"textbook-admin/pkg/client"
)

const defaultPerPage = 10

// Handler serves the console. Every request talks to the backend through
// its own client whose session lives in the caller's cookies.
type Handler struct {
	BackendURL string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Production bool
	Now        func() time.Time
}

// NewHandler builds a console handler talking to the backend at backendURL.
func NewHandler(backendURL string, httpClient *http.Client, logger *slog.Logger, production bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		BackendURL: backendURL,
		HTTPClient: httpClient,
		Logger:     logger,
		Production: production,
		Now:        time.Now,
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) newClient(store client.SessionStore) *client.Client {
	opts := []client.Option{client.WithSessionStore(store)}
	if h.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(h.HTTPClient))
	}
	if h.Logger != nil {
		opts = append(opts, client.WithLogger(h.Logger))
	}
	return client.NewClient(h.BackendURL, opts...)
}

// handlerFunc is a page handler that reports failures instead of rendering
// them; handle turns the error into a response.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.renderError(w, r, err)
		}
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, client.ErrSessionExpired) {
		h.expireSession(w, r)
		return
	}

	status := http.StatusBadGateway
	title := "请求失败"

	var permErr *PermissionError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &permErr):
		status = http.StatusForbidden
		title = "没有权限"
	case errors.As(err, &apiErr):
		switch {
		case apiErr.HTTPStatus == http.StatusNotFound:
			status = http.StatusNotFound
			title = "未找到"
		case apiErr.HTTPStatus == http.StatusForbidden:
			status = http.StatusForbidden
			title = "没有权限"
		case apiErr.HTTPStatus >= 400 && apiErr.HTTPStatus < 500:
			status = http.StatusBadRequest
			title = "请求无效"
		}
	}

	h.Logger.Warn("console request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	renderHTML(w, status, errorPage(title, ErrorMessage(err, "操作失败")))
}

// expireSession drops the session cookies and sends the browser to the
// login page with the expiry notice.
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	newCookieStore(w, r, h.Production).clear()
	redirectWithMessage(w, r, "/", client.ErrSessionExpired.Error(), MessageWarning)
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// redirectWithMessage redirects to target carrying a one-shot toast.
func redirectWithMessage(w http.ResponseWriter, r *http.Request, target, message string, t MessageType) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/ui"}
	}
	q := u.Query()
	q.Set("msg", message)
	q.Set("type", string(t))
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// flashFromRequest renders the toast carried by redirectWithMessage, if any.
func flashFromRequest(r *http.Request) gomponents.Node {
	msg := strings.TrimSpace(r.URL.Query().Get("msg"))
	if msg == "" {
		return nil
	}
	return Toast(msg, MessageType(r.URL.Query().Get("type")))
}

func pageFromRequest(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageHref keeps the current query and swaps in page.
func pageHref(r *http.Request) func(int) string {
	return func(page int) string {
		q := r.URL.Query()
		q.Del("msg")
		q.Del("type")
		q.Set("page", strconv.Itoa(page))
		return r.URL.Path + "?" + q.Encode()
	}
}

func decodeItems(items []json.RawMessage) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, raw := range items {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = strings.TrimSpace(r.Form.Get(f))
	}
	return out
}

func field(rec map[string]any, key string) string {
	v := client.ExtractField(rec, key)
	if v == "" {
		return "-"
	}
	return v
}

func intField(rec map[string]any, key string) int {
	n, _ := strconv.Atoi(client.ExtractField(rec, key))
	return n
}
