package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []capturedRequest
}

func (r *recorder) handler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.reqs = append(r.reqs, capturedRequest{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Auth:   req.Header.Get("Authorization"),
			Body:   string(data),
		})
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (r *recorder) last() capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		return capturedRequest{}
	}
	return r.reqs[len(r.reqs)-1]
}

func newRecordingClient(t *testing.T, body string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, body))
	t.Cleanup(srv.Close)
	return newTestClient(srv.URL, WithSession(Session{Token: "tok"})), rec
}

const okBody = `{"code":200,"message":"success","data":null}`

func TestListTextbooks_OmitsEmptyFilters(t *testing.T) {
	c, rec := newRecordingClient(t, okBody)

	_, err := c.ListTextbooks(context.Background(), TextbookFilter{})
	require.NoError(t, err)

	got := rec.last()
	assert.Equal(t, "/api/v1/textbooks", got.Path)
	assert.Equal(t, url.Values{"page": {"1"}, "per_page": {"10"}}, got.Query)
}

func TestListTextbooks_AllFilters(t *testing.T) {
	c, rec := newRecordingClient(t, okBody)

	_, err := c.ListTextbooks(context.Background(), TextbookFilter{
		ListOptions: ListOptions{Page: 3, PerPage: 20},
		Keyword:     "数据 结构&算法",
		PublisherID: 4,
		TypeID:      9,
	})
	require.NoError(t, err)

	got := rec.last()
	assert.Equal(t, "3", got.Query.Get("page"))
	assert.Equal(t, "20", got.Query.Get("per_page"))
	assert.Equal(t, "数据 结构&算法", got.Query.Get("keyword"), "keyword must survive URL encoding")
	assert.Equal(t, "4", got.Query.Get("publisher_id"))
	assert.Equal(t, "9", got.Query.Get("type_id"))
}

func TestListEndpoints_QueryShapes(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) error
		wantPath  string
		wantQuery url.Values
	}{
		{
			name: "publishers default page size",
			call: func(c *Client) error {
				_, err := c.ListPublishers(context.Background(), PublisherFilter{})
				return err
			},
			wantPath:  "/api/v1/publishers",
			wantQuery: url.Values{"page": {"1"}, "per_page": {"100"}},
		},
		{
			name: "orders with status only",
			call: func(c *Client) error {
				_, err := c.ListPurchaseOrders(context.Background(), OrderFilter{Status: "待审核"})
				return err
			},
			wantPath:  "/api/v1/purchase-orders",
			wantQuery: url.Values{"page": {"1"}, "per_page": {"10"}, "status": {"待审核"}},
		},
		{
			name: "orders with date range",
			call: func(c *Client) error {
				_, err := c.ListPurchaseOrders(context.Background(), OrderFilter{StartDate: "2024-01-01", EndDate: "2024-02-01"})
				return err
			},
			wantPath:  "/api/v1/purchase-orders",
			wantQuery: url.Values{"page": {"1"}, "per_page": {"10"}, "start_date": {"2024-01-01"}, "end_date": {"2024-02-01"}},
		},
		{
			name: "stock-ins keyword",
			call: func(c *Client) error {
				_, err := c.ListStockIns(context.Background(), StockInFilter{ListOptions: ListOptions{Page: 2}, Keyword: "RK"})
				return err
			},
			wantPath:  "/api/v1/stock-ins",
			wantQuery: url.Values{"page": {"2"}, "per_page": {"10"}, "keyword": {"RK"}},
		},
		{
			name: "statistics by date",
			call: func(c *Client) error {
				_, err := c.StatisticsByDate(context.Background(), "2024-01-01", "2024-01-31")
				return err
			},
			wantPath:  "/api/v1/statistics/by-date",
			wantQuery: url.Values{"start_date": {"2024-01-01"}, "end_date": {"2024-01-31"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRecordingClient(t, okBody)
			require.NoError(t, tt.call(c))
			got := rec.last()
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantQuery, got.Query)
		})
	}
}

func TestEndpoints_MethodsAndPaths(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{"current user", func(c *Client) error { _, err := c.CurrentUser(ctx); return err }, "GET", "/api/v1/auth/current_user", ""},
		{"users", func(c *Client) error { _, err := c.Users(ctx); return err }, "GET", "/api/v1/auth/users", ""},
		{"get textbook", func(c *Client) error { _, err := c.GetTextbook(ctx, 5); return err }, "GET", "/api/v1/textbooks/5", ""},
		{"update textbook", func(c *Client) error { _, err := c.UpdateTextbook(ctx, 5, map[string]any{"price": 12.5}); return err }, "PUT", "/api/v1/textbooks/5", `{"price":12.5}`},
		{"delete textbook", func(c *Client) error { _, err := c.DeleteTextbook(ctx, 5); return err }, "DELETE", "/api/v1/textbooks/5", ""},
		{"create publisher", func(c *Client) error {
			_, err := c.CreatePublisher(ctx, map[string]string{"publisher_name": "P"})
			return err
		}, "POST", "/api/v1/publishers", `{"publisher_name":"P"}`},
		{"delete publisher", func(c *Client) error { _, err := c.DeletePublisher(ctx, 2); return err }, "DELETE", "/api/v1/publishers/2", ""},
		{"type list", func(c *Client) error { _, err := c.ListTextbookTypes(ctx); return err }, "GET", "/api/v1/textbook-types", ""},
		{"type tree", func(c *Client) error { _, err := c.TextbookTypeTree(ctx); return err }, "GET", "/api/v1/textbook-types/tree", ""},
		{"approve order", func(c *Client) error { _, err := c.ApprovePurchaseOrder(ctx, 3, "张三"); return err }, "POST", "/api/v1/purchase-orders/3/approve", `{"approver":"张三"}`},
		{"cancel order", func(c *Client) error { _, err := c.CancelPurchaseOrder(ctx, 3, "重复下单"); return err }, "POST", "/api/v1/purchase-orders/3/cancel", `{"reason":"重复下单"}`},
		{"deliver order", func(c *Client) error { _, err := c.DeliverPurchaseOrder(ctx, 3); return err }, "POST", "/api/v1/purchase-orders/3/deliver", `{}`},
		{"update order", func(c *Client) error {
			_, err := c.UpdatePurchaseOrder(ctx, 3, map[string]int{"order_quantity": 40})
			return err
		}, "PUT", "/api/v1/purchase-orders/3", `{"order_quantity":40}`},
		{"create stock-in", func(c *Client) error { _, err := c.CreateStockIn(ctx, map[string]int{"order_id": 3}); return err }, "POST", "/api/v1/stock-ins", `{"order_id":3}`},
		{"delete stock-in", func(c *Client) error { _, err := c.DeleteStockIn(ctx, 8); return err }, "DELETE", "/api/v1/stock-ins/8", ""},
		{"direct stock-in", func(c *Client) error {
			_, err := c.DirectStockIn(ctx, map[string]int{"textbook_id": 1, "quantity": 10})
			return err
		}, "POST", "/api/v1/stock-ins/direct", `{"quantity":10,"textbook_id":1}`},
		{"dashboard", func(c *Client) error { _, err := c.Dashboard(ctx); return err }, "GET", "/api/v1/statistics/dashboard", ""},
		{"by type", func(c *Client) error { _, err := c.StatisticsByType(ctx); return err }, "GET", "/api/v1/statistics/by-type", ""},
		{"by publisher", func(c *Client) error { _, err := c.StatisticsByPublisher(ctx); return err }, "GET", "/api/v1/statistics/by-publisher", ""},
		{"by textbook", func(c *Client) error { _, err := c.StatisticsByTextbook(ctx, 11); return err }, "GET", "/api/v1/statistics/by-textbook/11", ""},
		{"warnings", func(c *Client) error { _, err := c.InventoryWarnings(ctx); return err }, "GET", "/api/v1/statistics/inventory-warnings", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRecordingClient(t, okBody)
			require.NoError(t, tt.call(c))
			got := rec.last()
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, "Bearer tok", got.Auth)
			if tt.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, got.Body)
			}
		})
	}
}

func TestLogin_InstallsSession(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, `{
		"code": 200,
		"message": "登录成功",
		"data": {
			"access_token": "acc",
			"refresh_token": "ref",
			"user": {"user_id": 1, "username": "admin", "role": "管理员", "department": "教务处"}
		}
	}`))
	t.Cleanup(srv.Close)

	store := &MemoryStore{}
	c := newTestClient(srv.URL, WithSessionStore(store))

	result, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc", result.AccessToken)

	got := rec.last()
	assert.Equal(t, "/api/v1/auth/login", got.Path)
	assert.Empty(t, got.Auth, "login is sent without a bearer token")
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, map[string]string{"username": "admin", "password": "secret"}, body)

	s := c.Session()
	assert.Equal(t, "acc", s.Token)
	assert.Equal(t, "ref", s.RefreshToken)
	assert.Equal(t, "管理员", s.Role())

	stored, _ := store.LoadSession()
	assert.Equal(t, "acc", stored.Token)
	require.NotNil(t, stored.User)
	assert.Equal(t, "admin", stored.User.Username)
}

func TestLogin_FailureKeepsNoSession(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusBadRequest, `{"code":400,"message":"用户名或密码错误"}`))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "用户名或密码错误")
	assert.False(t, c.Session().Valid())
}

func TestLogout_ClearsSession(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.SaveSession(Session{Token: "t", User: &User{Role: "教师"}}))
	c := newTestClient("http://localhost:5000", WithSessionStore(store))

	require.NoError(t, c.Logout())
	assert.False(t, c.Session().Valid())
	stored, _ := store.LoadSession()
	assert.False(t, stored.Valid())
}

func TestRegister_NoAuthHeader(t *testing.T) {
	c, rec := newRecordingClient(t, `{"code":201,"message":"注册成功","data":{"user_id":9}}`)

	resp, err := c.Register(context.Background(), RegisterRequest{Username: "li", Password: "pw", Role: "教师"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	got := rec.last()
	assert.Equal(t, "/api/v1/auth/register", got.Path)
	assert.Empty(t, got.Auth)
	assert.JSONEq(t, `{"username":"li","password":"pw","role":"教师"}`, got.Body)
}
