package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageBody(items []int, page, pages int) string {
	raw := make([]map[string]int, len(items))
	for i, id := range items {
		raw[i] = map[string]int{"textbook_id": id}
	}
	data, _ := json.Marshal(raw)
	return fmt.Sprintf(`{"code":200,"message":"success","data":{"items":%s,"pagination":{"total":5,"page":%d,"per_page":2,"pages":%d,"has_prev":%t,"has_next":%t}}}`,
		data, page, pages, page > 1, page < pages)
}

func TestFetchAllPages_MultiPage(t *testing.T) {
	var requests int64
	var seenPages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		page := r.URL.Query().Get("page")
		seenPages = append(seenPages, page)
		switch page {
		case "1":
			_, _ = w.Write([]byte(pageBody([]int{1, 2}, 1, 3)))
		case "2":
			_, _ = w.Write([]byte(pageBody([]int{3, 4}, 2, 3)))
		case "3":
			_, _ = w.Write([]byte(pageBody([]int{5}, 3, 3)))
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	items, err := FetchAllPages(context.Background(), func(ctx context.Context, page int) (*Response, error) {
		return c.ListTextbooks(ctx, TextbookFilter{ListOptions: ListOptions{Page: page, PerPage: 2}})
	})
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.JSONEq(t, `{"textbook_id":5}`, string(items[4]))
	assert.Equal(t, int64(3), atomic.LoadInt64(&requests))
	assert.Equal(t, []string{"1", "2", "3"}, seenPages)
}

func TestFetchAllPages_StopsOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":500,"message":"服务器内部错误"}`))
			return
		}
		_, _ = w.Write([]byte(pageBody([]int{1, 2}, 1, 3)))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	_, err := FetchAllPages(context.Background(), func(ctx context.Context, page int) (*Response, error) {
		return c.ListTextbooks(ctx, TextbookFilter{ListOptions: ListOptions{Page: page}})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "服务器内部错误")
}

func TestResponse_Records(t *testing.T) {
	paged := &Response{Data: json.RawMessage(pageDataOnly())}
	recs, err := paged.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0]["name"])

	flat := &Response{Data: json.RawMessage(`[{"name":"x"}]`)}
	recs, err = flat.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)

	empty := &Response{}
	recs, err = empty.Records()
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func pageDataOnly() string {
	return `{"items":[{"name":"A"},{"name":"B"}],"pagination":{"total":2,"page":1,"per_page":10,"pages":1,"has_prev":false,"has_next":false}}`
}

func TestResponse_Page(t *testing.T) {
	resp := &Response{Data: json.RawMessage(pageDataOnly())}
	p, err := resp.Page()
	require.NoError(t, err)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 1, p.Pagination.Pages)
	assert.False(t, p.Pagination.HasNext)
	assert.Equal(t, 2, p.Pagination.Total)
}
