package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Response is the envelope every backend endpoint answers with.
type Response struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Pagination describes one page of a list endpoint.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Pages   int  `json:"pages"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// Page is the data payload of list endpoints. Items stay raw: entity shapes
// belong to the backend.
type Page struct {
	Items      []json.RawMessage `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// Decode unmarshals the envelope data into T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

// Page decodes the envelope data as a paginated list.
func (r *Response) Page() (Page, error) {
	return Decode[Page](r)
}

// Records decodes the envelope data as a list of objects, accepting both a
// bare array and a paginated payload.
func (r *Response) Records() ([]map[string]any, error) {
	if r == nil || len(r.Data) == 0 {
		return nil, nil
	}
	var list []map[string]any
	if err := json.Unmarshal(r.Data, &list); err == nil {
		return list, nil
	}
	var page struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(r.Data, &page); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return page.Items, nil
}

// PageFetcher fetches one page of a list endpoint.
type PageFetcher func(ctx context.Context, page int) (*Response, error)

// FetchAllPages walks a list endpoint from page 1 until has_next is false and
// returns every raw item in order.
func FetchAllPages(ctx context.Context, fetch PageFetcher) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for page := 1; ; page++ {
		resp, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		p, err := resp.Page()
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if !p.Pagination.HasNext || len(p.Items) == 0 {
			return all, nil
		}
	}
}

// ListOptions is the paging part of every list query.
type ListOptions struct {
	Page    int
	PerPage int
}

func (o ListOptions) values(defaultPerPage int) url.Values {
	page := o.Page
	if page <= 0 {
		page = 1
	}
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

// setIf adds key=value only for non-empty values; empty filters are omitted
// rather than sent as key=.
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setIntIf(q url.Values, key string, value int) {
	if value != 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func idPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}
