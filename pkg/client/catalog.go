package client

import (
	"context"
)

// TextbookFilter narrows GET /textbooks.
type TextbookFilter struct {
	ListOptions
	Keyword     string
	PublisherID int
	TypeID      int
}

// ListTextbooks returns one page of textbooks.
func (c *Client) ListTextbooks(ctx context.Context, f TextbookFilter) (*Response, error) {
	q := f.values(10)
	setIf(q, "keyword", f.Keyword)
	setIntIf(q, "publisher_id", f.PublisherID)
	setIntIf(q, "type_id", f.TypeID)
	return c.get(ctx, "/textbooks", q)
}

func (c *Client) GetTextbook(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/textbooks", id), nil)
}

func (c *Client) CreateTextbook(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/textbooks", body)
}

func (c *Client) UpdateTextbook(ctx context.Context, id int, body any) (*Response, error) {
	return c.put(ctx, idPath("/textbooks", id), body)
}

func (c *Client) DeleteTextbook(ctx context.Context, id int) (*Response, error) {
	return c.delete(ctx, idPath("/textbooks", id))
}

// PublisherFilter narrows GET /publishers.
type PublisherFilter struct {
	ListOptions
	Keyword string
}

// ListPublishers returns one page of publishers, 100 per page by default.
func (c *Client) ListPublishers(ctx context.Context, f PublisherFilter) (*Response, error) {
	q := f.values(100)
	setIf(q, "keyword", f.Keyword)
	return c.get(ctx, "/publishers", q)
}

func (c *Client) GetPublisher(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/publishers", id), nil)
}

func (c *Client) CreatePublisher(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/publishers", body)
}

func (c *Client) UpdatePublisher(ctx context.Context, id int, body any) (*Response, error) {
	return c.put(ctx, idPath("/publishers", id), body)
}

func (c *Client) DeletePublisher(ctx context.Context, id int) (*Response, error) {
	return c.delete(ctx, idPath("/publishers", id))
}

// ListTextbookTypes returns every textbook type as a flat list.
func (c *Client) ListTextbookTypes(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/textbook-types", nil)
}

// TextbookTypeTree returns textbook types nested under their parents.
func (c *Client) TextbookTypeTree(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/textbook-types/tree", nil)
}

func (c *Client) GetTextbookType(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/textbook-types", id), nil)
}

func (c *Client) CreateTextbookType(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/textbook-types", body)
}

func (c *Client) UpdateTextbookType(ctx context.Context, id int, body any) (*Response, error) {
	return c.put(ctx, idPath("/textbook-types", id), body)
}

func (c *Client) DeleteTextbookType(ctx context.Context, id int) (*Response, error) {
	return c.delete(ctx, idPath("/textbook-types", id))
}
