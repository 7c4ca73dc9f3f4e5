package client

import (
	"context"
	"net/url"
)

func (c *Client) Dashboard(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/statistics/dashboard", nil)
}

func (c *Client) StatisticsByType(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/statistics/by-type", nil)
}

func (c *Client) StatisticsByPublisher(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/statistics/by-publisher", nil)
}

func (c *Client) StatisticsByTextbook(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/statistics/by-textbook", id), nil)
}

// StatisticsByDate aggregates stock movements between two dates
// (YYYY-MM-DD). Both bounds are required by the backend.
func (c *Client) StatisticsByDate(ctx context.Context, startDate, endDate string) (*Response, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	return c.get(ctx, "/statistics/by-date", q)
}

func (c *Client) InventoryWarnings(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/statistics/inventory-warnings", nil)
}
