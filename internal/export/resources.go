package export

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"textbook-admin/pkg/client"
)

const exportPerPage = 100

// Source loads every row of one exportable resource.
type Source func(ctx context.Context, c *client.Client) ([]json.RawMessage, error)

var sources = map[string]Source{
	"textbooks": paged(func(ctx context.Context, c *client.Client, page int) (*client.Response, error) {
		return c.ListTextbooks(ctx, client.TextbookFilter{ListOptions: client.ListOptions{Page: page, PerPage: exportPerPage}})
	}),
	"publishers": paged(func(ctx context.Context, c *client.Client, page int) (*client.Response, error) {
		return c.ListPublishers(ctx, client.PublisherFilter{ListOptions: client.ListOptions{Page: page, PerPage: exportPerPage}})
	}),
	"orders": paged(func(ctx context.Context, c *client.Client, page int) (*client.Response, error) {
		return c.ListPurchaseOrders(ctx, client.OrderFilter{ListOptions: client.ListOptions{Page: page, PerPage: exportPerPage}})
	}),
	"stock-ins": paged(func(ctx context.Context, c *client.Client, page int) (*client.Response, error) {
		return c.ListStockIns(ctx, client.StockInFilter{ListOptions: client.ListOptions{Page: page, PerPage: exportPerPage}})
	}),
	"types":              single((*client.Client).ListTextbookTypes),
	"warnings":           single((*client.Client).InventoryWarnings),
	"stats-by-type":      single((*client.Client).StatisticsByType),
	"stats-by-publisher": single((*client.Client).StatisticsByPublisher),
}

func paged(fetch func(ctx context.Context, c *client.Client, page int) (*client.Response, error)) Source {
	return func(ctx context.Context, c *client.Client) ([]json.RawMessage, error) {
		return client.FetchAllPages(ctx, func(ctx context.Context, page int) (*client.Response, error) {
			return fetch(ctx, c, page)
		})
	}
}

func single(fetch func(c *client.Client, ctx context.Context) (*client.Response, error)) Source {
	return func(ctx context.Context, c *client.Client) ([]json.RawMessage, error) {
		resp, err := fetch(c, ctx)
		if err != nil {
			return nil, err
		}
		return Items(resp)
	}
}

// Items returns the rows of resp; data may be a bare array or a page.
func Items(resp *client.Response) ([]json.RawMessage, error) {
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(resp.Data, &items); err == nil {
		return items, nil
	}
	page, err := resp.Page()
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Resources lists the exportable resource names in sorted order.
func Resources() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Fetch loads every row of the named resource.
func Fetch(ctx context.Context, c *client.Client, resource string) ([]json.RawMessage, error) {
	src, ok := sources[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (choose from %s)", resource, strings.Join(Resources(), ", "))
	}
	return src(ctx, c)
}
