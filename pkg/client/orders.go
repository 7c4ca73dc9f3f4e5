package client

import (
	"context"
)

// OrderFilter narrows GET /purchase-orders.
type OrderFilter struct {
	ListOptions
	Status    string
	Keyword   string
	StartDate string
	EndDate   string
}

// ListPurchaseOrders returns one page of purchase orders visible to the
// caller.
func (c *Client) ListPurchaseOrders(ctx context.Context, f OrderFilter) (*Response, error) {
	q := f.values(10)
	setIf(q, "status", f.Status)
	setIf(q, "keyword", f.Keyword)
	setIf(q, "start_date", f.StartDate)
	setIf(q, "end_date", f.EndDate)
	return c.get(ctx, "/purchase-orders", q)
}

func (c *Client) GetPurchaseOrder(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/purchase-orders", id), nil)
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/purchase-orders", body)
}

func (c *Client) UpdatePurchaseOrder(ctx context.Context, id int, body any) (*Response, error) {
	return c.put(ctx, idPath("/purchase-orders", id), body)
}

// ApprovePurchaseOrder moves an order out of review. Transition rules are
// enforced by the backend.
func (c *Client) ApprovePurchaseOrder(ctx context.Context, id int, approver string) (*Response, error) {
	return c.post(ctx, idPath("/purchase-orders", id)+"/approve", map[string]string{"approver": approver})
}

func (c *Client) CancelPurchaseOrder(ctx context.Context, id int, reason string) (*Response, error) {
	return c.post(ctx, idPath("/purchase-orders", id)+"/cancel", map[string]string{"reason": reason})
}

func (c *Client) DeliverPurchaseOrder(ctx context.Context, id int) (*Response, error) {
	return c.post(ctx, idPath("/purchase-orders", id)+"/deliver", map[string]any{})
}

// StockInFilter narrows GET /stock-ins.
type StockInFilter struct {
	ListOptions
	Keyword   string
	StartDate string
	EndDate   string
}

func (c *Client) ListStockIns(ctx context.Context, f StockInFilter) (*Response, error) {
	q := f.values(10)
	setIf(q, "keyword", f.Keyword)
	setIf(q, "start_date", f.StartDate)
	setIf(q, "end_date", f.EndDate)
	return c.get(ctx, "/stock-ins", q)
}

func (c *Client) GetStockIn(ctx context.Context, id int) (*Response, error) {
	return c.get(ctx, idPath("/stock-ins", id), nil)
}

func (c *Client) CreateStockIn(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/stock-ins", body)
}

func (c *Client) UpdateStockIn(ctx context.Context, id int, body any) (*Response, error) {
	return c.put(ctx, idPath("/stock-ins", id), body)
}

func (c *Client) DeleteStockIn(ctx context.Context, id int) (*Response, error) {
	return c.delete(ctx, idPath("/stock-ins", id))
}

// DirectStockIn receives stock without a prior order; the backend creates
// the order and the receipt together.
func (c *Client) DirectStockIn(ctx context.Context, body any) (*Response, error) {
	return c.post(ctx, "/stock-ins/direct", body)
}
