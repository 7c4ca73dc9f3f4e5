package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"textbook-admin/pkg/client"
)

var orderFields = []string{"textbook_id", "order_quantity", "expected_date", "remarks"}

func orderFilterFromRequest(r *http.Request) client.OrderFilter {
	q := r.URL.Query()
	return client.OrderFilter{
		ListOptions: client.ListOptions{Page: pageFromRequest(r), PerPage: defaultPerPage},
		Status:      strings.TrimSpace(q.Get("status")),
		Keyword:     strings.TrimSpace(q.Get("keyword")),
		StartDate:   strings.TrimSpace(q.Get("start_date")),
		EndDate:     strings.TrimSpace(q.Get("end_date")),
	}
}

func (h *Handler) OrdersList(w http.ResponseWriter, r *http.Request) error {
	filter := orderFilterFromRequest(r)
	resp, err := backendFromContext(r.Context()).ListPurchaseOrders(r.Context(), filter)
	if err != nil {
		return err
	}
	page, err := resp.Page()
	if err != nil {
		return err
	}
	records, err := decodeItems(page.Items)
	if err != nil {
		return err
	}

	renderHTML(w, http.StatusOK, ordersPage(r, ordersView{
		Filter:     filter,
		Records:    records,
		Pagination: page.Pagination,
		ShowCreate: r.URL.Query().Get("new") == "1",
	}))
	return nil
}

func (h *Handler) OrderCreate(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "/ui/orders?new=1", "表单无效", MessageError)
		return nil
	}
	values := formValues(r, orderFields...)
	if errs := ValidateForm(values, OrderRules); len(errs) > 0 {
		redirectWithMessage(w, r, "/ui/orders?new=1", strings.Join(errs, "；"), MessageError)
		return nil
	}

	body := map[string]any{}
	for k, v := range values {
		if v == "" {
			continue
		}
		if k == "textbook_id" || k == "order_quantity" {
			n, _ := strconv.Atoi(v)
			body[k] = n
			continue
		}
		body[k] = v
	}

	return h.orderAction(w, r, CanCreateOrder, "订单已创建", "创建失败", func(c *client.Client) error {
		_, err := c.CreatePurchaseOrder(r.Context(), body)
		return err
	})
}

func (h *Handler) OrderApprove(w http.ResponseWriter, r *http.Request) error {
	id, ok := orderID(w, r)
	if !ok {
		return nil
	}
	approver := currentUser(r.Context()).DisplayName()
	return h.orderAction(w, r, IsAdminOrWarehouse, "订单已审核", "审核失败", func(c *client.Client) error {
		_, err := c.ApprovePurchaseOrder(r.Context(), id, approver)
		return err
	})
}

func (h *Handler) OrderCancel(w http.ResponseWriter, r *http.Request) error {
	id, ok := orderID(w, r)
	if !ok {
		return nil
	}
	_ = r.ParseForm()
	reason := strings.TrimSpace(r.Form.Get("reason"))
	return h.orderAction(w, r, CanCreateOrder, "订单已取消", "取消失败", func(c *client.Client) error {
		_, err := c.CancelPurchaseOrder(r.Context(), id, reason)
		return err
	})
}

func (h *Handler) OrderDeliver(w http.ResponseWriter, r *http.Request) error {
	id, ok := orderID(w, r)
	if !ok {
		return nil
	}
	return h.orderAction(w, r, IsAdminOrWarehouse, "订单已发放", "发放失败", func(c *client.Client) error {
		_, err := c.DeliverPurchaseOrder(r.Context(), id)
		return err
	})
}

// orderAction runs call when check passes and redirects back to the order
// list with the outcome. A refused check becomes a warning toast.
func (h *Handler) orderAction(w http.ResponseWriter, r *http.Request, check Check, okMsg, failMsg string, call func(*client.Client) error) error {
	c := backendFromContext(r.Context())
	denied, err := CheckPermissionBeforeAction(currentUser(r.Context()), check, func() error { return call(c) }, "")
	switch {
	case denied != nil:
		redirectWithMessage(w, r, "/ui/orders", defaultDeniedMessage, MessageWarning)
	case client.IsSessionExpired(err):
		return err
	case err != nil:
		redirectWithMessage(w, r, "/ui/orders", ErrorMessage(err, failMsg), MessageError)
	default:
		redirectWithMessage(w, r, "/ui/orders", okMsg, MessageSuccess)
	}
	return nil
}

func orderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		redirectWithMessage(w, r, "/ui/orders", "无效的订单编号", MessageError)
		return 0, false
	}
	return id, true
}
