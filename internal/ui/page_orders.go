package ui

import (
	"net/http"
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

type ordersView struct {
	Filter     client.OrderFilter
	Records    []map[string]any
	Pagination client.Pagination
	ShowCreate bool
}

func ordersPage(r *http.Request, v ordersView) gomponents.Node {
	user := currentUser(r.Context())

	columns := []column{
		textColumn("订单号", "order_no"),
		textColumn("教材", "textbook_name"),
		textColumn("ISBN", "isbn"),
		textColumn("订购数量", "order_quantity"),
		textColumn("到货数量", "arrived_quantity"),
		textColumn("订购人", "order_person"),
		{Label: "订购日期", Render: func(rec map[string]any) gomponents.Node {
			return gomponents.Text(FormatDate(client.ExtractField(rec, "order_date")))
		}},
		{Label: "状态", Render: func(rec map[string]any) gomponents.Node {
			return StatusBadge(client.ExtractField(rec, "order_status"))
		}},
		{Label: "操作", Render: func(rec map[string]any) gomponents.Node {
			return orderActions(r, user, rec)
		}},
	}

	return appPage(r, "采购订单", "orders",
		card("",
			orderFilterForm(v.Filter),
			HideIfNoPermission(
				html.P(html.A(html.Class("btn btn-primary"), html.Href("/ui/orders?new=1"), html.I(html.Class("fas fa-plus")), gomponents.Text(" 新建订单"))),
				user, CanCreateOrder,
			),
			quickFilter("在当前页中筛选"),
			dataTable(columns, v.Records, rowContains("order_no", "textbook_name", "isbn", "order_person")),
			paginationFooter(r, v.Pagination),
		),
		HideIfNoPermission(orderModal(r, v.ShowCreate), user, CanCreateOrder),
	)
}

func orderFilterForm(f client.OrderFilter) gomponents.Node {
	options := []gomponents.Node{html.Option(html.Value(""), gomponents.Text("全部状态"))}
	for _, s := range OrderStatuses {
		options = append(options, html.Option(
			html.Value(string(s)),
			gomponents.If(string(s) == f.Status, html.Selected()),
			gomponents.Text(string(s)),
		))
	}
	return html.Form(
		html.Method("get"),
		html.Action("/ui/orders"),
		html.Class("toolbar"),
		html.Select(html.Name("status"), gomponents.Group(options)),
		searchInput("keyword", "订单号或教材名称", f.Keyword),
		dateInput("start_date", f.StartDate),
		dateInput("end_date", f.EndDate),
		html.Button(html.Type("submit"), html.Class("btn"), html.I(html.Class("fas fa-search")), gomponents.Text(" 查询")),
		html.A(html.Class("btn"), html.Href("/ui/export/orders"), html.I(html.Class("fas fa-file-export")), gomponents.Text(" 导出")),
	)
}

// orderActions offers the transitions valid for the order's status.
func orderActions(r *http.Request, user *client.User, rec map[string]any) gomponents.Node {
	base := "/ui/orders/" + strconv.Itoa(intField(rec, "order_id"))
	status, _ := ParseStatus(client.ExtractField(rec, "order_status"))

	var nodes []gomponents.Node
	switch status {
	case StatusPendingReview:
		nodes = append(nodes,
			actionFormWithPermission(r, base+"/approve", Button{Label: `<i class="fas fa-check"></i> 审核`, Class: "btn btn-sm btn-success"}, user, IsAdminOrWarehouse),
			cancelForm(r, base, user),
		)
	case StatusReviewed, StatusOrdered:
		nodes = append(nodes, cancelForm(r, base, user))
	case StatusArrived:
		nodes = append(nodes,
			actionFormWithPermission(r, base+"/deliver", Button{Label: `<i class="fas fa-paper-plane"></i> 发放`, Class: "btn btn-sm btn-primary"}, user, IsAdminOrWarehouse),
		)
	}
	if len(nodes) == 0 {
		return gomponents.Text("-")
	}
	return html.Div(html.Class("row-actions"), gomponents.Group(nodes))
}

func cancelForm(r *http.Request, base string, user *client.User) gomponents.Node {
	return actionFormWithPermission(r, base+"/cancel",
		Button{Label: `<i class="fas fa-times"></i> 取消`, Class: "btn btn-sm btn-danger"},
		user, CanCreateOrder,
		html.Input(html.Type("text"), html.Name("reason"), html.Placeholder("取消原因"), html.Class("input-sm")),
	)
}

func orderModal(r *http.Request, open bool) gomponents.Node {
	return Modal("order-modal", open, "新建采购订单", "/ui/orders",
		html.Form(
			html.Method("post"),
			html.Action("/ui/orders"),
			html.Class("modal-form"),
			csrfField(r),
			labeledInput("教材编号", "textbook_id", "number", ""),
			labeledInput("订购数量", "order_quantity", "number", ""),
			labeledInput("预计到货日期", "expected_date", "date", ""),
			html.Label(html.For("remarks"), gomponents.Text("备注")),
			html.Textarea(html.ID("remarks"), html.Name("remarks")),
			Button{Label: `<i class="fas fa-save"></i> 提交`, Class: "btn btn-primary"}.Node(),
		),
	)
}
