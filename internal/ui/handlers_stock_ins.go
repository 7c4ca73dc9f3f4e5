package ui

import (
	"net/http"
	"strings"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

func stockInFilterFromRequest(r *http.Request) client.StockInFilter {
	q := r.URL.Query()
	return client.StockInFilter{
		ListOptions: client.ListOptions{Page: pageFromRequest(r), PerPage: defaultPerPage},
		Keyword:     strings.TrimSpace(q.Get("keyword")),
		StartDate:   strings.TrimSpace(q.Get("start_date")),
		EndDate:     strings.TrimSpace(q.Get("end_date")),
	}
}

func (h *Handler) StockInsList(w http.ResponseWriter, r *http.Request) error {
	filter := stockInFilterFromRequest(r)
	resp, err := backendFromContext(r.Context()).ListStockIns(r.Context(), filter)
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
	renderHTML(w, http.StatusOK, stockInsPage(r, filter, records, page.Pagination))
	return nil
}

func stockInsPage(r *http.Request, f client.StockInFilter, records []map[string]any, p client.Pagination) gomponents.Node {
	columns := []column{
		textColumn("入库单号", "stock_in_no"),
		textColumn("订单号", "order_no"),
		textColumn("教材", "textbook_name"),
		textColumn("ISBN", "isbn"),
		textColumn("入库数量", "stock_in_quantity"),
		textColumn("实收数量", "actual_quantity"),
		{Label: "入库日期", Render: func(rec map[string]any) gomponents.Node {
			return gomponents.Text(FormatDate(client.ExtractField(rec, "stock_in_date")))
		}},
		textColumn("入库人", "warehouse_person"),
		{Label: "质量", Render: func(rec map[string]any) gomponents.Node {
			return StatusBadge(client.ExtractField(rec, "quality_status"))
		}},
	}

	return appPage(r, "入库管理", "stock-ins",
		card("",
			html.Form(
				html.Method("get"),
				html.Action("/ui/stock-ins"),
				html.Class("toolbar"),
				searchInput("keyword", "入库单号或教材名称", f.Keyword),
				dateInput("start_date", f.StartDate),
				dateInput("end_date", f.EndDate),
				html.Button(html.Type("submit"), html.Class("btn"), html.I(html.Class("fas fa-search")), gomponents.Text(" 查询")),
				html.A(html.Class("btn"), html.Href("/ui/export/stock-ins"), html.I(html.Class("fas fa-file-export")), gomponents.Text(" 导出")),
			),
			dataTable(columns, records, nil),
			paginationFooter(r, p),
		),
	)
}
