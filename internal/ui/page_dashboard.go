package ui

import (
	"net/http"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

type statCard struct {
	Label string
	Icon  string
	Value string
}

func dashboardPage(r *http.Request, stats map[string]any, warnings []map[string]any) gomponents.Node {
	cards := []statCard{
		{Label: "教材总数", Icon: "fa-book", Value: field(stats, "textbook_count")},
		{Label: "待处理订单", Icon: "fa-clock", Value: field(stats, "pending_orders")},
		{Label: "库存总值", Icon: "fa-yen-sign", Value: FormatMoney(stats["inventory_value"])},
		{Label: "库存预警", Icon: "fa-exclamation-triangle", Value: field(stats, "warning_count")},
	}
	statNodes := make([]gomponents.Node, 0, len(cards))
	for _, c := range cards {
		statNodes = append(statNodes, html.Div(
			html.Class("stat-card"),
			html.I(html.Class("fas "+c.Icon)),
			html.Div(html.Class("stat-value"), gomponents.Text(c.Value)),
			html.Div(html.Class("stat-label"), gomponents.Text(c.Label)),
		))
	}

	warningColumns := []column{
		textColumn("ISBN", "isbn"),
		textColumn("教材名称", "textbook_name"),
		textColumn("出版社", "publisher_name"),
		textColumn("当前库存", "current_quantity"),
		textColumn("最低库存", "min_quantity"),
		textColumn("最高库存", "max_quantity"),
		{Label: "状态", Render: func(rec map[string]any) gomponents.Node {
			return StatusBadge(client.ExtractField(rec, "status"))
		}},
	}

	return appPage(r, "首页", "home",
		html.Div(html.Class("stat-grid"), gomponents.Group(statNodes)),
		card("库存预警",
			html.P(html.A(html.Class("btn btn-sm"), html.Href("/ui/export/warnings"), html.I(html.Class("fas fa-file-export")), gomponents.Text(" 导出"))),
			dataTable(warningColumns, warnings, nil),
		),
	)
}
