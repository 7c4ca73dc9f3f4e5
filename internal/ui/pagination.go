package ui

import (
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const pageButtons = 5

// PageWindow returns the inclusive range of page buttons to show: at most
// five, centred on current where possible and clamped to [1,total].
func PageWindow(current, total int) (start, end int) {
	start = max(1, current-pageButtons/2)
	end = min(total, start+pageButtons-1)
	if end-start < pageButtons-1 {
		start = max(1, end-pageButtons+1)
	}
	return start, end
}

// Pagination renders prev, the page window and next. href maps a page
// number to the link target of its control.
func Pagination(current, total int, href func(page int) string) gomponents.Node {
	nodes := []gomponents.Node{pageControl("上一页", current-1, current == 1, false, href)}
	start, end := PageWindow(current, total)
	for i := start; i <= end; i++ {
		nodes = append(nodes, pageControl(strconv.Itoa(i), i, false, i == current, href))
	}
	nodes = append(nodes, pageControl("下一页", current+1, current == total, false, href))
	return html.Div(html.Class("pagination"), gomponents.Group(nodes))
}

func pageControl(label string, page int, disabled, active bool, href func(int) string) gomponents.Node {
	if disabled {
		return html.Button(html.Type("button"), html.Disabled(), gomponents.Text(label))
	}
	return html.A(
		html.Href(href(page)),
		gomponents.If(active, html.Class("active")),
		gomponents.Text(label),
	)
}
