package ui

import (
	"net/http"
	"strconv"
	"strings"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

type navItem struct {
	Label string
	Href  string
	Key   string
	Icon  string
	Check Check
}

var navItems = []navItem{
	{Label: "首页", Href: "/ui", Key: "home", Icon: "fa-home", Check: CanViewStatistics},
	{Label: "教材管理", Href: "/ui/textbooks", Key: "textbooks", Icon: "fa-book", Check: CanViewOrders},
	{Label: "采购订单", Href: "/ui/orders", Key: "orders", Icon: "fa-shopping-cart", Check: CanViewOrders},
	{Label: "入库管理", Href: "/ui/stock-ins", Key: "stock-ins", Icon: "fa-warehouse", Check: IsAdminOrWarehouse},
}

// Shows a warning toast when a control dimmed by DisableIfNoPermission is
// clicked.
const deniedClickScript = `document.addEventListener('click',function(e){var t=e.target instanceof Element?e.target.closest('[data-denied-message]'):null;if(!t){return;}e.preventDefault();e.stopPropagation();var d=document.createElement('div');d.className='alert alert-warning';d.setAttribute('role','alert');d.style.cssText='` + toastStyle + `';d.innerHTML='<i class="fas fa-exclamation-circle"></i> ';d.appendChild(document.createTextNode(t.dataset.deniedMessage));document.body.appendChild(d);setTimeout(function(){d.style.opacity='0';d.style.transform='translateX(20px)';setTimeout(function(){d.remove();},300);},3000);},true);`

func pageHead(title string) gomponents.Node {
	return html.Head(
		html.Meta(html.Charset("utf-8")),
		html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
		html.TitleEl(gomponents.Text(title+" | 教材管理系统")),
		html.Link(html.Rel("icon"), html.Href("data:,")),
		html.Link(html.Rel("stylesheet"), html.Href("https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css")),
		html.Link(html.Rel("stylesheet"), html.Href(stylesheetHref())),
		html.Script(
			html.Type("module"),
			html.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"),
		),
	)
}

func appPage(r *http.Request, title, active string, body ...gomponents.Node) gomponents.Node {
	user := currentUser(r.Context())
	checks := make(map[string]Check, len(navItems))
	for _, item := range navItems {
		checks[item.Key] = item.Check
	}
	visible := ApplyPermissions(user, checks)

	nav := make([]gomponents.Node, 0, len(navItems))
	for _, item := range navItems {
		if !visible[item.Key] {
			continue
		}
		className := "app-nav-link"
		if item.Key == active {
			className += " active"
		}
		nav = append(nav, html.A(
			html.Href(item.Href),
			html.Class(className),
			html.I(html.Class("fas "+item.Icon)),
			html.Span(gomponents.Text(" "+item.Label)),
		))
	}

	return html.HTML(
		html.Lang("zh-CN"),
		pageHead(title),
		html.Body(
			flashFromRequest(r),
			html.Main(html.Class("app-shell"),
				html.Aside(
					html.Class("app-sidebar"),
					html.Div(html.Class("brand"), html.Strong(gomponents.Text("教材管理系统"))),
					html.Nav(html.Class("app-nav"), gomponents.Group(nav)),
				),
				html.Section(
					html.Class("app-main"),
					html.Div(
						html.Class("topbar"),
						html.H1(html.Class("page-title"), gomponents.Text(title)),
						userBox(r, user),
					),
					html.Div(html.Class("content"), gomponents.Group(body)),
				),
			),
			html.Script(gomponents.Raw(loadingOnSubmit)),
			html.Script(gomponents.Raw(deniedClickScript)),
		),
	)
}

func userBox(r *http.Request, user *client.User) gomponents.Node {
	role := "-"
	if user != nil && user.Role != "" {
		role = user.Role
	}
	return html.Div(
		html.Class("user-box"),
		html.Span(html.Class("muted"), gomponents.Text(user.DisplayName()+"（"+role+"）")),
		html.Form(
			html.Method("post"),
			html.Action("/logout"),
			gomponents.Attr("onsubmit", "return confirm('确定要退出登录吗？');"),
			csrfField(r),
			html.Button(html.Type("submit"), html.Class("btn btn-sm"), html.I(html.Class("fas fa-sign-out-alt")), gomponents.Text(" 退出")),
		),
	)
}

func errorPage(title, message string) gomponents.Node {
	return html.HTML(
		html.Lang("zh-CN"),
		pageHead(title),
		html.Body(
			html.Main(
				html.Class("layout"),
				html.H1(html.Class("page-title"), gomponents.Text(title)),
				html.Div(html.Class("alert alert-error"), html.I(html.Class("fas fa-times-circle")), gomponents.Text(" "+message)),
				html.P(html.A(html.Href("/ui"), gomponents.Text("返回首页"))),
			),
		),
	)
}

func card(title string, body ...gomponents.Node) gomponents.Node {
	return html.Div(
		html.Class("card"),
		gomponents.If(title != "", html.H2(gomponents.Text(title))),
		gomponents.Group(body),
	)
}

type column struct {
	Label  string
	Render func(rec map[string]any) gomponents.Node
}

func textColumn(label, key string) column {
	return column{Label: label, Render: func(rec map[string]any) gomponents.Node {
		return gomponents.Text(field(rec, key))
	}}
}

func dataTable(columns []column, records []map[string]any, rowFilter func(rec map[string]any) string) gomponents.Node {
	head := make([]gomponents.Node, 0, len(columns))
	for _, c := range columns {
		head = append(head, html.Th(gomponents.Text(c.Label)))
	}
	rows := make([]gomponents.Node, 0, len(records))
	for _, rec := range records {
		cells := make([]gomponents.Node, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, html.Td(c.Render(rec)))
		}
		var show gomponents.Node
		if rowFilter != nil {
			show = data.Show(rowFilter(rec))
		}
		rows = append(rows, html.Tr(show, gomponents.Group(cells)))
	}
	if len(rows) == 0 {
		rows = append(rows, html.Tr(html.Td(
			gomponents.Attr("colspan", strconv.Itoa(len(columns))),
			html.Class("muted"),
			gomponents.Text("暂无数据"),
		)))
	}
	return html.Table(html.Class("data-table"), html.THead(html.Tr(gomponents.Group(head))), html.TBody(gomponents.Group(rows)))
}

// quickFilter binds the $q signal that rowContains tests rows against.
func quickFilter(placeholder string) gomponents.Node {
	return html.Div(
		html.Class("quick-filter"),
		data.Signals(map[string]any{"q": ""}),
		html.Input(html.Type("text"), html.Placeholder(placeholder), data.Bind("q")),
	)
}

func rowContains(keys ...string) func(rec map[string]any) string {
	return func(rec map[string]any) string {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, client.ExtractField(rec, k))
		}
		lower := strings.ToLower(strings.Join(parts, " "))
		return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
	}
}

func actionForm(r *http.Request, action string, b Button, extra ...gomponents.Node) gomponents.Node {
	return html.Form(
		html.Method("post"),
		html.Action(action),
		html.Class("inline-form"),
		csrfField(r),
		gomponents.Group(extra),
		b.Node(),
	)
}

func searchInput(name, placeholder, value string) gomponents.Node {
	return html.Input(html.Type("text"), html.Name(name), html.Placeholder(placeholder), html.Value(value))
}

func dateInput(name, value string) gomponents.Node {
	return html.Input(html.Type("date"), html.Name(name), html.Value(value))
}
