package ui

import (
	"net/http"
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

type textbooksView struct {
	Keyword    string
	Records    []map[string]any
	Pagination client.Pagination
	ShowCreate bool
}

func textbooksPage(r *http.Request, v textbooksView) gomponents.Node {
	user := currentUser(r.Context())

	columns := []column{
		textColumn("ISBN", "isbn"),
		textColumn("教材名称", "textbook_name"),
		textColumn("作者", "author"),
		textColumn("出版社", "publisher_name"),
		textColumn("类型", "type_name"),
		{Label: "价格", Render: func(rec map[string]any) gomponents.Node {
			return gomponents.Text(FormatMoney(rec["price"]))
		}},
		{Label: "出版日期", Render: func(rec map[string]any) gomponents.Node {
			return gomponents.Text(FormatDate(client.ExtractField(rec, "publication_date")))
		}},
		textColumn("库存", "current_quantity"),
		{Label: "操作", Render: func(rec map[string]any) gomponents.Node {
			id := strconv.Itoa(intField(rec, "textbook_id"))
			return actionFormWithPermission(r, "/ui/textbooks/"+id+"/delete",
				Button{Label: `<i class="fas fa-trash"></i> 删除`, Class: "btn btn-sm btn-danger", Attrs: []gomponents.Node{
					gomponents.Attr("onclick", "return confirm('确定要删除该教材吗？');"),
				}},
				user, CanManageBasicData)
		}},
	}

	return appPage(r, "教材管理", "textbooks",
		card("",
			html.Form(
				html.Method("get"),
				html.Action("/ui/textbooks"),
				html.Class("toolbar"),
				searchInput("keyword", "搜索 ISBN、教材名称或作者", v.Keyword),
				html.Button(html.Type("submit"), html.Class("btn"), html.I(html.Class("fas fa-search")), gomponents.Text(" 搜索")),
				html.A(html.Class("btn"), html.Href("/ui/export/textbooks"), html.I(html.Class("fas fa-file-export")), gomponents.Text(" 导出")),
				HideIfNoPermission(
					html.A(html.Class("btn btn-primary"), html.Href("/ui/textbooks?new=1"), html.I(html.Class("fas fa-plus")), gomponents.Text(" 新增教材")),
					user, CanManageBasicData,
				),
			),
			quickFilter("在当前页中筛选"),
			dataTable(columns, v.Records, rowContains("isbn", "textbook_name", "author", "publisher_name")),
			paginationFooter(r, v.Pagination),
		),
		HideIfNoPermission(textbookModal(r, v.ShowCreate), user, CanManageBasicData),
	)
}

func textbookModal(r *http.Request, open bool) gomponents.Node {
	return Modal("textbook-modal", open, "新增教材", "/ui/textbooks",
		html.Form(
			html.Method("post"),
			html.Action("/ui/textbooks"),
			html.Class("modal-form"),
			csrfField(r),
			labeledInput("ISBN", "isbn", "text", "ISBN + 10 位数字"),
			labeledInput("教材名称", "textbook_name", "text", ""),
			labeledInput("作者", "author", "text", ""),
			labeledInput("出版社编号", "publisher_id", "number", ""),
			labeledInput("类型编号", "type_id", "number", ""),
			labeledInput("版次", "edition", "text", ""),
			labeledInput("出版日期", "publication_date", "date", ""),
			labeledInput("价格", "price", "number", "0.00"),
			html.Label(html.For("description"), gomponents.Text("简介")),
			html.Textarea(html.ID("description"), html.Name("description")),
			Button{Label: `<i class="fas fa-save"></i> 保存`, Class: "btn btn-primary"}.Node(),
		),
	)
}

func labeledInput(label, name, typ, placeholder string) gomponents.Node {
	return gomponents.Group([]gomponents.Node{
		html.Label(html.For(name), gomponents.Text(label)),
		html.Input(
			html.ID(name),
			html.Name(name),
			html.Type(typ),
			gomponents.If(typ == "number", html.Step("any")),
			gomponents.If(placeholder != "", html.Placeholder(placeholder)),
		),
	})
}

// actionFormWithPermission renders a one-button POST form; the button is
// dimmed and inert when check fails.
func actionFormWithPermission(r *http.Request, action string, b Button, user *client.User, check Check, extra ...gomponents.Node) gomponents.Node {
	if !check(user) {
		return DisableIfNoPermission(b, user, check, "")
	}
	return actionForm(r, action, b, extra...)
}

func paginationFooter(r *http.Request, p client.Pagination) gomponents.Node {
	if p.Pages <= 1 {
		return html.P(html.Class("muted"), gomponents.Text("共 "+strconv.Itoa(p.Total)+" 条"))
	}
	current := p.Page
	if current < 1 {
		current = pageFromRequest(r)
	}
	return html.Div(
		html.Class("pagination-footer"),
		html.Span(html.Class("muted"), gomponents.Text("共 "+strconv.Itoa(p.Total)+" 条")),
		Pagination(current, p.Pages, pageHref(r)),
	)
}
