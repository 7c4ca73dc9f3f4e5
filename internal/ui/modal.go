package ui

import (
	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

// Modal renders a dialog container with the given id. The "show" class is
// present only when open; closeHref is where the close control navigates.
func Modal(id string, open bool, title, closeHref string, body ...gomponents.Node) gomponents.Node {
	class := "modal"
	if open {
		class += " show"
	}
	return html.Div(
		html.ID(id),
		html.Class(class),
		html.Div(
			html.Class("modal-content"),
			html.Div(
				html.Class("modal-header"),
				html.H3(gomponents.Text(title)),
				html.A(html.Class("close"), html.Href(closeHref), gomponents.Raw("&times;")),
			),
			html.Div(html.Class("modal-body"), gomponents.Group(body)),
		),
	)
}
