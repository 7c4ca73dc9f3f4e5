package ui

import (
	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const loadingLabel = `<span class="loading"></span> 加载中...`

// Button is a submit control whose Label is trusted HTML.
type Button struct {
	ID       string
	Label    string
	Class    string
	Disabled bool
	Attrs    []gomponents.Node
}

// ShowLoading disables b and swaps its label for the spinner, returning the
// label it replaced.
func ShowLoading(b *Button) string {
	original := b.Label
	b.Disabled = true
	b.Label = loadingLabel
	return original
}

// HideLoading re-enables b and restores the label saved by ShowLoading.
func HideLoading(b *Button, original string) {
	b.Disabled = false
	b.Label = original
}

// Node renders b as a <button>.
func (b Button) Node() gomponents.Node {
	class := b.Class
	if class == "" {
		class = "btn"
	}
	return html.Button(
		html.Type("submit"),
		html.Class(class),
		gomponents.If(b.ID != "", html.ID(b.ID)),
		gomponents.If(b.Disabled, html.Disabled()),
		gomponents.Group(b.Attrs),
		gomponents.Raw(b.Label),
	)
}

// loadingOnSubmit swaps a form's submit button into its loading state when
// the form is sent, matching ShowLoading for round trips.
const loadingOnSubmit = `document.addEventListener('submit',function(e){var b=e.target.querySelector('button[type=submit]');if(b&&!b.disabled){b.dataset.label=b.innerHTML;b.disabled=true;b.innerHTML='` + loadingLabel + `';}});`
