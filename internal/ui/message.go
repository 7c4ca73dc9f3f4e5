package ui

import (
	"errors"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

// MessageType selects the alert style and icon of a toast.
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
	MessageWarning MessageType = "warning"
	MessageInfo    MessageType = "info"
)

const toastStyle = "position:fixed;top:20px;right:20px;z-index:9999;min-width:300px;max-width:400px;box-shadow:0 4px 12px rgba(0,0,0,0.15);transition:all 0.3s ease;"

// Dismisses the enclosing toast after 3s with a 0.3s fade and slide.
const toastDismissScript = `(function(el){setTimeout(function(){el.style.opacity='0';el.style.transform='translateX(20px)';setTimeout(function(){el.remove();},300);},3000);})(document.currentScript.parentElement);`

// Icon returns the Font Awesome class for t, the info icon when unknown.
func (t MessageType) Icon() string {
	switch t {
	case MessageSuccess:
		return "fa-check-circle"
	case MessageError:
		return "fa-times-circle"
	case MessageWarning:
		return "fa-exclamation-circle"
	default:
		return "fa-info-circle"
	}
}

// Toast renders a floating alert that removes itself after three seconds.
// An empty type renders as info; any other type keeps its own alert class.
func Toast(message string, t MessageType) gomponents.Node {
	if t == "" {
		t = MessageInfo
	}
	return html.Div(
		html.Class("alert alert-"+string(t)),
		html.Role("alert"),
		html.Style(toastStyle),
		html.I(html.Class("fas "+t.Icon())),
		gomponents.Text(" "+message),
		html.Script(gomponents.Raw(toastDismissScript)),
	)
}

// HandleError turns a failed call into an error toast, preferring the
// server's message over fallback. Session expiry is handled by the
// interceptor before rendering and never reaches here.
func HandleError(err error, fallback string) gomponents.Node {
	return Toast(ErrorMessage(err, fallback), MessageError)
}

// ErrorMessage is the text shown for err: the backend message, else the
// error text, else fallback.
func ErrorMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = "操作失败"
	}
	if err == nil {
		return fallback
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
