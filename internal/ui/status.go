package ui

import (
	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

// Status is a workflow label as sent by the backend. The set is closed;
// payload strings outside it only reach the renderer through BadgeClass and
// StatusBadge, which fall back to the info style.
type Status string

const (
	StatusPendingReview  Status = "待审核"
	StatusReviewed       Status = "已审核"
	StatusOrdered        Status = "已订购"
	StatusPartialArrival Status = "部分到货"
	StatusArrived        Status = "已到货"
	StatusDelivered      Status = "已发放"
	StatusCancelled      Status = "已取消"

	StatusPendingApproval Status = "待审批"
	StatusApproved        Status = "已审批"
	StatusRejected        Status = "已拒绝"

	StatusStockNormal Status = "正常"
	StatusStockLow    Status = "库存不足"
	StatusStockHigh   Status = "库存过多"
)

var knownStatuses = []Status{
	StatusPendingReview,
	StatusReviewed,
	StatusOrdered,
	StatusPartialArrival,
	StatusArrived,
	StatusDelivered,
	StatusCancelled,
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusStockNormal,
	StatusStockLow,
	StatusStockHigh,
}

const (
	fallbackBadgeClass = "badge-info"
	fallbackStatusIcon = "fa-circle"
)

// OrderStatuses lists the purchase order workflow in order, for filters.
var OrderStatuses = []Status{
	StatusPendingReview,
	StatusReviewed,
	StatusOrdered,
	StatusPartialArrival,
	StatusArrived,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus reports whether s is one of the known status labels.
func ParseStatus(s string) (Status, bool) {
	for _, known := range knownStatuses {
		if string(known) == s {
			return known, true
		}
	}
	return "", false
}

// BadgeClass returns the badge-* class the status is rendered with.
func (s Status) BadgeClass() string {
	switch s {
	case StatusPendingReview, StatusPartialArrival, StatusPendingApproval, StatusStockHigh:
		return "badge-warning"
	case StatusReviewed, StatusOrdered, StatusApproved:
		return "badge-info"
	case StatusArrived, StatusDelivered, StatusStockNormal:
		return "badge-success"
	case StatusCancelled, StatusRejected, StatusStockLow:
		return "badge-danger"
	}
	return fallbackBadgeClass
}

// Icon returns the Font Awesome icon class shown beside the status.
func (s Status) Icon() string {
	switch s {
	case StatusPendingReview:
		return "fa-clock"
	case StatusReviewed:
		return "fa-check"
	case StatusOrdered:
		return "fa-shopping-cart"
	case StatusPartialArrival:
		return "fa-truck"
	case StatusArrived:
		return "fa-box"
	case StatusDelivered:
		return "fa-paper-plane"
	case StatusCancelled:
		return "fa-times"
	case StatusPendingApproval:
		return "fa-hourglass-half"
	case StatusApproved:
		return "fa-check-double"
	case StatusRejected:
		return "fa-ban"
	case StatusStockNormal:
		return "fa-check-circle"
	case StatusStockLow:
		return "fa-exclamation-triangle"
	case StatusStockHigh:
		return "fa-boxes"
	}
	return fallbackStatusIcon
}

// BadgeClass maps a raw status label to its badge CSS class.
func BadgeClass(status string) string {
	if s, ok := ParseStatus(status); ok {
		return s.BadgeClass()
	}
	return fallbackBadgeClass
}

// StatusIcon maps a raw status label to its Font Awesome icon class.
func StatusIcon(status string) string {
	if s, ok := ParseStatus(status); ok {
		return s.Icon()
	}
	return fallbackStatusIcon
}

// StatusBadge renders <span class="badge badge-*"><i class="fas fa-*"></i> status</span>.
func StatusBadge(status string) gomponents.Node {
	return html.Span(
		html.Class("badge "+BadgeClass(status)),
		html.I(html.Class("fas "+StatusIcon(status))),
		gomponents.Text(" "+status),
	)
}
