package ui

import (
	"slices"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"textbook-admin/pkg/client"
)

// Role is a user role as the backend names it.
type Role string

const (
	RoleAdmin     Role = "管理员"
	RoleWarehouse Role = "仓库管理员"
	RoleTeacher   Role = "教师"
	RoleRegular   Role = "普通用户"
)

const defaultDeniedMessage = "您没有此操作的权限"

// Check reports whether a user may perform an action. These checks only
// shape the interface; the backend enforces access.
type Check func(*client.User) bool

// PermissionError is returned when a local check refuses an action before
// any request is made.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

// HasRole reports whether u holds one of roles. A nil user has none.
func HasRole(u *client.User, roles ...Role) bool {
	if u == nil || u.Role == "" {
		return false
	}
	return slices.Contains(roles, Role(u.Role))
}

// IsAdmin holds for 管理员 only.
func IsAdmin(u *client.User) bool {
	return HasRole(u, RoleAdmin)
}

// IsAdminOrWarehouse gates approve, deliver and stock-in writes.
func IsAdminOrWarehouse(u *client.User) bool {
	return HasRole(u, RoleAdmin, RoleWarehouse)
}

// IsTeacherOrAbove excludes only 普通用户.
func IsTeacherOrAbove(u *client.User) bool {
	return HasRole(u, RoleAdmin, RoleWarehouse, RoleTeacher)
}

// CanViewOrders holds for any signed-in user with a role.
func CanViewOrders(u *client.User) bool {
	return u != nil && u.Role != ""
}

// CanCreateOrder also gates cancel; the backend decides ownership and
// whether the order can still be cancelled.
func CanCreateOrder(u *client.User) bool {
	return HasRole(u, RoleAdmin, RoleWarehouse, RoleTeacher, RoleRegular)
}

func CanViewStatistics(u *client.User) bool {
	return u != nil && u.Role != ""
}

// CanManageBasicData covers textbooks, publishers and textbook types.
func CanManageBasicData(u *client.User) bool {
	return IsAdmin(u)
}

// HideIfNoPermission renders node only when check passes.
func HideIfNoPermission(node gomponents.Node, u *client.User, check Check) gomponents.Node {
	if check(u) {
		return node
	}
	return nil
}

// DisableIfNoPermission renders b disabled and dimmed when check fails.
// Clicking the dimmed control shows tooltip as a warning toast.
func DisableIfNoPermission(b Button, u *client.User, check Check, tooltip string) gomponents.Node {
	if check(u) {
		return b.Node()
	}
	if tooltip == "" {
		tooltip = defaultDeniedMessage
	}
	b.Disabled = true
	b.Attrs = append(b.Attrs,
		html.Style("opacity:0.5;cursor:not-allowed;"),
		html.Title(tooltip),
	)
	return html.Span(
		html.Class("permission-denied"),
		gomponents.Attr("data-denied-message", tooltip),
		b.Node(),
	)
}

// ApplyPermissions evaluates a set of named checks at once. Controls whose
// flag is false are left out of the page.
func ApplyPermissions(u *client.User, checks map[string]Check) map[string]bool {
	flags := make(map[string]bool, len(checks))
	for name, check := range checks {
		flags[name] = check(u)
	}
	return flags
}

// RequirePermission returns a *PermissionError carrying message when check
// fails.
func RequirePermission(u *client.User, check Check, message string) error {
	if check(u) {
		return nil
	}
	if message == "" {
		message = defaultDeniedMessage
	}
	return &PermissionError{Message: message}
}

// CheckPermissionBeforeAction runs action when check passes. Otherwise the
// action is skipped and a warning toast is returned in its place.
func CheckPermissionBeforeAction(u *client.User, check Check, action func() error, message string) (gomponents.Node, error) {
	if err := RequirePermission(u, check, message); err != nil {
		return Toast(err.Error(), MessageWarning), nil
	}
	return nil, action()
}
