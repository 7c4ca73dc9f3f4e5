package ui

import (
	"net/http"

	"textbook-admin/pkg/client"
)

type sessionResponse struct {
	User        *client.User    `json:"user"`
	Permissions map[string]bool `json:"permissions"`
}

var sessionChecks = map[string]Check{
	"is_admin":              IsAdmin,
	"is_admin_or_warehouse": IsAdminOrWarehouse,
	"is_teacher_or_above":   IsTeacherOrAbove,
	"can_view_orders":       CanViewOrders,
	"can_create_order":      CanCreateOrder,
	"can_view_statistics":   CanViewStatistics,
	"can_manage_basic_data": CanManageBasicData,
}

// SessionInfo reports the signed-in user and the permission flags the
// interface uses to show or hide controls.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	if c := backendFromContext(r.Context()); c == nil || !c.Session().Valid() {
		renderJSON(w, http.StatusUnauthorized, map[string]string{"message": "未登录"})
		return
	}
	user := currentUser(r.Context())
	renderJSON(w, http.StatusOK, sessionResponse{
		User:        user,
		Permissions: ApplyPermissions(user, sessionChecks),
	})
}
