package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook-admin/pkg/client"
)

func userWithRole(role string) *client.User {
	return &client.User{Username: "u", Role: role}
}

func TestPermissionChecks(t *testing.T) {
	type want struct {
		admin, adminOrWarehouse, teacherOrAbove, viewOrders, createOrder, viewStats, manageBasic bool
	}
	tests := []struct {
		name string
		user *client.User
		want want
	}{
		{"admin", userWithRole("管理员"), want{true, true, true, true, true, true, true}},
		{"warehouse", userWithRole("仓库管理员"), want{false, true, true, true, true, true, false}},
		{"teacher", userWithRole("教师"), want{false, false, true, true, true, true, false}},
		{"regular", userWithRole("普通用户"), want{false, false, false, true, true, true, false}},
		{"unknown role", userWithRole("访客"), want{false, false, false, true, false, true, false}},
		{"no role", userWithRole(""), want{}},
		{"signed out", nil, want{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.admin, IsAdmin(tt.user), "IsAdmin")
			assert.Equal(t, tt.want.adminOrWarehouse, IsAdminOrWarehouse(tt.user), "IsAdminOrWarehouse")
			assert.Equal(t, tt.want.teacherOrAbove, IsTeacherOrAbove(tt.user), "IsTeacherOrAbove")
			assert.Equal(t, tt.want.viewOrders, CanViewOrders(tt.user), "CanViewOrders")
			assert.Equal(t, tt.want.createOrder, CanCreateOrder(tt.user), "CanCreateOrder")
			assert.Equal(t, tt.want.viewStats, CanViewStatistics(tt.user), "CanViewStatistics")
			assert.Equal(t, tt.want.manageBasic, CanManageBasicData(tt.user), "CanManageBasicData")
		})
	}
}

func TestHasRole(t *testing.T) {
	u := userWithRole("教师")
	assert.True(t, HasRole(u, RoleTeacher))
	assert.True(t, HasRole(u, RoleAdmin, RoleTeacher))
	assert.False(t, HasRole(u, RoleAdmin))
	assert.False(t, HasRole(u))
	assert.False(t, HasRole(nil, RoleTeacher))
}

func TestHideIfNoPermission(t *testing.T) {
	node := Toast("x", MessageInfo)
	assert.Nil(t, HideIfNoPermission(node, userWithRole("教师"), IsAdmin))
	assert.NotNil(t, HideIfNoPermission(node, userWithRole("管理员"), IsAdmin))
}

func TestDisableIfNoPermission(t *testing.T) {
	b := Button{Label: "删除", Class: "btn"}

	denied := render(t, DisableIfNoPermission(b, userWithRole("普通用户"), CanManageBasicData, ""))
	assert.Contains(t, denied, " disabled")
	assert.Contains(t, denied, "opacity:0.5;cursor:not-allowed;")
	assert.Contains(t, denied, `title="您没有此操作的权限"`)
	assert.Contains(t, denied, `data-denied-message="您没有此操作的权限"`)

	custom := render(t, DisableIfNoPermission(b, nil, CanManageBasicData, "仅管理员可删除"))
	assert.Contains(t, custom, `title="仅管理员可删除"`)

	allowed := render(t, DisableIfNoPermission(b, userWithRole("管理员"), CanManageBasicData, ""))
	assert.NotContains(t, allowed, "disabled")
	assert.NotContains(t, allowed, "opacity")
	assert.Empty(t, b.Attrs, "the caller's button is not modified")
}

func TestApplyPermissions(t *testing.T) {
	flags := ApplyPermissions(userWithRole("仓库管理员"), map[string]Check{
		"create":   CanCreateOrder,
		"manage":   CanManageBasicData,
		"stock-in": IsAdminOrWarehouse,
	})
	assert.Equal(t, map[string]bool{"create": true, "manage": false, "stock-in": true}, flags)
}

func TestCheckPermissionBeforeAction(t *testing.T) {
	ran := false
	action := func() error { ran = true; return nil }

	toast, err := CheckPermissionBeforeAction(userWithRole("教师"), IsAdmin, action, "")
	require.NoError(t, err)
	require.NotNil(t, toast)
	assert.False(t, ran)
	out := render(t, toast)
	assert.Contains(t, out, "alert-warning")
	assert.Contains(t, out, "您没有此操作的权限")

	toast, err = CheckPermissionBeforeAction(userWithRole("管理员"), IsAdmin, action, "")
	require.NoError(t, err)
	assert.Nil(t, toast)
	assert.True(t, ran)

	boom := errors.New("boom")
	_, err = CheckPermissionBeforeAction(userWithRole("管理员"), IsAdmin, func() error { return boom }, "")
	require.ErrorIs(t, err, boom)
}

func TestRequirePermission(t *testing.T) {
	err := RequirePermission(nil, CanViewOrders, "请先登录")
	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "请先登录", permErr.Message)
	assert.NoError(t, RequirePermission(userWithRole("教师"), CanViewOrders, ""))
}
