package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

type Permission string

const (
	PermScheduleView    Permission = "schedule_view"
	PermScheduleEdit    Permission = "schedule_edit"
	PermScheduleManage  Permission = "schedule_manage"
	PermEmployeesView   Permission = "employees_view"
	PermEmployeesEdit   Permission = "employees_edit"
	PermEmployeesManage Permission = "employees_manage"
	PermVehiclesView    Permission = "vehicles_view"
	PermVehiclesEdit    Permission = "vehicles_edit"
	PermVehiclesManage  Permission = "vehicles_manage"
	PermRequestsView    Permission = "requests_view"
	PermRequestsApprove Permission = "requests_approve"
	PermRequestsManage  Permission = "requests_manage"
	PermWorkplanView    Permission = "workplan_view"
	PermWorkplanEdit    Permission = "workplan_edit"
	PermWorkplanManage  Permission = "workplan_manage"
	PermUsersView       Permission = "users_view"
	PermUsersEdit       Permission = "users_edit"
	PermUsersManage     Permission = "users_manage"
	PermSystemSettings  Permission = "system_settings"
	PermSystemReports   Permission = "system_reports"
)

// AllPermissions 包含系统中所有的权限，初始管理员和校验输入时会用到
var AllPermissions = []Permission{
	PermScheduleView, PermScheduleEdit, PermScheduleManage,
	PermEmployeesView, PermEmployeesEdit, PermEmployeesManage,
	PermVehiclesView, PermVehiclesEdit, PermVehiclesManage,
	PermRequestsView, PermRequestsApprove, PermRequestsManage,
	PermWorkplanView, PermWorkplanEdit, PermWorkplanManage,
	PermUsersView, PermUsersEdit, PermUsersManage,
	PermSystemSettings, PermSystemReports,
}

// DefaultViewPermissions 新建普通用户时默认授予的只读权限
var DefaultViewPermissions = []Permission{
	PermScheduleView,
	PermEmployeesView,
	PermVehiclesView,
	PermRequestsView,
	PermWorkplanView,
}

func IsValidPermission(p Permission) bool {
	return slices.Contains(AllPermissions, p)
}

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Permissions  []Permission `json:"permissions"`
	IsActive     bool         `json:"isActive"`
	LastLogin    *time.Time   `json:"lastLogin"`
	CreatedAt    time.Time    `json:"createdAt"`
	Version      int32        `json:"-"`
}

// HasPermission 只检查显式授予的权限，admin 的隐式全权限在授权判定中处理
func (u *User) HasPermission(p Permission) bool {
	return slices.Contains(u.Permissions, p)
}
